package model

// TeamStats are per-side counts derived from a match's events.
type TeamStats struct {
	Shots         int `json:"shots"`
	ShotsOnTarget int `json:"shots_on_target"`
	Corners       int `json:"corners"`
	Fouls         int `json:"fouls"`
	YellowCards   int `json:"yellow_cards"`
	RedCards      int `json:"red_cards"`
}

// Add folds a single event into the counts.
func (s *TeamStats) Add(t EventType) {
	switch t {
	case EventShotOnTarget, EventGoal, EventPenaltyScored:
		s.Shots++
		s.ShotsOnTarget++
	case EventShotOffTarget:
		s.Shots++
	case EventCornerKick:
		s.Corners++
	case EventFoul:
		s.Fouls++
	case EventYellowCard, EventSecondYellow:
		s.YellowCards++
	case EventRedCard:
		s.RedCards++
	}
}

// MatchStats pairs both sides' counts.
type MatchStats struct {
	Home TeamStats `json:"home"`
	Away TeamStats `json:"away"`
}

// ComputeStats tallies events by the team they are attributed to. Events
// for neither side are ignored.
func ComputeStats(homeID, awayID string, events []MatchEvent) MatchStats {
	var s MatchStats
	for _, e := range events {
		switch e.TeamID {
		case homeID:
			s.Home.Add(e.Type)
		case awayID:
			s.Away.Add(e.Type)
		}
	}
	return s
}
