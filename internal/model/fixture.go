package model

// Fixture is one matchweek of a league season.
type Fixture struct {
	LeagueID  string
	Season    int
	Matchweek int
	Matches   []*Match
}

// Completed reports whether every match has reached full time.
func (f *Fixture) Completed() bool {
	for _, m := range f.Matches {
		if !m.IsFinished() {
			return false
		}
	}
	return true
}

// Live reports whether any match is under way, half time included.
func (f *Fixture) Live() bool {
	for _, m := range f.Matches {
		if m.IsLive() {
			return true
		}
	}
	return false
}

// Match finds a match in the fixture by id.
func (f *Fixture) Match(id string) (*Match, bool) {
	for _, m := range f.Matches {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// FixtureSnapshot is a read-only copy of a fixture.
type FixtureSnapshot struct {
	LeagueID  string          `json:"league_id"`
	Season    int             `json:"season"`
	Matchweek int             `json:"matchweek"`
	Matches   []MatchSnapshot `json:"matches"`
	Completed bool            `json:"completed"`
	Live      bool            `json:"live"`
}

func (f *Fixture) Snapshot() FixtureSnapshot {
	s := FixtureSnapshot{
		LeagueID:  f.LeagueID,
		Season:    f.Season,
		Matchweek: f.Matchweek,
		Matches:   make([]MatchSnapshot, 0, len(f.Matches)),
		Completed: true,
	}
	for _, m := range f.Matches {
		ms := m.Snapshot()
		s.Matches = append(s.Matches, ms)
		if !ms.Finished {
			s.Completed = false
		}
		if ms.Live {
			s.Live = true
		}
	}
	return s
}

// SeasonState is where a league's orchestrator sits in its loop.
type SeasonState string

const (
	SeasonIdle               SeasonState = "IDLE"
	SeasonCountdown          SeasonState = "COUNTDOWN"
	SeasonRunningFixture     SeasonState = "RUNNING_FIXTURE"
	SeasonWaitingNextFixture SeasonState = "WAITING_NEXT_FIXTURE"
	SeasonComplete           SeasonState = "SEASON_COMPLETE"
	SeasonWaitingNextSeason  SeasonState = "WAITING_NEXT_SEASON"
)
