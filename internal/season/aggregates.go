package season

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/albapepper/scoracle-sim/internal/model"
)

// aggregates holds the season totals that the read APIs serve. It is
// folded forward once per finished match when a matchweek completes, so
// queries never walk event logs. Callers hold the orchestrator's mu.
type aggregates struct {
	summary LeagueSummary
	highest int
	scorers map[string]*Scorer
	ranked  []Scorer
	teams   map[string]model.TeamStats
}

func newAggregates(leagueID string, season int) *aggregates {
	return &aggregates{
		summary: LeagueSummary{LeagueID: leagueID, Season: season},
		highest: -1,
		scorers: make(map[string]*Scorer),
		teams:   make(map[string]model.TeamStats),
	}
}

// add folds one finished match in. Call rank once the batch is done.
func (a *aggregates) add(m *model.Match) {
	snap := m.Snapshot()
	s := &a.summary

	goals := snap.HomeScore + snap.AwayScore
	s.MatchesPlayed++
	s.TotalGoals += goals
	switch {
	case snap.HomeScore > snap.AwayScore:
		s.HomeWins++
	case snap.AwayScore > snap.HomeScore:
		s.AwayWins++
	default:
		s.Draws++
	}
	if goals > a.highest {
		a.highest = goals
		s.HighestScoringMatch = fmt.Sprintf("%s %d-%d %s", snap.HomeTeam.ShortName, snap.HomeScore, snap.AwayScore, snap.AwayTeam.ShortName)
	}
	s.AverageGoals = math.Round(float64(s.TotalGoals)/float64(s.MatchesPlayed)*100) / 100

	for _, e := range m.Events() {
		switch e.Type {
		case model.EventYellowCard, model.EventSecondYellow:
			s.YellowCards++
		case model.EventRedCard:
			s.RedCards++
		}

		if e.TeamID == snap.HomeTeam.ID || e.TeamID == snap.AwayTeam.ID {
			ts := a.teams[e.TeamID]
			ts.Add(e.Type)
			a.teams[e.TeamID] = ts
		}

		if (e.Type != model.EventGoal && e.Type != model.EventPenaltyScored) || e.PlayerID == "" {
			continue
		}
		sc, ok := a.scorers[e.PlayerID]
		if !ok {
			teamName := snap.HomeTeam.Name
			if e.TeamID == snap.AwayTeam.ID {
				teamName = snap.AwayTeam.Name
			}
			sc = &Scorer{PlayerID: e.PlayerID, PlayerName: e.PlayerName, TeamID: e.TeamID, TeamName: teamName}
			a.scorers[e.PlayerID] = sc
		}
		sc.Goals++
		if e.Type == model.EventPenaltyScored {
			sc.Penalties++
		}
	}
}

// rank rebuilds the scorer table: goals descending, then name and ID.
func (a *aggregates) rank() {
	a.ranked = a.ranked[:0]
	for _, sc := range a.scorers {
		a.ranked = append(a.ranked, *sc)
	}
	slices.SortFunc(a.ranked, func(x, y Scorer) int {
		if c := cmp.Compare(y.Goals, x.Goals); c != 0 {
			return c
		}
		if c := strings.Compare(x.PlayerName, y.PlayerName); c != 0 {
			return c
		}
		return strings.Compare(x.PlayerID, y.PlayerID)
	})
}

func (a *aggregates) topScorers(limit int) []Scorer {
	out := a.ranked
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return append([]Scorer{}, out...)
}
