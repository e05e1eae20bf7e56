package season

import (
	"github.com/albapepper/scoracle-sim/internal/model"
	"github.com/albapepper/scoracle-sim/internal/standings"
)

// Status summarizes the loop for health checks and the API.
func (o *Orchestrator) Status() Status {
	o.mu.RLock()
	defer o.mu.RUnlock()

	s := Status{
		LeagueID:         o.league.ID,
		LeagueName:       o.league.Name,
		State:            o.state,
		Season:           o.season,
		CurrentMatchweek: o.currentMatchweek(),
		TotalMatchweeks:  len(o.fixtures),
		CountdownSeconds: o.countdownLeft,
	}
	for _, f := range o.fixtures {
		for _, m := range f.Matches {
			switch {
			case m.IsLive():
				s.LiveMatches++
			case m.IsFinished():
				s.CompletedMatches++
			}
		}
	}
	return s
}

func (o *Orchestrator) State() model.SeasonState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// Season returns the season number currently held by the orchestrator.
func (o *Orchestrator) Season() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.season
}

// CurrentFixture is the matchweek counting down, in play, or just played.
func (o *Orchestrator) CurrentFixture() (model.FixtureSnapshot, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if len(o.fixtures) == 0 {
		return model.FixtureSnapshot{}, false
	}
	return o.fixtures[o.current].Snapshot(), true
}

// NextFixture is the first matchweek that has not kicked off yet.
func (o *Orchestrator) NextFixture() (model.FixtureSnapshot, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if len(o.fixtures) == 0 {
		return model.FixtureSnapshot{}, false
	}
	next := o.current + 1
	if o.state == model.SeasonCountdown || o.state == model.SeasonIdle {
		next = o.current
	}
	if next >= len(o.fixtures) {
		return model.FixtureSnapshot{}, false
	}
	return o.fixtures[next].Snapshot(), true
}

// Schedule returns every matchweek of the current season.
func (o *Orchestrator) Schedule() []model.FixtureSnapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]model.FixtureSnapshot, 0, len(o.fixtures))
	for _, f := range o.fixtures {
		out = append(out, f.Snapshot())
	}
	return out
}

// Standings returns the ranked table. While a matchweek is in play the
// table includes the provisional results; live reports which one it is.
func (o *Orchestrator) Standings() (rows []standings.Standing, live bool, ok bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.state == model.SeasonRunningFixture {
		rows, ok = o.table.LiveStandingsFor(o.league.ID, o.season, o.fixtures[o.current].Snapshot())
		return rows, true, ok
	}
	rows, ok = o.table.StandingsFor(o.league.ID, o.season)
	return rows, false, ok
}

// TeamStanding returns one team's committed row.
func (o *Orchestrator) TeamStanding(teamID string) (standings.Standing, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.table.TeamStanding(o.league.ID, o.season, teamID)
}

// LiveMatches returns the matches under way, half time included.
func (o *Orchestrator) LiveMatches() []model.MatchSnapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	var out []model.MatchSnapshot
	if len(o.fixtures) == 0 {
		return out
	}
	for _, m := range o.fixtures[o.current].Matches {
		if m.IsLive() {
			out = append(out, m.Snapshot())
		}
	}
	return out
}

// CompletedMatches returns this season's finished matches, oldest
// matchweek first.
func (o *Orchestrator) CompletedMatches() []model.MatchSnapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	var out []model.MatchSnapshot
	for _, f := range o.fixtures {
		for _, m := range f.Matches {
			if m.IsFinished() {
				out = append(out, m.Snapshot())
			}
		}
	}
	return out
}

// Match looks up a match of the current season by id.
func (o *Orchestrator) Match(id string) (MatchRecord, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, f := range o.fixtures {
		if m, ok := f.Match(id); ok {
			return record(m), true
		}
	}
	return MatchRecord{}, false
}

// TopScorers ranks players by goals in completed matchweeks, penalties
// included and own goals excluded.
func (o *Orchestrator) TopScorers(limit int) []Scorer {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.stats.topScorers(limit)
}

// TeamSummary returns a team's row plus event totals over its completed
// matches.
func (o *Orchestrator) TeamSummary(teamID string) (TeamSummary, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	row, ok := o.table.TeamStanding(o.league.ID, o.season, teamID)
	if !ok {
		return TeamSummary{}, false
	}
	return TeamSummary{Standing: row, Stats: o.stats.teams[teamID]}, true
}

// Summary aggregates the season's completed matches.
func (o *Orchestrator) Summary() LeagueSummary {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.stats.summary
}

// matchRecords collects the matches accepted by keep; callers hold mu.
func (o *Orchestrator) matchRecords(keep func(*model.Match) bool) []MatchRecord {
	var out []MatchRecord
	for _, f := range o.fixtures {
		for _, m := range f.Matches {
			if keep(m) {
				out = append(out, record(m))
			}
		}
	}
	return out
}

func record(m *model.Match) MatchRecord {
	return MatchRecord{MatchSnapshot: m.Snapshot(), Events: m.Events()}
}
