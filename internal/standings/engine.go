package standings

import (
	"errors"
	"fmt"
	"sync"

	"github.com/albapepper/scoracle-sim/internal/model"
)

var (
	// ErrUnknownTable is returned for a league/season that was never initialized.
	ErrUnknownTable = errors.New("standings not initialized")
	// ErrMatchNotFinished is returned when recording a match still in play.
	ErrMatchNotFinished = errors.New("match not finished")
	// ErrAlreadyRecorded is returned when a match is recorded a second time.
	ErrAlreadyRecorded = errors.New("match already recorded")
)

type tableKey struct {
	leagueID string
	season   int
}

type table struct {
	rows     map[string]*Standing
	recorded map[string]bool // match ids
}

// Engine holds every initialized table. It is safe for concurrent use.
type Engine struct {
	mu     sync.RWMutex
	tables map[tableKey]*table
}

func NewEngine() *Engine {
	return &Engine{tables: make(map[tableKey]*table)}
}

// InitializeSeason creates an empty table for every team of the league,
// replacing any existing table for that season.
func (e *Engine) InitializeSeason(league *model.League, season int) {
	t := &table{
		rows:     make(map[string]*Standing, len(league.Teams)),
		recorded: make(map[string]bool),
	}
	for _, team := range league.Teams {
		s := NewStanding(team)
		t.rows[team.ID] = &s
	}

	e.mu.Lock()
	e.tables[tableKey{league.ID, season}] = t
	e.mu.Unlock()
}

// Drop discards a season's table.
func (e *Engine) Drop(leagueID string, season int) {
	e.mu.Lock()
	delete(e.tables, tableKey{leagueID, season})
	e.mu.Unlock()
}

// RecordResult applies a finished match to both teams' rows. Each match is
// applied at most once.
func (e *Engine) RecordResult(leagueID string, season int, m *model.Match) error {
	if !m.IsFinished() {
		return fmt.Errorf("record match %s: %w", m.ID, ErrMatchNotFinished)
	}
	home, away := m.Score()

	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.tables[tableKey{leagueID, season}]
	if !ok {
		return fmt.Errorf("record match %s for %s season %d: %w", m.ID, leagueID, season, ErrUnknownTable)
	}
	if t.recorded[m.ID] {
		return fmt.Errorf("record match %s: %w", m.ID, ErrAlreadyRecorded)
	}
	hs, okHome := t.rows[m.Home.ID]
	as, okAway := t.rows[m.Away.ID]
	if !okHome || !okAway {
		return fmt.Errorf("record match %s: team not in %s table", m.ID, leagueID)
	}
	hs.RecordResult(home, away)
	as.RecordResult(away, home)
	t.recorded[m.ID] = true
	return nil
}

// StandingsFor returns a ranked copy of the committed table.
func (e *Engine) StandingsFor(leagueID string, season int) ([]Standing, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, ok := e.tables[tableKey{leagueID, season}]
	if !ok {
		return nil, false
	}
	out := t.copyRows()
	Rank(out)
	return out, true
}

// TeamStanding returns one team's committed row with its current position.
func (e *Engine) TeamStanding(leagueID string, season int, teamID string) (Standing, bool) {
	rows, ok := e.StandingsFor(leagueID, season)
	if !ok {
		return Standing{}, false
	}
	for _, s := range rows {
		if s.TeamID == teamID {
			return s, true
		}
	}
	return Standing{}, false
}

// LiveStandingsFor projects the table as if every started match of fx
// ended at its current score. The committed table is not modified, and
// matches already recorded are not applied twice, so repeated calls
// during a fixture always give the same result for the same scores.
func (e *Engine) LiveStandingsFor(leagueID string, season int, fx model.FixtureSnapshot) ([]Standing, bool) {
	e.mu.RLock()
	t, ok := e.tables[tableKey{leagueID, season}]
	if !ok {
		e.mu.RUnlock()
		return nil, false
	}
	out := t.copyRows()
	recorded := make(map[string]bool, len(fx.Matches))
	for _, m := range fx.Matches {
		recorded[m.ID] = t.recorded[m.ID]
	}
	e.mu.RUnlock()

	index := make(map[string]int, len(out))
	for i, s := range out {
		index[s.TeamID] = i
	}
	for _, m := range fx.Matches {
		if !m.Phase.Started() || recorded[m.ID] {
			continue
		}
		if i, ok := index[m.HomeTeam.ID]; ok {
			out[i].RecordResult(m.HomeScore, m.AwayScore)
		}
		if i, ok := index[m.AwayTeam.ID]; ok {
			out[i].RecordResult(m.AwayScore, m.HomeScore)
		}
	}
	Rank(out)
	return out, true
}

func (t *table) copyRows() []Standing {
	out := make([]Standing, 0, len(t.rows))
	for _, s := range t.rows {
		out = append(out, s.clone())
	}
	return out
}
