package model

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Phase is a match's position in its lifecycle.
type Phase string

const (
	PhaseNotStarted Phase = "NOT_STARTED"
	PhaseFirstHalf  Phase = "FIRST_HALF"
	PhaseHalfTime   Phase = "HALF_TIME"
	PhaseSecondHalf Phase = "SECOND_HALF"
	PhaseFullTime   Phase = "FULL_TIME"
)

// IsPlaying is true while the ball is in play.
func (p Phase) IsPlaying() bool { return p == PhaseFirstHalf || p == PhaseSecondHalf }

// InProgress is true from kickoff until full time, half time included.
func (p Phase) InProgress() bool { return p.IsPlaying() || p == PhaseHalfTime }

func (p Phase) IsFinished() bool { return p == PhaseFullTime }

// Started is true once the match has left NOT_STARTED.
func (p Phase) Started() bool { return p != PhaseNotStarted && p != "" }

// Match is one game between two teams. The score is never stored directly:
// it is recomputed from the goal events whenever an event is appended.
// Once the match reaches FULL_TIME its content is frozen.
type Match struct {
	ID        string
	LeagueID  string
	Season    int
	Matchweek int
	Home      *Team
	Away      *Team

	mu         sync.RWMutex
	events     []MatchEvent
	homeScore  int
	awayScore  int
	phase      Phase
	minute     int
	additional int
}

// NewMatch creates a not-started match.
func NewMatch(leagueID string, season, matchweek int, home, away *Team) *Match {
	return &Match{
		ID:        uuid.NewString(),
		LeagueID:  leagueID,
		Season:    season,
		Matchweek: matchweek,
		Home:      home,
		Away:      away,
		phase:     PhaseNotStarted,
	}
}

// Append adds an event and re-derives the score. It reports false, and
// changes nothing, once the match is finished.
func (m *Match) Append(e MatchEvent) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase.IsFinished() {
		return false
	}
	m.events = append(m.events, e)
	m.recomputeScore()
	return true
}

func (m *Match) recomputeScore() {
	home, away := 0, 0
	for _, e := range m.events {
		if !e.Type.IsGoal() {
			continue
		}
		switch e.TeamID {
		case m.Home.ID:
			home++
		case m.Away.ID:
			away++
		}
	}
	m.homeScore, m.awayScore = home, away
}

// SetPhase moves the match to p. A finished match stays finished.
func (m *Match) SetPhase(p Phase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase.IsFinished() {
		return
	}
	m.phase = p
}

// SetClock records the displayed minute and stoppage minutes.
func (m *Match) SetClock(minute, additional int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase.IsFinished() {
		return
	}
	m.minute, m.additional = minute, additional
}

func (m *Match) Phase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}

// Score returns the derived home and away goals.
func (m *Match) Score() (home, away int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.homeScore, m.awayScore
}

func (m *Match) IsFinished() bool { return m.Phase().IsFinished() }

// IsLive is true between kickoff and full time, so a match at half time
// still counts as live.
func (m *Match) IsLive() bool { return m.Phase().InProgress() }

// Events returns a copy of the event log in append order.
func (m *Match) Events() []MatchEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]MatchEvent, len(m.events))
	copy(out, m.events)
	return out
}

// SignificantEvents filters the log down to goals, cards and the like.
func (m *Match) SignificantEvents() []MatchEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []MatchEvent
	for _, e := range m.events {
		if e.Type.IsSignificant() {
			out = append(out, e)
		}
	}
	return out
}

func (m *Match) ScoreDisplay() string {
	h, a := m.Score()
	return fmt.Sprintf("%d - %d", h, a)
}

// TimeDisplay renders the match clock: "Not Started", "HT", "FT" or "67'".
func (m *Match) TimeDisplay() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return timeDisplay(m.phase, m.minute, m.additional)
}

func timeDisplay(p Phase, minute, additional int) string {
	switch p {
	case PhaseNotStarted, "":
		return "Not Started"
	case PhaseHalfTime:
		return "HT"
	case PhaseFullTime:
		return "FT"
	}
	if additional > 0 {
		return fmt.Sprintf("%d+%d'", minute, additional)
	}
	return fmt.Sprintf("%d'", minute)
}

// MatchSnapshot is a point-in-time copy of a match safe to hand to readers.
type MatchSnapshot struct {
	ID                string  `json:"id"`
	LeagueID          string  `json:"league_id"`
	Season            int     `json:"season"`
	Matchweek         int     `json:"matchweek"`
	HomeTeam          TeamRef `json:"home_team"`
	AwayTeam          TeamRef `json:"away_team"`
	HomeScore         int     `json:"home_score"`
	AwayScore         int     `json:"away_score"`
	ScoreDisplay      string  `json:"score_display"`
	Phase             Phase   `json:"phase"`
	Minute            int     `json:"minute"`
	AdditionalMinutes int     `json:"additional_minutes"`
	TimeDisplay       string  `json:"time_display"`
	Live              bool    `json:"live"`
	Finished          bool    `json:"finished"`
}

// Snapshot copies the current state without the event log.
func (m *Match) Snapshot() MatchSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MatchSnapshot{
		ID:                m.ID,
		LeagueID:          m.LeagueID,
		Season:            m.Season,
		Matchweek:         m.Matchweek,
		HomeTeam:          m.Home.Ref(),
		AwayTeam:          m.Away.Ref(),
		HomeScore:         m.homeScore,
		AwayScore:         m.awayScore,
		ScoreDisplay:      fmt.Sprintf("%d - %d", m.homeScore, m.awayScore),
		Phase:             m.phase,
		Minute:            m.minute,
		AdditionalMinutes: m.additional,
		TimeDisplay:       timeDisplay(m.phase, m.minute, m.additional),
		Live:              m.phase.InProgress(),
		Finished:          m.phase.IsFinished(),
	}
}
