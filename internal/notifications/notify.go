// Package notifications publishes what the simulation does: match events,
// match state, countdowns, standings and season transitions.
//
// Publishers call Hub.Publish; subscribers (the WebSocket stream, the
// Kafka sink, tests) receive every message synchronously and in the order
// it was published.
package notifications

import (
	"time"

	"github.com/albapepper/scoracle-sim/internal/model"
	"github.com/albapepper/scoracle-sim/internal/standings"
)

// Kind identifies a message's payload.
type Kind string

const (
	KindMatchEvent   Kind = "match_event"
	KindMatchState   Kind = "match_state"
	KindCountdown    Kind = "countdown"
	KindStandings    Kind = "standings"
	KindSeasonState  Kind = "season_state"
	KindFixtureStart Kind = "fixture_start"
)

// Message is one published update. Exactly one payload field is set,
// matching Kind.
type Message struct {
	Kind     Kind      `json:"kind"`
	LeagueID string    `json:"league_id"`
	At       time.Time `json:"at"`

	Event     *model.MatchEvent      `json:"event,omitempty"`
	MatchID   string                 `json:"match_id,omitempty"`
	Match     *model.MatchSnapshot   `json:"match,omitempty"`
	Countdown *Countdown             `json:"countdown,omitempty"`
	Table     *Table                 `json:"table,omitempty"`
	Season    *SeasonStatus          `json:"season,omitempty"`
	Fixture   *model.FixtureSnapshot `json:"fixture,omitempty"`
}

// Countdown is sent once a second before a matchweek kicks off.
type Countdown struct {
	SecondsRemaining int                   `json:"seconds_remaining"`
	Fixture          model.FixtureSnapshot `json:"fixture"`
}

// Table carries a ranked league table. Live tables include in-progress
// scores.
type Table struct {
	Season    int                  `json:"season"`
	Matchweek int                  `json:"matchweek"`
	Live      bool                 `json:"live"`
	Rows      []standings.Standing `json:"rows"`
}

// SeasonStatus describes an orchestrator's position in its loop.
type SeasonStatus struct {
	State            model.SeasonState `json:"state"`
	Season           int               `json:"season"`
	Matchweek        int               `json:"matchweek"`
	TotalMatchweeks  int               `json:"total_matchweeks"`
	SecondsRemaining int               `json:"seconds_remaining,omitempty"`
}

// Significant reports whether a message is worth forwarding to consumers
// that only want headlines: goals, cards, phase changes, tables and
// season transitions, but not every shot or per-tick state refresh.
func (m Message) Significant() bool {
	switch m.Kind {
	case KindMatchState, KindCountdown:
		return false
	case KindMatchEvent:
		if m.Event == nil {
			return false
		}
		switch m.Event.Type {
		case model.EventKickOff, model.EventHalfTime, model.EventSecondHalfKickOff, model.EventFullTime:
			return true
		}
		return m.Event.Type.IsSignificant()
	}
	return true
}

func stamp(m *Message) {
	if m.At.IsZero() {
		m.At = time.Now().UTC()
	}
}
