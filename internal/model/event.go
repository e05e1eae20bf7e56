package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType is the closed set of things that can happen in a match.
type EventType string

const (
	// Match flow
	EventKickOff           EventType = "KICK_OFF"
	EventHalfTime          EventType = "HALF_TIME"
	EventSecondHalfKickOff EventType = "SECOND_HALF_KICK_OFF"
	EventFullTime          EventType = "FULL_TIME"

	// Significant
	EventGoal           EventType = "GOAL"
	EventOwnGoal        EventType = "OWN_GOAL"
	EventPenaltyAwarded EventType = "PENALTY_AWARDED"
	EventPenaltyScored  EventType = "PENALTY_SCORED"
	EventPenaltyMissed  EventType = "PENALTY_MISSED"
	EventPenaltySaved   EventType = "PENALTY_SAVED"
	EventYellowCard     EventType = "YELLOW_CARD"
	EventSecondYellow   EventType = "SECOND_YELLOW"
	EventRedCard        EventType = "RED_CARD"
	EventSubstitution   EventType = "SUBSTITUTION"
	EventInjuryStoppage EventType = "INJURY_STOPPAGE"
	EventVARCheck       EventType = "VAR_CHECK"
	EventVAROverturned  EventType = "VAR_OVERTURNED"

	// Play
	EventCornerKick    EventType = "CORNER_KICK"
	EventOffside       EventType = "OFFSIDE"
	EventShotOnTarget  EventType = "SHOT_ON_TARGET"
	EventShotOffTarget EventType = "SHOT_OFF_TARGET"
	EventSave          EventType = "SAVE"
	EventFoul          EventType = "FOUL"
)

// IsGoal reports whether the event changes the score.
func (t EventType) IsGoal() bool {
	switch t {
	case EventGoal, EventOwnGoal, EventPenaltyScored:
		return true
	}
	return false
}

func (t EventType) IsCard() bool {
	switch t {
	case EventYellowCard, EventSecondYellow, EventRedCard:
		return true
	}
	return false
}

// IsSignificant reports whether the event belongs in a match summary.
func (t EventType) IsSignificant() bool {
	switch t {
	case EventGoal, EventOwnGoal,
		EventPenaltyAwarded, EventPenaltyScored, EventPenaltyMissed, EventPenaltySaved,
		EventYellowCard, EventSecondYellow, EventRedCard,
		EventSubstitution, EventInjuryStoppage, EventVARCheck, EventVAROverturned:
		return true
	}
	return false
}

// MatchEvent is an immutable fact appended to a match. For goal types
// TeamID is the side credited with the goal.
type MatchEvent struct {
	ID                string    `json:"id"`
	Minute            int       `json:"minute"`
	AdditionalMinutes int       `json:"additional_minutes"`
	Type              EventType `json:"type"`
	TeamID            string    `json:"team_id,omitempty"`
	PlayerID          string    `json:"player_id,omitempty"`
	PlayerName        string    `json:"player_name,omitempty"`
	Description       string    `json:"description"`
	CreatedAt         time.Time `json:"timestamp"`
}

// NewEvent builds a team-less event such as a kickoff.
func NewEvent(minute, additional int, typ EventType, description string) MatchEvent {
	return MatchEvent{
		ID:                uuid.NewString(),
		Minute:            minute,
		AdditionalMinutes: additional,
		Type:              typ,
		Description:       description,
		CreatedAt:         time.Now().UTC(),
	}
}

// NewPlayerEvent builds an event attributed to a team and player.
func NewPlayerEvent(minute, additional int, typ EventType, team *Team, p Player, description string) MatchEvent {
	e := NewEvent(minute, additional, typ, description)
	if team != nil {
		e.TeamID = team.ID
	}
	e.PlayerID = p.ID
	e.PlayerName = p.Name
	return e
}

// DisplayTime renders the event clock, e.g. "45+2'".
func (e MatchEvent) DisplayTime() string {
	if e.AdditionalMinutes > 0 {
		return fmt.Sprintf("%d+%d'", e.Minute, e.AdditionalMinutes)
	}
	return fmt.Sprintf("%d'", e.Minute)
}

// Before orders events by simulated time.
func (e MatchEvent) Before(o MatchEvent) bool {
	if e.Minute != o.Minute {
		return e.Minute < o.Minute
	}
	return e.AdditionalMinutes < o.AdditionalMinutes
}
