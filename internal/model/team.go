// Package model holds the league, team, match and event types shared by the
// simulation engine, the standings tables and the API layer.
//
// Team and Player are immutable reference data. Match is the only mutable
// aggregate; it is written by one engine and read through snapshots.
package model

import (
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Positions & players
// --------------------------------------------------------------------------

// Position is a player's primary role on the pitch.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

// ParsePosition accepts both the short codes and the long names
// ("goalkeeper", "Defender", ...).
func ParsePosition(s string) (Position, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "GK", "GOALKEEPER":
		return PositionGoalkeeper, nil
	case "DEF", "DEFENDER":
		return PositionDefender, nil
	case "MID", "MIDFIELDER":
		return PositionMidfielder, nil
	case "FWD", "FORWARD":
		return PositionForward, nil
	}
	return "", fmt.Errorf("unknown position %q", s)
}

// Player is a squad member. Rating is clamped to 1–100.
type Player struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Position    Position `json:"position"`
	ShirtNumber int      `json:"shirt_number"`
	Rating      int      `json:"rating"`
}

// NewPlayer builds a Player with its rating clamped into range.
func NewPlayer(id, name string, pos Position, shirt, rating int) Player {
	return Player{
		ID:          id,
		Name:        name,
		Position:    pos,
		ShirtNumber: shirt,
		Rating:      clamp(rating),
	}
}

// UnknownPlayer stands in when a roster has nobody to pick.
func UnknownPlayer(pos Position) Player {
	return Player{ID: "unknown", Name: "Unknown Player", Position: pos, Rating: 70}
}

// --------------------------------------------------------------------------
// Teams
// --------------------------------------------------------------------------

// Strength is a team's rating per unit, each clamped to 1–100.
type Strength struct {
	Attack     int `json:"attack"`
	Midfield   int `json:"midfield"`
	Defense    int `json:"defense"`
	Goalkeeper int `json:"goalkeeper"`
}

// NewStrength clamps every component into 1–100.
func NewStrength(attack, midfield, defense, goalkeeper int) Strength {
	return Strength{
		Attack:     clamp(attack),
		Midfield:   clamp(midfield),
		Defense:    clamp(defense),
		Goalkeeper: clamp(goalkeeper),
	}
}

// Overall is the weighted single-number rating used for predictions.
func (s Strength) Overall() float64 {
	return float64(s.Attack)*0.3 + float64(s.Midfield)*0.25 +
		float64(s.Defense)*0.25 + float64(s.Goalkeeper)*0.2
}

// Team is a club with its strength profile and squad.
type Team struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	ShortName string   `json:"short_name"`
	BadgeURL  string   `json:"badge_url,omitempty"`
	Strength  Strength `json:"strength"`
	Players   []Player `json:"players,omitempty"`
}

// PlayersAt returns the squad members playing the given position.
func (t *Team) PlayersAt(pos Position) []Player {
	var out []Player
	for _, p := range t.Players {
		if p.Position == pos {
			out = append(out, p)
		}
	}
	return out
}

// Goalkeeper returns the first listed keeper.
func (t *Team) Goalkeeper() (Player, bool) {
	for _, p := range t.Players {
		if p.Position == PositionGoalkeeper {
			return p, true
		}
	}
	return Player{}, false
}

// Ref returns the lightweight team reference embedded in snapshots.
func (t *Team) Ref() TeamRef {
	return TeamRef{ID: t.ID, Name: t.Name, ShortName: t.ShortName, BadgeURL: t.BadgeURL}
}

// TeamRef identifies a team without its squad.
type TeamRef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	BadgeURL  string `json:"badge_url,omitempty"`
}

// --------------------------------------------------------------------------
// Leagues
// --------------------------------------------------------------------------

// League is a competition and its ordered team list.
type League struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Country string  `json:"country"`
	LogoURL string  `json:"logo_url,omitempty"`
	Teams   []*Team `json:"teams"`
}

func (l *League) TeamCount() int { return len(l.Teams) }

// TotalMatchweeks is the length of a double round-robin season.
func (l *League) TotalMatchweeks() int {
	n := l.TeamCount()
	if n < 2 {
		return 0
	}
	if n%2 == 1 {
		n++
	}
	return 2 * (n - 1)
}

func (l *League) MatchesPerMatchweek() int { return l.TeamCount() / 2 }

// Team looks a team up by id.
func (l *League) Team(id string) (*Team, bool) {
	for _, t := range l.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

func clamp(v int) int {
	switch {
	case v < 1:
		return 1
	case v > 100:
		return 100
	}
	return v
}
