// Package season runs one league's never-ending loop of seasons: generate
// the schedule, count down to each matchweek, play every match of it at
// once, record the results, and move on to the next matchweek or season.
package season

import (
	"time"

	"github.com/albapepper/scoracle-sim/internal/engine"
	"github.com/albapepper/scoracle-sim/internal/model"
	"github.com/albapepper/scoracle-sim/internal/notifications"
	"github.com/albapepper/scoracle-sim/internal/standings"
)

// Config holds the delays between the phases of a season.
type Config struct {
	Countdown   time.Duration // before each matchweek kicks off
	FixtureGap  time.Duration // after a matchweek, before the next countdown
	SeasonGap   time.Duration // after the last matchweek, before the next season
	Timing      engine.Timing
	FirstSeason int
}

// DefaultConfig mirrors the production pacing: a 30 second countdown,
// 10 seconds between matchweeks and a minute between seasons.
func DefaultConfig() Config {
	return Config{
		Countdown:   30 * time.Second,
		FixtureGap:  10 * time.Second,
		SeasonGap:   60 * time.Second,
		Timing:      engine.DefaultTiming(),
		FirstSeason: 1,
	}
}

// Publisher receives everything an orchestrator announces.
type Publisher interface {
	Publish(notifications.Message)
}

// Status is a point-in-time summary of a league's loop.
type Status struct {
	LeagueID         string            `json:"league_id"`
	LeagueName       string            `json:"league_name"`
	State            model.SeasonState `json:"state"`
	Season           int               `json:"season"`
	CurrentMatchweek int               `json:"current_matchweek"`
	TotalMatchweeks  int               `json:"total_matchweeks"`
	CountdownSeconds int               `json:"countdown_seconds,omitempty"`
	LiveMatches      int               `json:"live_matches"`
	CompletedMatches int               `json:"completed_matches"`
}

// MatchRecord is a match snapshot together with its event log.
type MatchRecord struct {
	model.MatchSnapshot
	Events []model.MatchEvent `json:"events"`
}

// Significant filters the event log down to headline events.
func (r MatchRecord) Significant() []model.MatchEvent {
	var out []model.MatchEvent
	for _, e := range r.Events {
		if e.Type.IsSignificant() {
			out = append(out, e)
		}
	}
	return out
}

// Stats derives shot, corner, foul and card counts from the events.
func (r MatchRecord) Stats() model.MatchStats {
	return model.ComputeStats(r.HomeTeam.ID, r.AwayTeam.ID, r.Events)
}

// SeasonRecord is handed to the archive hook when a season finishes.
type SeasonRecord struct {
	LeagueID    string
	LeagueName  string
	Season      int
	CompletedAt time.Time
	Matches     []MatchRecord
	Table       []standings.Standing
}

// Scorer is a row of the top scorers list.
type Scorer struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	TeamID     string `json:"team_id"`
	TeamName   string `json:"team_name"`
	Goals      int    `json:"goals"`
	Penalties  int    `json:"penalties"`
}

// TeamSummary combines a team's table row with totals from its matches.
type TeamSummary struct {
	Standing standings.Standing `json:"standing"`
	Stats    model.TeamStats    `json:"stats"`
}

// LeagueSummary aggregates a season's finished matches.
type LeagueSummary struct {
	LeagueID            string  `json:"league_id"`
	Season              int     `json:"season"`
	MatchesPlayed       int     `json:"matches_played"`
	TotalGoals          int     `json:"total_goals"`
	AverageGoals        float64 `json:"average_goals"`
	HomeWins            int     `json:"home_wins"`
	AwayWins            int     `json:"away_wins"`
	Draws               int     `json:"draws"`
	YellowCards         int     `json:"yellow_cards"`
	RedCards            int     `json:"red_cards"`
	HighestScoringMatch string  `json:"highest_scoring_match,omitempty"`
}
