package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/scoracle-sim/internal/api/respond"
	"github.com/albapepper/scoracle-sim/internal/cache"
	"github.com/albapepper/scoracle-sim/internal/model"
	"github.com/albapepper/scoracle-sim/internal/standings"
)

const (
	defaultTopScorers = 10
	maxTopScorers     = 100
)

// LeagueInfo is the list view of a league.
type LeagueInfo struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Country             string `json:"country"`
	LogoURL             string `json:"logo_url,omitempty"`
	TeamCount           int    `json:"team_count"`
	TotalMatchweeks     int    `json:"total_matchweeks"`
	MatchesPerMatchweek int    `json:"matches_per_matchweek"`
}

// LeagueDetail adds the full team list with squads.
type LeagueDetail struct {
	LeagueInfo
	Teams []*model.Team `json:"teams"`
}

// StandingsResponse is a ranked table; Live marks provisional standings
// that include matches still in play.
type StandingsResponse struct {
	LeagueID string               `json:"league_id"`
	Season   int                  `json:"season"`
	Live     bool                 `json:"live"`
	Rows     []standings.Standing `json:"standings"`
}

// Pairing is one scheduled match without its live state.
type Pairing struct {
	MatchID  string        `json:"match_id"`
	HomeTeam model.TeamRef `json:"home_team"`
	AwayTeam model.TeamRef `json:"away_team"`
}

// ScheduledMatchweek lists a matchweek's pairings.
type ScheduledMatchweek struct {
	Matchweek int       `json:"matchweek"`
	Matches   []Pairing `json:"matches"`
}

// ScheduleResponse is a season's full fixture list.
type ScheduleResponse struct {
	LeagueID   string               `json:"league_id"`
	Season     int                  `json:"season"`
	Matchweeks []ScheduledMatchweek `json:"matchweeks"`
}

func leagueInfo(l *model.League) LeagueInfo {
	return LeagueInfo{
		ID:                  l.ID,
		Name:                l.Name,
		Country:             l.Country,
		LogoURL:             l.LogoURL,
		TeamCount:           l.TeamCount(),
		TotalMatchweeks:     l.TotalMatchweeks(),
		MatchesPerMatchweek: l.MatchesPerMatchweek(),
	}
}

// ListLeagues returns every simulated league.
// @Summary List leagues
// @Description Returns every league being simulated. Cached with ETag support.
// @Tags leagues
// @Produce json
// @Success 200 {array} LeagueInfo
// @Router /api/v1/leagues [get]
func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	h.writeCached(w, r, cache.LeaguesKey, cache.TTLLeagues, func() any {
		out := make([]LeagueInfo, 0)
		for _, o := range h.leagues.All() {
			out = append(out, leagueInfo(o.League()))
		}
		return out
	})
}

// GetLeague returns one league with its teams and squads.
// @Summary Get league
// @Tags leagues
// @Produce json
// @Param leagueID path string true "League ID"
// @Success 200 {object} LeagueDetail
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/leagues/{leagueID} [get]
func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	o, ok := h.orchestrator(w, r)
	if !ok {
		return
	}
	l := o.League()
	h.writeCached(w, r, cache.LeagueKey(l.ID), cache.TTLLeagues, func() any {
		return LeagueDetail{LeagueInfo: leagueInfo(l), Teams: l.Teams}
	})
}

// GetStatus returns where the league's season loop currently is.
// @Summary Get season status
// @Tags leagues
// @Produce json
// @Param leagueID path string true "League ID"
// @Success 200 {object} season.Status
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/leagues/{leagueID}/status [get]
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	o, ok := h.orchestrator(w, r)
	if !ok {
		return
	}
	respond.WriteLive(w, o.Status())
}

// GetStandings returns the league table, live while a matchweek is in play.
// @Summary Get standings
// @Tags leagues
// @Produce json
// @Param leagueID path string true "League ID"
// @Success 200 {object} StandingsResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /api/v1/leagues/{leagueID}/standings [get]
func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	o, ok := h.orchestrator(w, r)
	if !ok {
		return
	}
	rows, live, ok := o.Standings()
	if !ok {
		respond.WriteError(w, http.StatusServiceUnavailable, respond.CodeSeasonNotReady, "Season has not been initialized")
		return
	}
	respond.WriteLive(w, StandingsResponse{LeagueID: o.League().ID, Season: o.Season(), Live: live, Rows: rows})
}

// GetFixture returns the current matchweek with live scores.
// @Summary Get current fixture
// @Tags leagues
// @Produce json
// @Param leagueID path string true "League ID"
// @Success 200 {object} model.FixtureSnapshot
// @Failure 404 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /api/v1/leagues/{leagueID}/fixture [get]
func (h *Handler) GetFixture(w http.ResponseWriter, r *http.Request) {
	o, ok := h.orchestrator(w, r)
	if !ok {
		return
	}
	fx, ok := o.CurrentFixture()
	if !ok {
		respond.WriteError(w, http.StatusServiceUnavailable, respond.CodeSeasonNotReady, "Season has not been initialized")
		return
	}
	respond.WriteLive(w, fx)
}

// GetNextFixture returns the next matchweek that has not kicked off.
// @Summary Get next fixture
// @Tags leagues
// @Produce json
// @Param leagueID path string true "League ID"
// @Success 200 {object} model.FixtureSnapshot
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/leagues/{leagueID}/next-fixture [get]
func (h *Handler) GetNextFixture(w http.ResponseWriter, r *http.Request) {
	o, ok := h.orchestrator(w, r)
	if !ok {
		return
	}
	fx, ok := o.NextFixture()
	if !ok {
		respond.WriteError(w, http.StatusNotFound, respond.CodeNotFound, "No upcoming fixture this season")
		return
	}
	respond.WriteLive(w, fx)
}

// GetLive returns the matches under way, including any at half time.
// @Summary Get live matches
// @Tags leagues
// @Produce json
// @Param leagueID path string true "League ID"
// @Success 200 {array} model.MatchSnapshot
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/leagues/{leagueID}/live [get]
func (h *Handler) GetLive(w http.ResponseWriter, r *http.Request) {
	o, ok := h.orchestrator(w, r)
	if !ok {
		return
	}
	out := o.LiveMatches()
	if out == nil {
		out = []model.MatchSnapshot{}
	}
	respond.WriteLive(w, out)
}

// GetResults returns this season's finished matches.
// @Summary Get results
// @Tags leagues
// @Produce json
// @Param leagueID path string true "League ID"
// @Param matchweek query int false "Only this matchweek"
// @Success 200 {array} model.MatchSnapshot
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/leagues/{leagueID}/results [get]
func (h *Handler) GetResults(w http.ResponseWriter, r *http.Request) {
	o, ok := h.orchestrator(w, r)
	if !ok {
		return
	}
	week := 0
	if v := r.URL.Query().Get("matchweek"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respond.WriteError(w, http.StatusBadRequest, respond.CodeBadRequest, "matchweek must be a positive integer")
			return
		}
		week = n
	}
	out := make([]model.MatchSnapshot, 0)
	for _, m := range o.CompletedMatches() {
		if week == 0 || m.Matchweek == week {
			out = append(out, m)
		}
	}
	respond.WriteLive(w, out)
}

// GetSchedule returns every pairing of the current season.
// @Summary Get season schedule
// @Description Returns the generated double round-robin schedule. Cached per season with ETag support.
// @Tags leagues
// @Produce json
// @Param leagueID path string true "League ID"
// @Success 200 {object} ScheduleResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/leagues/{leagueID}/schedule [get]
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	o, ok := h.orchestrator(w, r)
	if !ok {
		return
	}
	schedule := o.Schedule()
	if len(schedule) == 0 {
		respond.WriteError(w, http.StatusServiceUnavailable, respond.CodeSeasonNotReady, "Season has not been initialized")
		return
	}
	seasonNo := schedule[0].Season
	h.writeCached(w, r, cache.ScheduleKey(o.League().ID, seasonNo), cache.TTLSchedule, func() any {
		resp := ScheduleResponse{LeagueID: o.League().ID, Season: seasonNo}
		for _, fx := range schedule {
			mw := ScheduledMatchweek{Matchweek: fx.Matchweek}
			for _, m := range fx.Matches {
				mw.Matches = append(mw.Matches, Pairing{MatchID: m.ID, HomeTeam: m.HomeTeam, AwayTeam: m.AwayTeam})
			}
			resp.Matchweeks = append(resp.Matchweeks, mw)
		}
		return resp
	})
}

// GetTopScorers ranks this season's scorers.
// @Summary Get top scorers
// @Tags statistics
// @Produce json
// @Param leagueID path string true "League ID"
// @Param limit query int false "Maximum rows (default 10, max 100)"
// @Success 200 {array} season.Scorer
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/leagues/{leagueID}/top-scorers [get]
func (h *Handler) GetTopScorers(w http.ResponseWriter, r *http.Request) {
	o, ok := h.orchestrator(w, r)
	if !ok {
		return
	}
	limit := defaultTopScorers
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxTopScorers {
			respond.WriteError(w, http.StatusBadRequest, respond.CodeBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}
	respond.WriteLive(w, o.TopScorers(limit))
}

// GetTeam returns a team's profile, table row and season totals.
// @Summary Get team statistics
// @Tags statistics
// @Produce json
// @Param leagueID path string true "League ID"
// @Param teamID path string true "Team ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/leagues/{leagueID}/teams/{teamID} [get]
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	o, ok := h.orchestrator(w, r)
	if !ok {
		return
	}
	teamID := chi.URLParam(r, "teamID")
	team, ok := o.League().Team(teamID)
	if !ok {
		respond.WriteError(w, http.StatusNotFound, respond.CodeNotFound, "Team not found: "+teamID)
		return
	}
	summary, ok := o.TeamSummary(teamID)
	if !ok {
		respond.WriteError(w, http.StatusServiceUnavailable, respond.CodeSeasonNotReady, "Season has not been initialized")
		return
	}
	respond.WriteLive(w, map[string]interface{}{
		"team":     team,
		"standing": summary.Standing,
		"stats":    summary.Stats,
	})
}

// GetSummary aggregates the season so far.
// @Summary Get league summary
// @Tags statistics
// @Produce json
// @Param leagueID path string true "League ID"
// @Success 200 {object} season.LeagueSummary
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/leagues/{leagueID}/summary [get]
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	o, ok := h.orchestrator(w, r)
	if !ok {
		return
	}
	respond.WriteLive(w, o.Summary())
}
