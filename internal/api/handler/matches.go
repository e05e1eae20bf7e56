package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/albapepper/scoracle-sim/internal/api/respond"
	"github.com/albapepper/scoracle-sim/internal/model"
	"github.com/albapepper/scoracle-sim/internal/season"
)

// MatchDetail is a match snapshot plus each side's recent league form,
// most recent result last.
type MatchDetail struct {
	model.MatchSnapshot
	HomeForm string `json:"home_form"`
	AwayForm string `json:"away_form"`
}

// EventsResponse lists a match's events in order.
type EventsResponse struct {
	MatchID      string             `json:"match_id"`
	ScoreDisplay string             `json:"score_display"`
	TimeDisplay  string             `json:"time_display"`
	Events       []model.MatchEvent `json:"events"`
}

// StatsResponse carries per-side counts derived from the events.
type StatsResponse struct {
	MatchID  string        `json:"match_id"`
	HomeTeam model.TeamRef `json:"home_team"`
	AwayTeam model.TeamRef `json:"away_team"`
	model.MatchStats
}

// match resolves {matchID} across every league or writes an error.
func (h *Handler) match(w http.ResponseWriter, r *http.Request) (season.MatchRecord, *season.Orchestrator, bool) {
	id := chi.URLParam(r, "matchID")
	if err := uuid.Validate(id); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, respond.CodeBadRequest, "Match ID must be a valid UUID", err.Error())
		return season.MatchRecord{}, nil, false
	}
	rec, o, ok := h.leagues.FindMatch(id)
	if !ok {
		respond.WriteError(w, http.StatusNotFound, respond.CodeNotFound, "Match not found: "+id)
		return season.MatchRecord{}, nil, false
	}
	return rec, o, true
}

// GetMatch returns a match's current state and both teams' form.
// @Summary Get match
// @Tags matches
// @Produce json
// @Param matchID path string true "Match ID (UUID)"
// @Success 200 {object} MatchDetail
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/matches/{matchID} [get]
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	rec, o, ok := h.match(w, r)
	if !ok {
		return
	}
	detail := MatchDetail{MatchSnapshot: rec.MatchSnapshot}
	if s, ok := o.TeamStanding(rec.HomeTeam.ID); ok {
		detail.HomeForm = s.FormString()
	}
	if s, ok := o.TeamStanding(rec.AwayTeam.ID); ok {
		detail.AwayForm = s.FormString()
	}
	respond.WriteLive(w, detail)
}

// GetMatchEvents returns every event of a match.
// @Summary Get match events
// @Tags matches
// @Produce json
// @Param matchID path string true "Match ID (UUID)"
// @Success 200 {object} EventsResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/matches/{matchID}/events [get]
func (h *Handler) GetMatchEvents(w http.ResponseWriter, r *http.Request) {
	rec, _, ok := h.match(w, r)
	if !ok {
		return
	}
	respond.WriteLive(w, eventsResponse(rec, rec.Events))
}

// GetSignificantEvents returns goals, cards, penalties and other headline
// events only.
// @Summary Get significant match events
// @Tags matches
// @Produce json
// @Param matchID path string true "Match ID (UUID)"
// @Success 200 {object} EventsResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/matches/{matchID}/events/significant [get]
func (h *Handler) GetSignificantEvents(w http.ResponseWriter, r *http.Request) {
	rec, _, ok := h.match(w, r)
	if !ok {
		return
	}
	respond.WriteLive(w, eventsResponse(rec, rec.Significant()))
}

// GetMatchStats returns shots, corners, fouls and cards per side.
// @Summary Get match statistics
// @Tags matches
// @Produce json
// @Param matchID path string true "Match ID (UUID)"
// @Success 200 {object} StatsResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/matches/{matchID}/stats [get]
func (h *Handler) GetMatchStats(w http.ResponseWriter, r *http.Request) {
	rec, _, ok := h.match(w, r)
	if !ok {
		return
	}
	respond.WriteLive(w, StatsResponse{
		MatchID:    rec.ID,
		HomeTeam:   rec.HomeTeam,
		AwayTeam:   rec.AwayTeam,
		MatchStats: rec.Stats(),
	})
}

func eventsResponse(rec season.MatchRecord, events []model.MatchEvent) EventsResponse {
	if events == nil {
		events = []model.MatchEvent{}
	}
	return EventsResponse{
		MatchID:      rec.ID,
		ScoreDisplay: rec.ScoreDisplay,
		TimeDisplay:  rec.TimeDisplay,
		Events:       events,
	}
}
