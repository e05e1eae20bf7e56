package handler

import (
	"net/http"

	"github.com/albapepper/scoracle-sim/internal/api/respond"
	"github.com/albapepper/scoracle-sim/internal/prediction"
)

// GetMatchPrediction forecasts a scheduled or played match.
// @Summary Get match prediction
// @Description Win probabilities, expected goals, corners and event likelihoods derived from team strengths.
// @Tags predictions
// @Produce json
// @Param matchID path string true "Match ID (UUID)"
// @Success 200 {object} prediction.Prediction
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/predictions/matches/{matchID} [get]
func (h *Handler) GetMatchPrediction(w http.ResponseWriter, r *http.Request) {
	rec, o, ok := h.match(w, r)
	if !ok {
		return
	}
	home, okHome := o.League().Team(rec.HomeTeam.ID)
	away, okAway := o.League().Team(rec.AwayTeam.ID)
	if !okHome || !okAway {
		respond.WriteError(w, http.StatusNotFound, respond.CodeNotFound, "Match teams are no longer in the league")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, prediction.ForMatch(rec.MatchSnapshot, home, away))
}

// GetHeadToHead forecasts any pairing within one league.
// @Summary Predict a head-to-head pairing
// @Tags predictions
// @Produce json
// @Param league query string true "League ID"
// @Param home query string true "Home team ID"
// @Param away query string true "Away team ID"
// @Success 200 {object} prediction.Prediction
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/predictions/head-to-head [get]
func (h *Handler) GetHeadToHead(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	leagueID, homeID, awayID := q.Get("league"), q.Get("home"), q.Get("away")
	if leagueID == "" || homeID == "" || awayID == "" {
		respond.WriteError(w, http.StatusBadRequest, respond.CodeBadRequest, "league, home and away are required")
		return
	}
	if homeID == awayID {
		respond.WriteError(w, http.StatusBadRequest, respond.CodeBadRequest, "A team cannot play itself")
		return
	}
	o, ok := h.leagues.Get(leagueID)
	if !ok {
		respond.WriteError(w, http.StatusNotFound, respond.CodeNotFound, "League not found: "+leagueID)
		return
	}
	home, ok := o.League().Team(homeID)
	if !ok {
		respond.WriteError(w, http.StatusNotFound, respond.CodeNotFound, "Team not found: "+homeID)
		return
	}
	away, ok := o.League().Team(awayID)
	if !ok {
		respond.WriteError(w, http.StatusNotFound, respond.CodeNotFound, "Team not found: "+awayID)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, prediction.Predict(home, away))
}
