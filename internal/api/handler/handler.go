// Package handler provides HTTP handlers for all API endpoints.
// Handlers read from the season orchestrators through their snapshot
// accessors; nothing here mutates simulation state.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/albapepper/scoracle-sim/internal/api/respond"
	"github.com/albapepper/scoracle-sim/internal/cache"
	"github.com/albapepper/scoracle-sim/internal/notifications"
	"github.com/albapepper/scoracle-sim/internal/season"
)

// HealthChecker is satisfied by *db.Pool.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps are the shared dependencies for all endpoint handlers. DB may be
// nil when no archive database is configured.
type Deps struct {
	Registry       *season.Registry
	Cache          *cache.Cache
	Hub            *notifications.Hub
	DB             HealthChecker
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	leagues  *season.Registry
	cache    *cache.Cache
	hub      *notifications.Hub
	db       HealthChecker
	upgrader websocket.Upgrader
	logger   *slog.Logger
	started  time.Time
}

// New creates a Handler with shared dependencies.
func New(d Deps) *Handler {
	h := &Handler{
		leagues: d.Registry,
		cache:   d.Cache,
		hub:     d.Hub,
		db:      d.DB,
		logger:  d.Logger.With("component", "api"),
		started: time.Now(),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(d.AllowedOrigins),
	}
	return h
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status and the leagues being simulated.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	ids := make([]string, 0)
	for _, o := range h.leagues.All() {
		ids = append(ids, o.League().ID)
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Scoracle League Simulator API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"stream":  "/ws",
		"leagues": ids,
	})
}

// HealthCheck returns basic health status plus every league's loop state.
// @Summary Health check
// @Description Returns health status, uptime and per-league season state.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	statuses := make([]season.Status, 0)
	for _, o := range h.leagues.All() {
		statuses = append(statuses, o.Status())
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"uptime_seconds": int(time.Since(h.started).Seconds()),
		"leagues":        statuses,
		"subscribers":    h.hub.Subscribers(),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies archive database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity for the season archive.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"database":  "not_configured",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("Database health check failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys, hit counts).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// --------------------------------------------------------------------------
// Shared helpers
// --------------------------------------------------------------------------

// orchestrator resolves {leagueID} or writes a 404.
func (h *Handler) orchestrator(w http.ResponseWriter, r *http.Request) (*season.Orchestrator, bool) {
	id := chi.URLParam(r, "leagueID")
	o, ok := h.leagues.Get(id)
	if !ok {
		respond.WriteError(w, http.StatusNotFound, respond.CodeNotFound, "League not found: "+id)
		return nil, false
	}
	return o, true
}

// writeCached serves key from the cache, building and storing it on a miss.
// If-None-Match is honoured either way.
func (h *Handler) writeCached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration, build func() any) {
	data, etag, hit := h.cache.Get(key)
	if !hit {
		raw, err := json.Marshal(build())
		if err != nil {
			h.logger.Error("Failed to encode response", "key", key, "error", err)
			respond.WriteError(w, http.StatusInternalServerError, respond.CodeInternal, "Failed to encode response")
			return
		}
		data = raw
		etag = h.cache.Set(key, data, ttl)
	}
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, ttl, hit)
}
