package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/albapepper/scoracle-sim/internal/api/handler"
	"github.com/albapepper/scoracle-sim/internal/config"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(deps handler.Deps, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(deps.Logger))
	r.Use(TimingMiddleware)

	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	deps.AllowedOrigins = cfg.CORSAllowOrigins
	h := handler.New(deps)

	// The stream hijacks the connection, so it sits outside compression.
	r.Get("/ws", h.ServeStream)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Compress(5))

		r.Get("/", h.Root)

		r.Route("/health", func(r chi.Router) {
			r.Get("/", h.HealthCheck)
			r.Get("/db", h.HealthCheckDB)
			r.Get("/cache", h.HealthCheckCache)
		})

		r.Get("/docs/*", httpSwagger.Handler(
			httpSwagger.URL("/docs/doc.json"),
		))

		r.Route("/api/v1", func(r chi.Router) {
			// Leagues
			r.Get("/leagues", h.ListLeagues)
			r.Route("/leagues/{leagueID}", func(r chi.Router) {
				r.Get("/", h.GetLeague)
				r.Get("/status", h.GetStatus)
				r.Get("/standings", h.GetStandings)
				r.Get("/fixture", h.GetFixture)
				r.Get("/next-fixture", h.GetNextFixture)
				r.Get("/live", h.GetLive)
				r.Get("/results", h.GetResults)
				r.Get("/schedule", h.GetSchedule)
				r.Get("/top-scorers", h.GetTopScorers)
				r.Get("/summary", h.GetSummary)
				r.Get("/teams/{teamID}", h.GetTeam)
			})

			// Matches
			r.Route("/matches/{matchID}", func(r chi.Router) {
				r.Get("/", h.GetMatch)
				r.Get("/events", h.GetMatchEvents)
				r.Get("/events/significant", h.GetSignificantEvents)
				r.Get("/stats", h.GetMatchStats)
			})

			// Predictions
			r.Get("/predictions/matches/{matchID}", h.GetMatchPrediction)
			r.Get("/predictions/head-to-head", h.GetHeadToHead)
		})
	})

	return r
}
