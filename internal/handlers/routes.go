package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health
	r.Get("/healthz", h.handleHealthz)

	// WebSocket
	r.Get("/ws", h.Hub.ServeWs)

	// Public API: live standings for spectators
	r.Get("/api/v1/sectors", h.handleGetSectors)
	r.Get("/api/v1/sectors/{sector}/standings", h.handleGetStandings)
	r.Get("/api/v1/sectors/{sector}/standings.csv", h.handleExportStandingsCSV)

	// Auth
	r.Post("/api/v1/login", h.handleLogin)
	r.Post("/api/v1/logout", h.handleLogout)
	r.Get("/api/v1/session", h.handleSession)

	// Judge API: score entry (admins included)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireJudgeAPI)
		r.Get("/api/v1/competitors", h.handleListCompetitors)
		r.Get("/api/v1/competitors/{id}", h.handleGetCompetitor)
		r.Put("/api/v1/sectors/{sector}/competitors/{competitorID}/hourly", h.handleWriteHourlyEntry)
		r.Put("/api/v1/sectors/{sector}/competitors/{competitorID}/bigcatch", h.handleWriteBigCatch)
	})

	// Admin API: registration, settings, queue management
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAdminAPI)

		// Competitors
		r.Post("/api/v1/admin/competitors", h.handleRegisterCompetitor)
		r.Put("/api/v1/admin/competitors/{id}", h.handleUpdateCompetitor)
		r.Put("/api/v1/admin/competitors/{id}/status", h.handleSetCompetitorStatus)
		r.Get("/api/v1/admin/competitors/{id}/boxcard", h.handleGetBoxCard)

		// Competition control
		r.Get("/api/v1/admin/settings", h.handleGetSettings)
		r.Put("/api/v1/admin/settings", h.handleUpdateSettings)
		r.Post("/api/v1/admin/scoring-control", h.handleScoringControl)

		// Offline queue
		r.Get("/api/v1/admin/queue", h.handleGetQueueStatus)
		r.Post("/api/v1/admin/queue/replay", h.handleReplayQueue)
	})

	return r
}
