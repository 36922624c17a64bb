package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Speaker endpoints
		r.Route("/speakers", func(r chi.Router) {
			r.Get("/", s.handleListSpeakers)
			r.Post("/", s.handleCreateSpeaker)
			r.Get("/discover", s.handleDiscoverSpeakers)
			r.Put("/{id}/volume", s.handleSetSpeakerVolume)
		})

		// Zone endpoints
		r.Route("/zones", func(r chi.Router) {
			r.Get("/", s.handleListZones)
			r.Post("/", s.handleCreateZone)
			r.Put("/{id}", s.handleUpdateZone)
			r.Delete("/{id}", s.handleDeleteZone)
		})

		// Audio source endpoints
		r.Route("/sources", func(r chi.Router) {
			r.Get("/", s.handleListSources)
			r.Post("/", s.handleCreateSource)
			r.Delete("/{id}", s.handleDeleteSource)
		})

		// Session endpoints
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", s.handleListSessions)
			r.Post("/", s.handleCreateSession)
			r.Put("/{id}/control", s.handleControlSession)
			r.Delete("/{id}", s.handleDeleteSession)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
