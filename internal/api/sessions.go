package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harlandw/soundgrid-core/internal/session"
	"github.com/harlandw/soundgrid-core/internal/source"
	"github.com/harlandw/soundgrid-core/internal/zone"
)

// handleListSessions returns all playback sessions, newest first.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.sessions.List(r.Context())
	if err != nil {
		s.logger.Error("listing sessions failed", "error", err)
		writeInternalError(w, "failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []session.Session{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

// handleCreateSession creates and starts a playback session.
//
// The response carries the session in its final state: playing on
// success, error if orchestration failed after the record was
// persisted. Vendor unavailability never produces error status.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req session.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	sess, err := s.sessions.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidName), errors.Is(err, session.ErrInvalidVolume):
			writeBadRequest(w, err.Error())
		case errors.Is(err, zone.ErrZoneNotFound):
			writeNotFound(w, "zone not found")
		case errors.Is(err, source.ErrSourceNotFound):
			writeNotFound(w, "audio source not found")
		default:
			s.logger.Error("creating session failed", "error", err)
			writeInternalError(w, "failed to create session")
		}
		return
	}

	writeJSON(w, http.StatusCreated, sess)
}

// controlRequest is the body for PUT /sessions/{id}/control.
type controlRequest struct {
	Action   string `json:"action"`
	Position *int   `json:"position"`
}

// handleControlSession applies a playback action to a session.
func (s *Server) handleControlSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req controlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if _, err := s.sessions.Control(r.Context(), id, req.Action, req.Position); err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			writeNotFound(w, "session not found")
			return
		}
		s.logger.Error("controlling session failed", "id", id, "error", err)
		writeInternalError(w, "failed to control session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"action": req.Action,
	})
}

// handleDeleteSession stops a session remotely and removes its record.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.sessions.Delete(r.Context(), id); err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			writeNotFound(w, "session not found")
			return
		}
		s.logger.Error("deleting session failed", "id", id, "error", err)
		writeInternalError(w, "failed to delete session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
