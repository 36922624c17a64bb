package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harlandw/soundgrid-core/internal/speaker"
)

// handleListSpeakers returns all registered speakers.
func (s *Server) handleListSpeakers(w http.ResponseWriter, r *http.Request) {
	speakers, err := s.speakers.List(r.Context())
	if err != nil {
		s.logger.Error("listing speakers failed", "error", err)
		writeInternalError(w, "failed to list speakers")
		return
	}
	if speakers == nil {
		speakers = []speaker.Speaker{}
	}
	writeJSON(w, http.StatusOK, speakers)
}

// createSpeakerRequest is the body for POST /speakers.
type createSpeakerRequest struct {
	Name      string `json:"name"`
	IPAddress string `json:"ip_address"`
	Model     string `json:"model"`
}

// handleCreateSpeaker registers a new speaker.
func (s *Server) handleCreateSpeaker(w http.ResponseWriter, r *http.Request) {
	var req createSpeakerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	spk := &speaker.Speaker{
		Name:      req.Name,
		IPAddress: req.IPAddress,
		Model:     req.Model,
	}

	if err := s.speakers.Register(r.Context(), spk); err != nil {
		switch {
		case errors.Is(err, speaker.ErrInvalidName), errors.Is(err, speaker.ErrInvalidAddress), errors.Is(err, speaker.ErrInvalidVolume):
			writeBadRequest(w, err.Error())
		case errors.Is(err, speaker.ErrSpeakerExists):
			writeError(w, http.StatusConflict, ErrCodeConflict, "speaker address already registered")
		default:
			s.logger.Error("registering speaker failed", "error", err)
			writeInternalError(w, "failed to register speaker")
		}
		return
	}

	writeJSON(w, http.StatusCreated, spk)
}

// handleDiscoverSpeakers runs vendor discovery and merges the results
// into the registry. Targets already known by address are untouched.
func (s *Server) handleDiscoverSpeakers(w http.ResponseWriter, r *http.Request) {
	result := s.remote.Discover(r.Context())

	targets := make([]speaker.Discovered, 0, len(result.Targets))
	for _, t := range result.Targets {
		targets = append(targets, speaker.Discovered{
			Name:      t.Name,
			IPAddress: t.IPAddress,
			Model:     t.Model,
			Status:    speaker.Status(t.Status),
		})
	}

	created, err := s.speakers.MergeDiscovered(r.Context(), targets)
	if err != nil {
		s.logger.Error("merging discovered speakers failed", "error", err)
		writeInternalError(w, "failed to merge discovered speakers")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    fmt.Sprintf("Discovered %d speakers", len(result.Targets)),
		"discovered": len(result.Targets),
		"created":    created,
		"speakers":   result.Targets,
	})
}

// volumeRequest is the body for PUT /speakers/{id}/volume.
type volumeRequest struct {
	Volume int `json:"volume"`
}

// handleSetSpeakerVolume persists a volume level and pushes it to the
// vendor best-effort.
func (s *Server) handleSetSpeakerVolume(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req volumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if err := s.speakers.SetVolume(r.Context(), id, req.Volume); err != nil {
		switch {
		case errors.Is(err, speaker.ErrInvalidVolume):
			writeBadRequest(w, err.Error())
		case errors.Is(err, speaker.ErrSpeakerNotFound):
			writeNotFound(w, "speaker not found")
		default:
			s.logger.Error("setting speaker volume failed", "id", id, "error", err)
			writeInternalError(w, "failed to set volume")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"volume": req.Volume,
	})
}
