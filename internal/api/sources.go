package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harlandw/soundgrid-core/internal/source"
)

// handleListSources returns all audio sources.
func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.sources.List(r.Context())
	if err != nil {
		s.logger.Error("listing sources failed", "error", err)
		writeInternalError(w, "failed to list sources")
		return
	}
	if sources == nil {
		sources = []source.AudioSource{}
	}
	writeJSON(w, http.StatusOK, sources)
}

// createSourceRequest is the body for POST /sources.
type createSourceRequest struct {
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	URL      *string        `json:"url"`
	FilePath *string        `json:"file_path"`
	Metadata map[string]any `json:"metadata"`
	Duration *int           `json:"duration"`
}

// handleCreateSource creates a new audio source.
func (s *Server) handleCreateSource(w http.ResponseWriter, r *http.Request) {
	var req createSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	src := &source.AudioSource{
		Name:     req.Name,
		Type:     source.Type(req.Type),
		URL:      req.URL,
		FilePath: req.FilePath,
		Metadata: req.Metadata,
		Duration: req.Duration,
	}

	if err := s.sources.Create(r.Context(), src); err != nil {
		switch {
		case errors.Is(err, source.ErrInvalidName), errors.Is(err, source.ErrInvalidType):
			writeBadRequest(w, err.Error())
		default:
			s.logger.Error("creating source failed", "error", err)
			writeInternalError(w, "failed to create source")
		}
		return
	}

	writeJSON(w, http.StatusCreated, src)
}

// handleDeleteSource removes an audio source.
func (s *Server) handleDeleteSource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.sources.Delete(r.Context(), id); err != nil {
		if errors.Is(err, source.ErrSourceNotFound) {
			writeNotFound(w, "source not found")
			return
		}
		s.logger.Error("deleting source failed", "id", id, "error", err)
		writeInternalError(w, "failed to delete source")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
