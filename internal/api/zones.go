package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harlandw/soundgrid-core/internal/zone"
)

// handleListZones returns all zones.
func (s *Server) handleListZones(w http.ResponseWriter, r *http.Request) {
	zones, err := s.zones.List(r.Context())
	if err != nil {
		s.logger.Error("listing zones failed", "error", err)
		writeInternalError(w, "failed to list zones")
		return
	}
	if zones == nil {
		zones = []zone.Zone{}
	}
	writeJSON(w, http.StatusOK, zones)
}

// createZoneRequest is the body for POST /zones.
type createZoneRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	SpeakerIDs  []string `json:"speaker_ids"`
}

// handleCreateZone creates a new zone. Member speaker IDs are not
// validated against the registry.
func (s *Server) handleCreateZone(w http.ResponseWriter, r *http.Request) {
	var req createZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	z := &zone.Zone{
		Name:        req.Name,
		Description: req.Description,
		SpeakerIDs:  req.SpeakerIDs,
	}

	if err := s.zones.Create(r.Context(), z); err != nil {
		switch {
		case errors.Is(err, zone.ErrInvalidName), errors.Is(err, zone.ErrInvalidVolume):
			writeBadRequest(w, err.Error())
		default:
			s.logger.Error("creating zone failed", "error", err)
			writeInternalError(w, "failed to create zone")
		}
		return
	}

	writeJSON(w, http.StatusCreated, z)
}

// handleUpdateZone applies a partial update; omitted fields keep their
// prior value.
func (s *Server) handleUpdateZone(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var upd zone.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	z, err := s.zones.Update(r.Context(), id, upd)
	if err != nil {
		switch {
		case errors.Is(err, zone.ErrZoneNotFound):
			writeNotFound(w, "zone not found")
		case errors.Is(err, zone.ErrInvalidName), errors.Is(err, zone.ErrInvalidVolume):
			writeBadRequest(w, err.Error())
		default:
			s.logger.Error("updating zone failed", "id", id, "error", err)
			writeInternalError(w, "failed to update zone")
		}
		return
	}

	writeJSON(w, http.StatusOK, z)
}

// handleDeleteZone removes a zone. Sessions bound to it are not stopped.
func (s *Server) handleDeleteZone(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.zones.Delete(r.Context(), id); err != nil {
		if errors.Is(err, zone.ErrZoneNotFound) {
			writeNotFound(w, "zone not found")
			return
		}
		s.logger.Error("deleting zone failed", "id", id, "error", err)
		writeInternalError(w, "failed to delete zone")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
