package session

import (
	"context"
	"fmt"
	"time"

	"github.com/harlandw/soundgrid-core/internal/bridges/axis"
	"github.com/harlandw/soundgrid-core/internal/source"
	"github.com/harlandw/soundgrid-core/internal/zone"
)

// Logger defines the logging interface used by the Manager.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// RemoteController drives vendor playback. Satisfied by *axis.Client.
// Calls never fail; vendor outages surface as synthesized results.
type RemoteController interface {
	StartSession(ctx context.Context, zoneID string, audio axis.AudioConfig) axis.StartResult
	ControlPlayback(ctx context.Context, sessionID, action string, params map[string]any) axis.ControlResult
}

// EventPublisher publishes session lifecycle events to the message bus.
// A nil publisher disables events without changing behaviour.
type EventPublisher interface {
	PublishSessionTransition(sessionID, zoneID string, status, action string)
}

// TelemetryWriter records session telemetry.
// A nil writer disables telemetry without changing behaviour.
type TelemetryWriter interface {
	WriteSessionTransition(sessionID, zoneID, status string, position int)
}

// CreateRequest carries the inputs for creating a session.
// A nil Volume means the default level (50); an explicit zero is honoured.
type CreateRequest struct {
	Name     string `json:"name"`
	ZoneID   string `json:"zone_id"`
	SourceID string `json:"source_id"`
	Volume   *int   `json:"volume"`
	Loop     bool   `json:"loop"`
}

// Manager owns the session state machine.
//
// It validates referential integrity against the zone and source
// repositories, persists state through its own repository, and drives
// the vendor adapter. Methods are safe for concurrent use on distinct
// sessions; concurrent control of one session is last-write-wins.
type Manager struct {
	repo      Repository
	zones     zone.Repository
	sources   source.Repository
	remote    RemoteController
	events    EventPublisher
	telemetry TelemetryWriter
	logger    Logger
}

// NewManager creates a session manager. The zone and source
// repositories are consulted for referential checks; the remote
// controller starts and controls vendor playback.
func NewManager(repo Repository, zones zone.Repository, sources source.Repository, remote RemoteController) *Manager {
	return &Manager{
		repo:    repo,
		zones:   zones,
		sources: sources,
		remote:  remote,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the manager.
func (m *Manager) SetLogger(logger Logger) {
	m.logger = logger
}

// SetEvents sets the event publisher.
func (m *Manager) SetEvents(events EventPublisher) {
	m.events = events
}

// SetTelemetry sets the telemetry writer.
func (m *Manager) SetTelemetry(telemetry TelemetryWriter) {
	m.telemetry = telemetry
}

// Create validates, persists, and starts a new playback session.
//
// The zone and source must exist; their not-found errors propagate
// before anything is persisted. The session is inserted in preparing,
// the vendor adapter is asked to start playback, and the record is
// advanced to playing with started_at set. The adapter swallows vendor
// failures into synthesized starts, so only an orchestration failure
// (a failed persistence update) leaves the session in error. Once
// validation passes, a session record is always returned.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (*Session, error) {
	if req.Name == "" {
		return nil, ErrInvalidName
	}
	volume := DefaultVolume
	if req.Volume != nil {
		if *req.Volume < MinVolume || *req.Volume > MaxVolume {
			return nil, fmt.Errorf("%w: %d", ErrInvalidVolume, *req.Volume)
		}
		volume = *req.Volume
	}

	z, err := m.zones.GetByID(ctx, req.ZoneID)
	if err != nil {
		return nil, err
	}
	src, err := m.sources.GetByID(ctx, req.SourceID)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:        GenerateID(),
		Name:      req.Name,
		ZoneID:    z.ID,
		SourceID:  src.ID,
		Status:    StatusPreparing,
		Volume:    volume,
		Loop:      req.Loop,
		CreatedAt: time.Now().UTC(),
	}

	if err := m.repo.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}

	result := m.remote.StartSession(ctx, s.ZoneID, axis.AudioConfig{
		SourceURL: sourceLocation(src),
		Volume:    s.Volume,
		Loop:      s.Loop,
	})

	startedAt := time.Now().UTC()
	if err := m.repo.MarkStarted(ctx, s.ID, startedAt); err != nil {
		m.logger.Error("advancing session to playing failed", "id", s.ID, "error", err)
		if markErr := m.repo.MarkError(ctx, s.ID); markErr != nil {
			m.logger.Error("marking session errored failed", "id", s.ID, "error", markErr)
		}
		s.Status = StatusError
		m.publishTransition(s, "")
		return s, nil
	}

	s.Status = StatusPlaying
	s.StartedAt = &startedAt

	// Bind the zone to its now-active session. Best-effort; the session
	// record stays authoritative.
	if err := m.zones.SetActiveSession(ctx, s.ZoneID, s.ID); err != nil {
		m.logger.Warn("binding active session to zone failed", "zone_id", s.ZoneID, "error", err)
	}

	m.publishTransition(s, "")
	m.logger.Info("session started",
		"id", s.ID, "zone_id", s.ZoneID, "source_id", s.SourceID,
		"vendor_session", result.SessionID, "provenance", string(result.Provenance))
	return s, nil
}

// Get retrieves a session by ID.
// Returns ErrSessionNotFound if the session does not exist.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.repo.GetByID(ctx, id)
}

// List retrieves all sessions.
func (m *Manager) List(ctx context.Context) ([]Session, error) {
	return m.repo.List(ctx)
}

// Control applies a playback action to a session.
//
// The action maps through StatusForAction; a supplied position
// overwrites the persisted one unconditionally; stop records ended_at
// and unbinds the session from its zone. The vendor adapter is always
// invoked, but its outcome never gates the local transition.
func (m *Manager) Control(ctx context.Context, id, action string, position *int) (*Session, error) {
	s, err := m.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status := StatusForAction(action)

	var endedAt *time.Time
	if action == ActionStop {
		now := time.Now().UTC()
		endedAt = &now
	}

	if err := m.repo.ApplyControl(ctx, id, status, position, endedAt); err != nil {
		return nil, err
	}

	s.Status = status
	if position != nil {
		s.Position = *position
	}
	if endedAt != nil {
		s.EndedAt = endedAt
		if err := m.zones.ClearActiveSession(ctx, s.ZoneID, s.ID); err != nil {
			m.logger.Warn("unbinding session from zone failed", "zone_id", s.ZoneID, "error", err)
		}
	}

	params := map[string]any{}
	if position != nil {
		params["position"] = *position
	}
	m.remote.ControlPlayback(ctx, id, action, params)

	m.publishTransition(s, action)
	m.logger.Info("session controlled", "id", id, "action", action, "status", string(status))
	return s, nil
}

// Delete stops a session remotely (best-effort) and removes its record.
func (m *Manager) Delete(ctx context.Context, id string) error {
	s, err := m.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Remote stop first; the result is ignored.
	m.remote.ControlPlayback(ctx, id, ActionStop, nil)

	if err := m.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := m.zones.ClearActiveSession(ctx, s.ZoneID, s.ID); err != nil {
		m.logger.Warn("unbinding session from zone failed", "zone_id", s.ZoneID, "error", err)
	}

	m.logger.Info("session deleted", "id", id)
	return nil
}

func (m *Manager) publishTransition(s *Session, action string) {
	if m.events != nil {
		m.events.PublishSessionTransition(s.ID, s.ZoneID, string(s.Status), action)
	}
	if m.telemetry != nil {
		m.telemetry.WriteSessionTransition(s.ID, s.ZoneID, string(s.Status), s.Position)
	}
}

// sourceLocation picks the playable location of a source: the URL when
// present, otherwise the local file path.
func sourceLocation(src *source.AudioSource) string {
	if src.URL != nil && *src.URL != "" {
		return *src.URL
	}
	if src.FilePath != nil {
		return *src.FilePath
	}
	return ""
}
