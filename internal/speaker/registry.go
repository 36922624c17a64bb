package speaker

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
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

// RemoteVolumeSetter pushes a volume level to the vendor control service.
// Implementations never report transport failures back; a push is
// best-effort by contract.
type RemoteVolumeSetter interface {
	SetSpeakerVolume(ctx context.Context, speakerID string, volume int)
}

// EventPublisher publishes registry events to the message bus.
// A nil publisher disables events without changing behaviour.
type EventPublisher interface {
	PublishSpeakerVolume(speakerID string, volume int)
	PublishDiscovery(created, discovered int)
}

// TelemetryWriter records registry telemetry.
// A nil writer disables telemetry without changing behaviour.
type TelemetryWriter interface {
	WriteSpeakerVolume(speakerID string, volume int)
}

// Registry provides speaker management on top of a Repository.
//
// All public methods are safe for concurrent use; the underlying SQLite
// connection serialises writes.
type Registry struct {
	repo      Repository
	remote    RemoteVolumeSetter
	events    EventPublisher
	telemetry TelemetryWriter
	logger    Logger
}

// NewRegistry creates a new speaker registry.
// The repository is used for persistence; remote push, events, and
// telemetry are optional collaborators wired via the setters.
func NewRegistry(repo Repository) *Registry {
	return &Registry{
		repo:   repo,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// SetRemote sets the vendor volume pusher.
func (r *Registry) SetRemote(remote RemoteVolumeSetter) {
	r.remote = remote
}

// SetEvents sets the event publisher.
func (r *Registry) SetEvents(events EventPublisher) {
	r.events = events
}

// SetTelemetry sets the telemetry writer.
func (r *Registry) SetTelemetry(telemetry TelemetryWriter) {
	r.telemetry = telemetry
}

// Register adds a new speaker to the registry.
//
// It fills in defaults (generated ID, offline status, volume 50) and
// persists the record. The network address must be non-empty and unique.
func (r *Registry) Register(ctx context.Context, spk *Speaker) error {
	if spk.Name == "" {
		return ErrInvalidName
	}
	if spk.IPAddress == "" {
		return ErrInvalidAddress
	}

	if spk.ID == "" {
		spk.ID = GenerateID()
	}
	if spk.Status == "" {
		spk.Status = StatusOffline
	}
	if spk.Volume == 0 {
		spk.Volume = DefaultVolume
	}
	if spk.Volume < MinVolume || spk.Volume > MaxVolume {
		return fmt.Errorf("%w: %d", ErrInvalidVolume, spk.Volume)
	}
	if spk.Capabilities == nil {
		spk.Capabilities = []string{}
	}

	if err := r.repo.Create(ctx, spk); err != nil {
		return err
	}

	r.logger.Info("speaker registered", "id", spk.ID, "name", spk.Name, "address", spk.IPAddress)
	return nil
}

// Get retrieves a speaker by ID.
// Returns ErrSpeakerNotFound if the speaker does not exist.
func (r *Registry) Get(ctx context.Context, id string) (*Speaker, error) {
	return r.repo.GetByID(ctx, id)
}

// List retrieves all speakers.
func (r *Registry) List(ctx context.Context) ([]Speaker, error) {
	return r.repo.List(ctx)
}

// SetVolume validates and persists a new volume level, then pushes it to
// the vendor service on a best-effort basis.
//
// The stored volume is the caller's intent; a failed remote push does not
// roll it back. Returns ErrInvalidVolume for levels outside 0-100 and
// ErrSpeakerNotFound for unknown speakers.
func (r *Registry) SetVolume(ctx context.Context, id string, volume int) error {
	if volume < MinVolume || volume > MaxVolume {
		return fmt.Errorf("%w: %d", ErrInvalidVolume, volume)
	}

	// Existence check before the write so unknown IDs surface as not-found
	// rather than a silent zero-row update.
	if _, err := r.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := r.repo.UpdateVolume(ctx, id, volume); err != nil {
		return err
	}

	// Best-effort remote push. The adapter absorbs transport failures.
	if r.remote != nil {
		r.remote.SetSpeakerVolume(ctx, id, volume)
	}

	if r.events != nil {
		r.events.PublishSpeakerVolume(id, volume)
	}
	if r.telemetry != nil {
		r.telemetry.WriteSpeakerVolume(id, volume)
	}

	r.logger.Info("speaker volume set", "id", id, "volume", volume)
	return nil
}

// MarkSeen records that a speaker was observed by discovery or a status poll.
func (r *Registry) MarkSeen(ctx context.Context, id string, status Status) error {
	return r.repo.UpdateStatus(ctx, id, status, time.Now().UTC())
}

// MergeDiscovered merges vendor discovery results into the registry.
//
// The merge is additive-only and deduplicates by IP address: targets whose
// address is already registered are left untouched, unknown targets are
// registered as new speakers. A new speaker is online only when the target
// reports online; any other reported status (or none) is stored as offline.
// Nothing is ever removed. Returns the number of speakers created.
func (r *Registry) MergeDiscovered(ctx context.Context, targets []Discovered) (int, error) {
	created := 0

	for _, target := range targets {
		if target.IPAddress == "" {
			r.logger.Warn("discovery target without address skipped", "name", target.Name)
			continue
		}

		_, err := r.repo.GetByAddress(ctx, target.IPAddress)
		if err == nil {
			// Already registered; discovery never modifies existing records.
			continue
		}
		if !errors.Is(err, ErrSpeakerNotFound) {
			return created, fmt.Errorf("checking discovered target %s: %w", target.IPAddress, err)
		}

		status := StatusOffline
		if target.Status == StatusOnline {
			status = StatusOnline
		}

		now := time.Now().UTC()
		spk := &Speaker{
			ID:           GenerateID(),
			Name:         target.Name,
			IPAddress:    target.IPAddress,
			Model:        target.Model,
			Status:       status,
			Volume:       DefaultVolume,
			Capabilities: target.Capabilities,
			LastSeen:     &now,
		}
		if spk.Name == "" {
			spk.Name = target.IPAddress
		}
		if target.MACAddress != "" {
			mac := target.MACAddress
			spk.MACAddress = &mac
		}
		if spk.Capabilities == nil {
			spk.Capabilities = []string{}
		}

		if err := r.repo.Create(ctx, spk); err != nil {
			// A concurrent merge may have inserted the same address.
			if errors.Is(err, ErrSpeakerExists) {
				continue
			}
			return created, fmt.Errorf("registering discovered target %s: %w", target.IPAddress, err)
		}
		created++
	}

	if r.events != nil {
		r.events.PublishDiscovery(created, len(targets))
	}

	r.logger.Info("discovery merged", "discovered", len(targets), "created", created)
	return created, nil
}
