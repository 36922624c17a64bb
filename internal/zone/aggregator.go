package zone

import (
	"context"
	"fmt"
)

// Logger defines the logging interface used by the Aggregator.
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

// Aggregator provides zone management on top of a Repository.
type Aggregator struct {
	repo   Repository
	logger Logger
}

// NewAggregator creates a new zone aggregator.
func NewAggregator(repo Repository) *Aggregator {
	return &Aggregator{
		repo:   repo,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the aggregator.
func (a *Aggregator) SetLogger(logger Logger) {
	a.logger = logger
}

// Create persists a new zone.
//
// Member speaker IDs are stored as given without existence checks, so
// zones can be defined ahead of discovery.
func (a *Aggregator) Create(ctx context.Context, z *Zone) error {
	if z.Name == "" {
		return ErrInvalidName
	}

	if z.ID == "" {
		z.ID = GenerateID()
	}
	if z.Volume == 0 {
		z.Volume = DefaultVolume
	}
	if z.Volume < MinVolume || z.Volume > MaxVolume {
		return fmt.Errorf("%w: %d", ErrInvalidVolume, z.Volume)
	}
	if z.SpeakerIDs == nil {
		z.SpeakerIDs = []string{}
	}

	if err := a.repo.Create(ctx, z); err != nil {
		return err
	}

	a.logger.Info("zone created", "id", z.ID, "name", z.Name, "speakers", len(z.SpeakerIDs))
	return nil
}

// Get retrieves a zone by ID.
// Returns ErrZoneNotFound if the zone does not exist.
func (a *Aggregator) Get(ctx context.Context, id string) (*Zone, error) {
	return a.repo.GetByID(ctx, id)
}

// List retrieves all zones.
func (a *Aggregator) List(ctx context.Context) ([]Zone, error) {
	return a.repo.List(ctx)
}

// Update applies a partial update to a zone and returns the result.
//
// Only non-nil fields of upd change the record; everything else keeps
// its prior value. Returns ErrZoneNotFound for unknown IDs.
func (a *Aggregator) Update(ctx context.Context, id string, upd Update) (*Zone, error) {
	z, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		if *upd.Name == "" {
			return nil, ErrInvalidName
		}
		z.Name = *upd.Name
	}
	if upd.Description != nil {
		z.Description = *upd.Description
	}
	if upd.SpeakerIDs != nil {
		z.SpeakerIDs = upd.SpeakerIDs
	}
	if upd.Volume != nil {
		if *upd.Volume < MinVolume || *upd.Volume > MaxVolume {
			return nil, fmt.Errorf("%w: %d", ErrInvalidVolume, *upd.Volume)
		}
		z.Volume = *upd.Volume
	}
	if upd.Muted != nil {
		z.Muted = *upd.Muted
	}

	if err := a.repo.Update(ctx, z); err != nil {
		return nil, err
	}

	a.logger.Info("zone updated", "id", z.ID)
	return z, nil
}

// Delete removes a zone.
//
// Sessions that reference the zone are left untouched; stopping them is
// the caller's responsibility.
func (a *Aggregator) Delete(ctx context.Context, id string) error {
	if err := a.repo.Delete(ctx, id); err != nil {
		return err
	}

	a.logger.Info("zone deleted", "id", id)
	return nil
}
