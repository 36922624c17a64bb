package source

import (
	"context"
	"fmt"
)

// Logger defines the logging interface used by the Catalog.
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

// Catalog provides audio source management on top of a Repository.
type Catalog struct {
	repo   Repository
	logger Logger
}

// NewCatalog creates a new source catalog.
func NewCatalog(repo Repository) *Catalog {
	return &Catalog{
		repo:   repo,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the catalog.
func (c *Catalog) SetLogger(logger Logger) {
	c.logger = logger
}

// Create persists a new audio source.
//
// URL and FilePath are stored as given; the catalog does not enforce
// which of the two matches the source type.
func (c *Catalog) Create(ctx context.Context, src *AudioSource) error {
	if src.Name == "" {
		return ErrInvalidName
	}
	if !src.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, src.Type)
	}

	if src.ID == "" {
		src.ID = GenerateID()
	}
	if src.Metadata == nil {
		src.Metadata = map[string]any{}
	}

	if err := c.repo.Create(ctx, src); err != nil {
		return err
	}

	c.logger.Info("source created", "id", src.ID, "name", src.Name, "type", src.Type)
	return nil
}

// Get retrieves a source by ID.
// Returns ErrSourceNotFound if the source does not exist.
func (c *Catalog) Get(ctx context.Context, id string) (*AudioSource, error) {
	return c.repo.GetByID(ctx, id)
}

// List retrieves all sources.
func (c *Catalog) List(ctx context.Context) ([]AudioSource, error) {
	return c.repo.List(ctx)
}

// Delete removes a source. Sessions started from it are unaffected.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		return err
	}

	c.logger.Info("source deleted", "id", id)
	return nil
}
