package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Repository defines the interface for audio source persistence.
type Repository interface {
	// GetByID retrieves a source by its unique identifier.
	// Returns ErrSourceNotFound if the source does not exist.
	GetByID(ctx context.Context, id string) (*AudioSource, error)

	// List retrieves all sources ordered by name.
	List(ctx context.Context) ([]AudioSource, error)

	// Create inserts a new source.
	Create(ctx context.Context, src *AudioSource) error

	// Delete removes a source.
	// Returns ErrSourceNotFound if the source does not exist.
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const sourceColumns = `id, name, type, url, file_path, metadata, duration, created_at`

// GetByID retrieves a source by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*AudioSource, error) {
	query := `SELECT ` + sourceColumns + ` FROM audio_sources WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	src, err := scanSource(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSourceNotFound
		}
		return nil, fmt.Errorf("querying source by id: %w", err)
	}
	return src, nil
}

// List retrieves all sources ordered by name.
func (r *SQLiteRepository) List(ctx context.Context) ([]AudioSource, error) {
	query := `SELECT ` + sourceColumns + ` FROM audio_sources ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []AudioSource
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		sources = append(sources, *src)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}

	return sources, nil
}

// Create inserts a new source.
func (r *SQLiteRepository) Create(ctx context.Context, src *AudioSource) error {
	if src.Metadata == nil {
		src.Metadata = map[string]any{}
	}
	metaJSON, err := json.Marshal(src.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	if src.CreatedAt.IsZero() {
		src.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO audio_sources (
			id, name, type, url, file_path, metadata, duration, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		src.ID,
		src.Name,
		string(src.Type),
		nullableString(src.URL),
		nullableString(src.FilePath),
		string(metaJSON),
		nullableInt(src.Duration),
		src.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting source: %w", err)
	}

	return nil
}

// Delete removes a source.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM audio_sources WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting source: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrSourceNotFound
	}

	return nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSource scans a row or rows result into an AudioSource.
func scanSource(scanner rowScanner) (*AudioSource, error) {
	var s AudioSource
	var url, filePath sql.NullString
	var duration sql.NullInt64
	var typeStr, metaJSON, createdAt string

	err := scanner.Scan(
		&s.ID,
		&s.Name,
		&typeStr,
		&url,
		&filePath,
		&metaJSON,
		&duration,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	s.Type = Type(typeStr)

	if url.Valid {
		s.URL = &url.String
	}
	if filePath.Valid {
		s.FilePath = &filePath.String
	}
	if duration.Valid {
		d := int(duration.Int64)
		s.Duration = &d
	}

	var parseErr error
	s.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}

	if err := json.Unmarshal([]byte(metaJSON), &s.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshalling metadata: %w", err)
	}

	return &s, nil
}

// nullableString returns a sql.NullString for optional string pointers.
func nullableString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// nullableInt returns a sql.NullInt64 for optional int pointers.
func nullableInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}
