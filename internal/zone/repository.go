package zone

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Repository defines the interface for zone persistence operations.
type Repository interface {
	// GetByID retrieves a zone by its unique identifier.
	// Returns ErrZoneNotFound if the zone does not exist.
	GetByID(ctx context.Context, id string) (*Zone, error)

	// List retrieves all zones ordered by name.
	List(ctx context.Context) ([]Zone, error)

	// Create inserts a new zone.
	Create(ctx context.Context, z *Zone) error

	// Update persists the mutable fields of a zone.
	// Returns ErrZoneNotFound if the zone does not exist.
	Update(ctx context.Context, z *Zone) error

	// Delete removes a zone.
	// Returns ErrZoneNotFound if the zone does not exist.
	Delete(ctx context.Context, id string) error

	// SetActiveSession binds a session to a zone.
	// Returns ErrZoneNotFound if the zone does not exist.
	SetActiveSession(ctx context.Context, zoneID, sessionID string) error

	// ClearActiveSession unbinds a session from a zone, but only if the
	// zone still points at that session. Clearing a zone whose active
	// session has moved on is a no-op, not an error.
	ClearActiveSession(ctx context.Context, zoneID, sessionID string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const zoneColumns = `id, name, description, speaker_ids, volume, muted, active_session_id, created_at`

// GetByID retrieves a zone by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	z, err := scanZone(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrZoneNotFound
		}
		return nil, fmt.Errorf("querying zone by id: %w", err)
	}
	return z, nil
}

// List retrieves all zones ordered by name.
func (r *SQLiteRepository) List(ctx context.Context) ([]Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying zones: %w", err)
	}
	defer rows.Close()

	var zones []Zone
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning zone: %w", err)
		}
		zones = append(zones, *z)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating zones: %w", err)
	}

	return zones, nil
}

// Create inserts a new zone.
func (r *SQLiteRepository) Create(ctx context.Context, z *Zone) error {
	speakersJSON, err := json.Marshal(z.SpeakerIDs)
	if err != nil {
		return fmt.Errorf("marshalling speaker ids: %w", err)
	}

	if z.CreatedAt.IsZero() {
		z.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO zones (
			id, name, description, speaker_ids, volume, muted, active_session_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		z.ID,
		z.Name,
		z.Description,
		string(speakersJSON),
		z.Volume,
		z.Muted,
		nullableString(z.ActiveSessionID),
		z.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting zone: %w", err)
	}

	return nil
}

// Update persists the mutable fields of a zone.
func (r *SQLiteRepository) Update(ctx context.Context, z *Zone) error {
	speakersJSON, err := json.Marshal(z.SpeakerIDs)
	if err != nil {
		return fmt.Errorf("marshalling speaker ids: %w", err)
	}

	query := `
		UPDATE zones
		SET name = ?, description = ?, speaker_ids = ?, volume = ?, muted = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		z.Name,
		z.Description,
		string(speakersJSON),
		z.Volume,
		z.Muted,
		z.ID,
	)
	if err != nil {
		return fmt.Errorf("updating zone: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrZoneNotFound
	}

	return nil
}

// Delete removes a zone. Sessions bound to the zone are left in place.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM zones WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting zone: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrZoneNotFound
	}

	return nil
}

// SetActiveSession binds a session to a zone.
func (r *SQLiteRepository) SetActiveSession(ctx context.Context, zoneID, sessionID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE zones SET active_session_id = ? WHERE id = ?`,
		sessionID, zoneID,
	)
	if err != nil {
		return fmt.Errorf("setting active session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrZoneNotFound
	}

	return nil
}

// ClearActiveSession unbinds a session from a zone if it is still bound.
func (r *SQLiteRepository) ClearActiveSession(ctx context.Context, zoneID, sessionID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE zones SET active_session_id = NULL WHERE id = ? AND active_session_id = ?`,
		zoneID, sessionID,
	)
	if err != nil {
		return fmt.Errorf("clearing active session: %w", err)
	}
	return nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanZone scans a row or rows result into a Zone.
func scanZone(scanner rowScanner) (*Zone, error) {
	var z Zone
	var description sql.NullString
	var activeSessionID sql.NullString
	var speakersJSON string
	var createdAt string

	err := scanner.Scan(
		&z.ID,
		&z.Name,
		&description,
		&speakersJSON,
		&z.Volume,
		&z.Muted,
		&activeSessionID,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		z.Description = description.String
	}
	if activeSessionID.Valid {
		z.ActiveSessionID = &activeSessionID.String
	}

	var parseErr error
	z.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}

	if err := json.Unmarshal([]byte(speakersJSON), &z.SpeakerIDs); err != nil {
		return nil, fmt.Errorf("unmarshalling speaker ids: %w", err)
	}
	if z.SpeakerIDs == nil {
		z.SpeakerIDs = []string{}
	}

	return &z, nil
}

// nullableString returns a sql.NullString for optional string pointers.
func nullableString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
