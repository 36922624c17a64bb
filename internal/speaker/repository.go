package speaker

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for speaker persistence operations.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	// GetByID retrieves a speaker by its unique identifier.
	// Returns ErrSpeakerNotFound if the speaker does not exist.
	GetByID(ctx context.Context, id string) (*Speaker, error)

	// GetByAddress retrieves a speaker by its IP address.
	// Returns ErrSpeakerNotFound if no speaker has that address.
	GetByAddress(ctx context.Context, ipAddress string) (*Speaker, error)

	// List retrieves all speakers ordered by name.
	List(ctx context.Context) ([]Speaker, error)

	// Create inserts a new speaker.
	// Returns ErrSpeakerExists if the IP address is already registered.
	Create(ctx context.Context, spk *Speaker) error

	// UpdateVolume persists a new volume level for a speaker.
	// Returns ErrSpeakerNotFound if the speaker does not exist.
	UpdateVolume(ctx context.Context, id string, volume int) error

	// UpdateStatus persists a new reachability status and last seen time.
	// Returns ErrSpeakerNotFound if the speaker does not exist.
	UpdateStatus(ctx context.Context, id string, status Status, lastSeen time.Time) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const speakerColumns = `id, name, ip_address, mac_address, model, firmware_version,
	status, volume, zone_id, last_seen, capabilities, created_at, updated_at`

// GetByID retrieves a speaker by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Speaker, error) {
	query := `SELECT ` + speakerColumns + ` FROM speakers WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	spk, err := scanSpeaker(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSpeakerNotFound
		}
		return nil, fmt.Errorf("querying speaker by id: %w", err)
	}
	return spk, nil
}

// GetByAddress retrieves a speaker by its IP address.
func (r *SQLiteRepository) GetByAddress(ctx context.Context, ipAddress string) (*Speaker, error) {
	query := `SELECT ` + speakerColumns + ` FROM speakers WHERE ip_address = ?`

	row := r.db.QueryRowContext(ctx, query, ipAddress)
	spk, err := scanSpeaker(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSpeakerNotFound
		}
		return nil, fmt.Errorf("querying speaker by address: %w", err)
	}
	return spk, nil
}

// List retrieves all speakers ordered by name.
func (r *SQLiteRepository) List(ctx context.Context) ([]Speaker, error) {
	query := `SELECT ` + speakerColumns + ` FROM speakers ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying speakers: %w", err)
	}
	defer rows.Close()

	var speakers []Speaker
	for rows.Next() {
		spk, err := scanSpeaker(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning speaker: %w", err)
		}
		speakers = append(speakers, *spk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating speakers: %w", err)
	}

	return speakers, nil
}

// Create inserts a new speaker.
func (r *SQLiteRepository) Create(ctx context.Context, spk *Speaker) error {
	capsJSON, err := json.Marshal(spk.Capabilities)
	if err != nil {
		return fmt.Errorf("marshalling capabilities: %w", err)
	}

	// Set timestamps if not set
	now := time.Now().UTC()
	if spk.CreatedAt.IsZero() {
		spk.CreatedAt = now
	}
	spk.UpdatedAt = now

	query := `
		INSERT INTO speakers (
			id, name, ip_address, mac_address, model, firmware_version,
			status, volume, zone_id, last_seen, capabilities, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		spk.ID,
		spk.Name,
		spk.IPAddress,
		nullableString(spk.MACAddress),
		spk.Model,
		nullableString(spk.FirmwareVersion),
		string(spk.Status),
		spk.Volume,
		nullableString(spk.ZoneID),
		nullableTime(spk.LastSeen),
		string(capsJSON),
		spk.CreatedAt.Format(time.RFC3339),
		spk.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrSpeakerExists
		}
		return fmt.Errorf("inserting speaker: %w", err)
	}

	return nil
}

// UpdateVolume persists a new volume level for a speaker.
func (r *SQLiteRepository) UpdateVolume(ctx context.Context, id string, volume int) error {
	now := time.Now().UTC()
	query := `UPDATE speakers SET volume = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, volume, now.Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("updating speaker volume: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrSpeakerNotFound
	}

	return nil
}

// UpdateStatus persists a new reachability status and last seen time.
func (r *SQLiteRepository) UpdateStatus(ctx context.Context, id string, status Status, lastSeen time.Time) error {
	now := time.Now().UTC()
	query := `UPDATE speakers SET status = ?, last_seen = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		string(status),
		lastSeen.UTC().Format(time.RFC3339),
		now.Format(time.RFC3339),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating speaker status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrSpeakerNotFound
	}

	return nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSpeaker scans a row or rows result into a Speaker.
func scanSpeaker(scanner rowScanner) (*Speaker, error) {
	var s Speaker
	var macAddress, firmwareVersion, zoneID sql.NullString
	var lastSeen sql.NullString
	var capsJSON string
	var status string
	var createdAt, updatedAt string

	err := scanner.Scan(
		&s.ID,
		&s.Name,
		&s.IPAddress,
		&macAddress,
		&s.Model,
		&firmwareVersion,
		&status,
		&s.Volume,
		&zoneID,
		&lastSeen,
		&capsJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Status = Status(status)

	if macAddress.Valid {
		s.MACAddress = &macAddress.String
	}
	if firmwareVersion.Valid {
		s.FirmwareVersion = &firmwareVersion.String
	}
	if zoneID.Valid {
		s.ZoneID = &zoneID.String
	}

	if lastSeen.Valid {
		t, err := time.Parse(time.RFC3339, lastSeen.String)
		if err == nil {
			s.LastSeen = &t
		}
	}

	var parseErr error
	s.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	s.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	if err := json.Unmarshal([]byte(capsJSON), &s.Capabilities); err != nil {
		return nil, fmt.Errorf("unmarshalling capabilities: %w", err)
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

// nullableTime returns a sql.NullString for optional time pointers (as RFC3339 strings).
func nullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

// isUniqueConstraintError checks if an error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
