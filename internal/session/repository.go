package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Repository defines the interface for session persistence operations.
type Repository interface {
	// GetByID retrieves a session by its unique identifier.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id string) (*Session, error)

	// List retrieves all sessions, newest first.
	List(ctx context.Context) ([]Session, error)

	// Create inserts a new session.
	Create(ctx context.Context, s *Session) error

	// MarkStarted transitions a session to playing and records the start
	// time. Returns ErrSessionNotFound if the session does not exist.
	MarkStarted(ctx context.Context, id string, startedAt time.Time) error

	// MarkError transitions a session to the terminal error status.
	// Returns ErrSessionNotFound if the session does not exist.
	MarkError(ctx context.Context, id string) error

	// ApplyControl persists the outcome of a control action: the new
	// status, optionally a playback position, and optionally an end time.
	// Returns ErrSessionNotFound if the session does not exist.
	ApplyControl(ctx context.Context, id string, status Status, position *int, endedAt *time.Time) error

	// Delete removes a session.
	// Returns ErrSessionNotFound if the session does not exist.
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

const sessionColumns = `id, name, zone_id, source_id, status, volume, position, loop, created_at, started_at, ended_at`

// GetByID retrieves a session by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM audio_sessions WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("querying session by id: %w", err)
	}
	return s, nil
}

// List retrieves all sessions, newest first.
func (r *SQLiteRepository) List(ctx context.Context) ([]Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM audio_sessions ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}

	return sessions, nil
}

// Create inserts a new session.
func (r *SQLiteRepository) Create(ctx context.Context, s *Session) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO audio_sessions (
			id, name, zone_id, source_id, status, volume, position, loop, created_at, started_at, ended_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Name,
		s.ZoneID,
		s.SourceID,
		string(s.Status),
		s.Volume,
		s.Position,
		s.Loop,
		s.CreatedAt.Format(time.RFC3339),
		nullableTime(s.StartedAt),
		nullableTime(s.EndedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}

	return nil
}

// MarkStarted transitions a session to playing and records the start time.
func (r *SQLiteRepository) MarkStarted(ctx context.Context, id string, startedAt time.Time) error {
	query := `UPDATE audio_sessions SET status = ?, started_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		string(StatusPlaying),
		startedAt.UTC().Format(time.RFC3339),
		id,
	)
	if err != nil {
		return fmt.Errorf("marking session started: %w", err)
	}
	return checkAffected(result)
}

// MarkError transitions a session to the terminal error status.
func (r *SQLiteRepository) MarkError(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE audio_sessions SET status = ? WHERE id = ?`,
		string(StatusError), id,
	)
	if err != nil {
		return fmt.Errorf("marking session errored: %w", err)
	}
	return checkAffected(result)
}

// ApplyControl persists the outcome of a control action.
func (r *SQLiteRepository) ApplyControl(ctx context.Context, id string, status Status, position *int, endedAt *time.Time) error {
	query := `UPDATE audio_sessions SET status = ?`
	args := []any{string(status)}

	if position != nil {
		query += `, position = ?`
		args = append(args, *position)
	}
	if endedAt != nil {
		query += `, ended_at = ?`
		args = append(args, endedAt.UTC().Format(time.RFC3339))
	}

	query += ` WHERE id = ?`
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("applying session control: %w", err)
	}
	return checkAffected(result)
}

// Delete removes a session.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM audio_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return checkAffected(result)
}

// checkAffected converts a zero-row update into ErrSessionNotFound.
func checkAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSession scans a row or rows result into a Session.
func scanSession(scanner rowScanner) (*Session, error) {
	var s Session
	var status string
	var createdAt string
	var startedAt, endedAt sql.NullString

	err := scanner.Scan(
		&s.ID,
		&s.Name,
		&s.ZoneID,
		&s.SourceID,
		&status,
		&s.Volume,
		&s.Position,
		&s.Loop,
		&createdAt,
		&startedAt,
		&endedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Status = Status(status)

	var parseErr error
	s.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}

	if startedAt.Valid {
		t, err := time.Parse(time.RFC3339, startedAt.String)
		if err == nil {
			s.StartedAt = &t
		}
	}
	if endedAt.Valid {
		t, err := time.Parse(time.RFC3339, endedAt.String)
		if err == nil {
			s.EndedAt = &t
		}
	}

	return &s, nil
}

// nullableTime returns a sql.NullString for optional time pointers (as RFC3339 strings).
func nullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}
