package speaker

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the speakers schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE speakers (
			id               TEXT PRIMARY KEY,
			name             TEXT NOT NULL,
			ip_address       TEXT NOT NULL UNIQUE,
			mac_address      TEXT,
			model            TEXT NOT NULL DEFAULT '',
			firmware_version TEXT,
			status           TEXT NOT NULL DEFAULT 'offline',
			volume           INTEGER NOT NULL DEFAULT 50,
			zone_id          TEXT,
			last_seen        TEXT,
			capabilities     TEXT NOT NULL DEFAULT '[]',
			created_at       TEXT NOT NULL,
			updated_at       TEXT NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating test schema: %v", err)
	}

	return db
}

// testSpeaker returns a valid speaker for tests.
func testSpeaker(id, address string) *Speaker {
	return &Speaker{
		ID:           id,
		Name:         "Lobby Horn",
		IPAddress:    address,
		Model:        "AXIS C1004-E",
		Status:       StatusOffline,
		Volume:       DefaultVolume,
		Capabilities: []string{"audio_out"},
	}
}

func TestRepositoryCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	mac := "AA:BB:CC:00:11:22"
	spk := testSpeaker("spk-1", "192.168.1.100")
	spk.MACAddress = &mac

	if err := repo.Create(ctx, spk); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "spk-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.Name != "Lobby Horn" {
		t.Errorf("Name = %q, want %q", got.Name, "Lobby Horn")
	}
	if got.IPAddress != "192.168.1.100" {
		t.Errorf("IPAddress = %q, want %q", got.IPAddress, "192.168.1.100")
	}
	if got.MACAddress == nil || *got.MACAddress != mac {
		t.Errorf("MACAddress = %v, want %q", got.MACAddress, mac)
	}
	if got.Volume != DefaultVolume {
		t.Errorf("Volume = %d, want %d", got.Volume, DefaultVolume)
	}
	if got.Status != StatusOffline {
		t.Errorf("Status = %q, want %q", got.Status, StatusOffline)
	}
	if len(got.Capabilities) != 1 || got.Capabilities[0] != "audio_out" {
		t.Errorf("Capabilities = %v, want [audio_out]", got.Capabilities)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestRepositoryGetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrSpeakerNotFound) {
		t.Errorf("GetByID() error = %v, want ErrSpeakerNotFound", err)
	}
}

func TestRepositoryGetByAddress(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, testSpeaker("spk-1", "192.168.1.100")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByAddress(ctx, "192.168.1.100")
	if err != nil {
		t.Fatalf("GetByAddress() error = %v", err)
	}
	if got.ID != "spk-1" {
		t.Errorf("ID = %q, want spk-1", got.ID)
	}

	_, err = repo.GetByAddress(ctx, "192.168.1.200")
	if !errors.Is(err, ErrSpeakerNotFound) {
		t.Errorf("GetByAddress(unknown) error = %v, want ErrSpeakerNotFound", err)
	}
}

func TestRepositoryCreate_DuplicateAddress(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, testSpeaker("spk-1", "192.168.1.100")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err := repo.Create(ctx, testSpeaker("spk-2", "192.168.1.100"))
	if !errors.Is(err, ErrSpeakerExists) {
		t.Errorf("Create(duplicate address) error = %v, want ErrSpeakerExists", err)
	}
}

func TestRepositoryList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	speakers, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(speakers) != 0 {
		t.Errorf("List() on empty table = %d speakers, want 0", len(speakers))
	}

	a := testSpeaker("spk-a", "192.168.1.100")
	a.Name = "Bravo"
	b := testSpeaker("spk-b", "192.168.1.101")
	b.Name = "Alpha"
	for _, spk := range []*Speaker{a, b} {
		if err := repo.Create(ctx, spk); err != nil {
			t.Fatalf("Create(%s) error = %v", spk.ID, err)
		}
	}

	speakers, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(speakers) != 2 {
		t.Fatalf("List() = %d speakers, want 2", len(speakers))
	}
	// Ordered by name
	if speakers[0].Name != "Alpha" || speakers[1].Name != "Bravo" {
		t.Errorf("List() order = [%s, %s], want [Alpha, Bravo]", speakers[0].Name, speakers[1].Name)
	}
}

func TestRepositoryUpdateVolume(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, testSpeaker("spk-1", "192.168.1.100")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.UpdateVolume(ctx, "spk-1", 80); err != nil {
		t.Fatalf("UpdateVolume() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "spk-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Volume != 80 {
		t.Errorf("Volume = %d, want 80", got.Volume)
	}

	if err := repo.UpdateVolume(ctx, "missing", 80); !errors.Is(err, ErrSpeakerNotFound) {
		t.Errorf("UpdateVolume(missing) error = %v, want ErrSpeakerNotFound", err)
	}
}

func TestRepositoryUpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, testSpeaker("spk-1", "192.168.1.100")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	seen := time.Now().UTC().Truncate(time.Second)
	if err := repo.UpdateStatus(ctx, "spk-1", StatusOnline, seen); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "spk-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != StatusOnline {
		t.Errorf("Status = %q, want online", got.Status)
	}
	if got.LastSeen == nil || !got.LastSeen.Equal(seen) {
		t.Errorf("LastSeen = %v, want %v", got.LastSeen, seen)
	}

	if err := repo.UpdateStatus(ctx, "missing", StatusOnline, seen); !errors.Is(err, ErrSpeakerNotFound) {
		t.Errorf("UpdateStatus(missing) error = %v, want ErrSpeakerNotFound", err)
	}
}
