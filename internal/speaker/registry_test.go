package speaker

import (
	"context"
	"errors"
	"testing"
)

// fakeRemote records volume pushes.
type fakeRemote struct {
	calls []struct {
		speakerID string
		volume    int
	}
}

func (f *fakeRemote) SetSpeakerVolume(_ context.Context, speakerID string, volume int) {
	f.calls = append(f.calls, struct {
		speakerID string
		volume    int
	}{speakerID, volume})
}

// fakeEvents records published events.
type fakeEvents struct {
	volumes []struct {
		speakerID string
		volume    int
	}
	discoveries []struct {
		created    int
		discovered int
	}
}

func (f *fakeEvents) PublishSpeakerVolume(speakerID string, volume int) {
	f.volumes = append(f.volumes, struct {
		speakerID string
		volume    int
	}{speakerID, volume})
}

func (f *fakeEvents) PublishDiscovery(created, discovered int) {
	f.discoveries = append(f.discoveries, struct {
		created    int
		discovered int
	}{created, discovered})
}

// fakeTelemetry records telemetry writes.
type fakeTelemetry struct {
	volumes []string
}

func (f *fakeTelemetry) WriteSpeakerVolume(speakerID string, _ int) {
	f.volumes = append(f.volumes, speakerID)
}

func setupRegistry(t *testing.T) (*Registry, Repository) {
	t.Helper()
	repo := NewSQLiteRepository(setupTestDB(t))
	return NewRegistry(repo), repo
}

func TestRegistryRegister(t *testing.T) {
	reg, repo := setupRegistry(t)
	ctx := context.Background()

	spk := &Speaker{
		Name:      "Lobby Horn",
		IPAddress: "192.168.1.100",
	}
	if err := reg.Register(ctx, spk); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if spk.ID == "" {
		t.Error("Register() should generate an ID")
	}
	if spk.Status != StatusOffline {
		t.Errorf("Status = %q, want offline", spk.Status)
	}
	if spk.Volume != DefaultVolume {
		t.Errorf("Volume = %d, want %d", spk.Volume, DefaultVolume)
	}

	got, err := repo.GetByID(ctx, spk.ID)
	if err != nil {
		t.Fatalf("GetByID() after register error = %v", err)
	}
	if got.Capabilities == nil {
		t.Error("Capabilities should default to empty slice")
	}
}

func TestRegistryRegister_Validation(t *testing.T) {
	reg, _ := setupRegistry(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		spk     *Speaker
		wantErr error
	}{
		{
			name:    "empty name",
			spk:     &Speaker{IPAddress: "192.168.1.100"},
			wantErr: ErrInvalidName,
		},
		{
			name:    "empty address",
			spk:     &Speaker{Name: "Lobby Horn"},
			wantErr: ErrInvalidAddress,
		},
		{
			name:    "volume above range",
			spk:     &Speaker{Name: "Lobby Horn", IPAddress: "192.168.1.100", Volume: 150},
			wantErr: ErrInvalidVolume,
		},
		{
			name:    "volume below range",
			spk:     &Speaker{Name: "Lobby Horn", IPAddress: "192.168.1.100", Volume: -5},
			wantErr: ErrInvalidVolume,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := reg.Register(ctx, tt.spk); !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegistryRegister_DuplicateAddress(t *testing.T) {
	reg, _ := setupRegistry(t)
	ctx := context.Background()

	first := &Speaker{Name: "Lobby Horn", IPAddress: "192.168.1.100"}
	if err := reg.Register(ctx, first); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	second := &Speaker{Name: "Atrium Horn", IPAddress: "192.168.1.100"}
	if err := reg.Register(ctx, second); !errors.Is(err, ErrSpeakerExists) {
		t.Errorf("Register(duplicate) error = %v, want ErrSpeakerExists", err)
	}
}

func TestRegistrySetVolume(t *testing.T) {
	reg, repo := setupRegistry(t)
	ctx := context.Background()

	remote := &fakeRemote{}
	events := &fakeEvents{}
	telemetry := &fakeTelemetry{}
	reg.SetRemote(remote)
	reg.SetEvents(events)
	reg.SetTelemetry(telemetry)

	spk := &Speaker{Name: "Lobby Horn", IPAddress: "192.168.1.100"}
	if err := reg.Register(ctx, spk); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := reg.SetVolume(ctx, spk.ID, 75); err != nil {
		t.Fatalf("SetVolume() error = %v", err)
	}

	got, err := repo.GetByID(ctx, spk.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Volume != 75 {
		t.Errorf("stored volume = %d, want 75", got.Volume)
	}

	if len(remote.calls) != 1 || remote.calls[0].volume != 75 {
		t.Errorf("remote push calls = %+v, want one call with volume 75", remote.calls)
	}
	if len(events.volumes) != 1 || events.volumes[0].speakerID != spk.ID {
		t.Errorf("volume events = %+v, want one event for %s", events.volumes, spk.ID)
	}
	if len(telemetry.volumes) != 1 {
		t.Errorf("telemetry writes = %d, want 1", len(telemetry.volumes))
	}
}

func TestRegistrySetVolume_Bounds(t *testing.T) {
	reg, _ := setupRegistry(t)
	ctx := context.Background()

	spk := &Speaker{Name: "Lobby Horn", IPAddress: "192.168.1.100"}
	if err := reg.Register(ctx, spk); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	for _, volume := range []int{-1, 101} {
		if err := reg.SetVolume(ctx, spk.ID, volume); !errors.Is(err, ErrInvalidVolume) {
			t.Errorf("SetVolume(%d) error = %v, want ErrInvalidVolume", volume, err)
		}
	}

	// Boundary values are valid.
	for _, volume := range []int{0, 100} {
		if err := reg.SetVolume(ctx, spk.ID, volume); err != nil {
			t.Errorf("SetVolume(%d) error = %v, want nil", volume, err)
		}
	}
}

func TestRegistrySetVolume_NotFound(t *testing.T) {
	reg, _ := setupRegistry(t)
	remote := &fakeRemote{}
	reg.SetRemote(remote)

	err := reg.SetVolume(context.Background(), "missing", 50)
	if !errors.Is(err, ErrSpeakerNotFound) {
		t.Errorf("SetVolume(missing) error = %v, want ErrSpeakerNotFound", err)
	}
	if len(remote.calls) != 0 {
		t.Error("remote push should not happen for unknown speakers")
	}
}

func TestRegistrySetVolume_NilCollaborators(t *testing.T) {
	reg, _ := setupRegistry(t)
	ctx := context.Background()

	spk := &Speaker{Name: "Lobby Horn", IPAddress: "192.168.1.100"}
	if err := reg.Register(ctx, spk); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// No remote, events, or telemetry wired; must not panic.
	if err := reg.SetVolume(ctx, spk.ID, 60); err != nil {
		t.Fatalf("SetVolume() error = %v", err)
	}
}

func TestRegistryMarkSeen(t *testing.T) {
	reg, repo := setupRegistry(t)
	ctx := context.Background()

	spk := &Speaker{Name: "Lobby Horn", IPAddress: "192.168.1.100"}
	if err := reg.Register(ctx, spk); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := reg.MarkSeen(ctx, spk.ID, StatusOnline); err != nil {
		t.Fatalf("MarkSeen() error = %v", err)
	}

	got, err := repo.GetByID(ctx, spk.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != StatusOnline {
		t.Errorf("Status = %q, want online", got.Status)
	}
	if got.LastSeen == nil {
		t.Error("LastSeen should be set")
	}
}

func TestRegistryMergeDiscovered(t *testing.T) {
	reg, repo := setupRegistry(t)
	ctx := context.Background()
	events := &fakeEvents{}
	reg.SetEvents(events)

	targets := []Discovered{
		{
			Name:         "Speaker Zone 1",
			IPAddress:    "192.168.1.100",
			Model:        "AXIS C1004-E",
			Status:       StatusOnline,
			Capabilities: []string{"audio_out"},
		},
		{
			Name:      "Speaker Zone 2",
			IPAddress: "192.168.1.101",
			Model:     "AXIS C1004-E",
			Status:    StatusOnline,
		},
	}

	created, err := reg.MergeDiscovered(ctx, targets)
	if err != nil {
		t.Fatalf("MergeDiscovered() error = %v", err)
	}
	if created != 2 {
		t.Errorf("created = %d, want 2", created)
	}

	speakers, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(speakers) != 2 {
		t.Fatalf("registry has %d speakers, want 2", len(speakers))
	}
	for _, spk := range speakers {
		if spk.Volume != DefaultVolume {
			t.Errorf("speaker %s volume = %d, want %d", spk.IPAddress, spk.Volume, DefaultVolume)
		}
		if spk.LastSeen == nil {
			t.Errorf("speaker %s should have last seen set", spk.IPAddress)
		}
	}

	if len(events.discoveries) != 1 || events.discoveries[0].created != 2 {
		t.Errorf("discovery events = %+v, want one event with created=2", events.discoveries)
	}
}

func TestRegistryMergeDiscovered_Idempotent(t *testing.T) {
	reg, repo := setupRegistry(t)
	ctx := context.Background()

	targets := []Discovered{
		{Name: "Speaker Zone 1", IPAddress: "192.168.1.100", Status: StatusOnline},
	}

	if _, err := reg.MergeDiscovered(ctx, targets); err != nil {
		t.Fatalf("first MergeDiscovered() error = %v", err)
	}

	// Operator renames and adjusts the speaker after the first merge.
	spk, err := repo.GetByAddress(ctx, "192.168.1.100")
	if err != nil {
		t.Fatalf("GetByAddress() error = %v", err)
	}
	if err := repo.UpdateVolume(ctx, spk.ID, 90); err != nil {
		t.Fatalf("UpdateVolume() error = %v", err)
	}

	created, err := reg.MergeDiscovered(ctx, targets)
	if err != nil {
		t.Fatalf("second MergeDiscovered() error = %v", err)
	}
	if created != 0 {
		t.Errorf("second merge created = %d, want 0", created)
	}

	// Existing records are never touched by discovery.
	got, err := repo.GetByID(ctx, spk.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Volume != 90 {
		t.Errorf("volume after re-merge = %d, want 90 (untouched)", got.Volume)
	}

	speakers, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(speakers) != 1 {
		t.Errorf("registry has %d speakers, want 1", len(speakers))
	}
}

func TestRegistryMergeDiscovered_Defaults(t *testing.T) {
	reg, repo := setupRegistry(t)
	ctx := context.Background()

	targets := []Discovered{
		{IPAddress: "192.168.1.100"},       // no name, no status
		{Name: "No Address", IPAddress: ""}, // skipped
	}

	created, err := reg.MergeDiscovered(ctx, targets)
	if err != nil {
		t.Fatalf("MergeDiscovered() error = %v", err)
	}
	if created != 1 {
		t.Errorf("created = %d, want 1", created)
	}

	got, err := repo.GetByAddress(ctx, "192.168.1.100")
	if err != nil {
		t.Fatalf("GetByAddress() error = %v", err)
	}
	if got.Name != "192.168.1.100" {
		t.Errorf("Name = %q, want address fallback", got.Name)
	}
	if got.Status != StatusOffline {
		t.Errorf("Status = %q, want offline", got.Status)
	}
}

func TestRegistryMergeDiscovered_StatusNormalised(t *testing.T) {
	reg, repo := setupRegistry(t)
	ctx := context.Background()

	targets := []Discovered{
		{Name: "Lobby", IPAddress: "192.168.1.100", Status: StatusOnline},
		{Name: "Cafe", IPAddress: "192.168.1.101", Status: Status("busy")},
		{Name: "Atrium", IPAddress: "192.168.1.102"},
	}

	created, err := reg.MergeDiscovered(ctx, targets)
	if err != nil {
		t.Fatalf("MergeDiscovered() error = %v", err)
	}
	if created != 3 {
		t.Errorf("created = %d, want 3", created)
	}

	want := map[string]Status{
		"192.168.1.100": StatusOnline,
		"192.168.1.101": StatusOffline,
		"192.168.1.102": StatusOffline,
	}
	for address, wantStatus := range want {
		got, err := repo.GetByAddress(ctx, address)
		if err != nil {
			t.Fatalf("GetByAddress(%s) error = %v", address, err)
		}
		if got.Status != wantStatus {
			t.Errorf("speaker %s status = %q, want %q", address, got.Status, wantStatus)
		}
	}
}
