package zone

import (
	"context"
	"errors"
	"testing"
)

func setupAggregator(t *testing.T) *Aggregator {
	t.Helper()
	return NewAggregator(NewSQLiteRepository(setupTestDB(t)))
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func TestAggregatorCreate(t *testing.T) {
	agg := setupAggregator(t)
	ctx := context.Background()

	z := &Zone{Name: "Living Room"}
	if err := agg.Create(ctx, z); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if z.ID == "" {
		t.Error("Create() should generate an ID")
	}
	if z.Volume != DefaultVolume {
		t.Errorf("Volume = %d, want %d", z.Volume, DefaultVolume)
	}

	got, err := agg.Get(ctx, z.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.SpeakerIDs == nil || len(got.SpeakerIDs) != 0 {
		t.Errorf("SpeakerIDs = %v, want empty slice", got.SpeakerIDs)
	}
}

func TestAggregatorCreate_Validation(t *testing.T) {
	agg := setupAggregator(t)
	ctx := context.Background()

	if err := agg.Create(ctx, &Zone{}); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Create(no name) error = %v, want ErrInvalidName", err)
	}
	if err := agg.Create(ctx, &Zone{Name: "Loud", Volume: 150}); !errors.Is(err, ErrInvalidVolume) {
		t.Errorf("Create(volume 150) error = %v, want ErrInvalidVolume", err)
	}
}

func TestAggregatorUpdate_Partial(t *testing.T) {
	agg := setupAggregator(t)
	ctx := context.Background()

	z := &Zone{
		Name:        "Living Room",
		Description: "Ground floor",
		SpeakerIDs:  []string{"spk-1", "spk-2"},
		Volume:      70,
	}
	if err := agg.Create(ctx, z); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Description-only update leaves everything else untouched.
	got, err := agg.Update(ctx, z.ID, Update{Description: strPtr("Renovated")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if got.Description != "Renovated" {
		t.Errorf("Description = %q, want Renovated", got.Description)
	}
	if got.Name != "Living Room" {
		t.Errorf("Name = %q, want unchanged Living Room", got.Name)
	}
	if len(got.SpeakerIDs) != 2 {
		t.Errorf("SpeakerIDs = %v, want unchanged [spk-1 spk-2]", got.SpeakerIDs)
	}
	if got.Volume != 70 {
		t.Errorf("Volume = %d, want unchanged 70", got.Volume)
	}

	// Several fields at once, including clearing the member list.
	got, err = agg.Update(ctx, z.ID, Update{
		Name:       strPtr("Main Floor"),
		SpeakerIDs: []string{},
		Volume:     intPtr(30),
		Muted:      boolPtr(true),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Name != "Main Floor" || len(got.SpeakerIDs) != 0 || got.Volume != 30 || !got.Muted {
		t.Errorf("Update() result = %+v, want all supplied fields applied", got)
	}
	if got.Description != "Renovated" {
		t.Errorf("Description = %q, want unchanged Renovated", got.Description)
	}
}

func TestAggregatorUpdate_Errors(t *testing.T) {
	agg := setupAggregator(t)
	ctx := context.Background()

	z := &Zone{Name: "Living Room"}
	if err := agg.Create(ctx, z); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name    string
		id      string
		upd     Update
		wantErr error
	}{
		{"unknown zone", "missing", Update{Description: strPtr("x")}, ErrZoneNotFound},
		{"empty name", z.ID, Update{Name: strPtr("")}, ErrInvalidName},
		{"volume out of range", z.ID, Update{Volume: intPtr(101)}, ErrInvalidVolume},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := agg.Update(ctx, tt.id, tt.upd); !errors.Is(err, tt.wantErr) {
				t.Errorf("Update() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAggregatorDelete(t *testing.T) {
	agg := setupAggregator(t)
	ctx := context.Background()

	z := &Zone{Name: "Living Room"}
	if err := agg.Create(ctx, z); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := agg.Delete(ctx, z.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := agg.Delete(ctx, z.ID); !errors.Is(err, ErrZoneNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrZoneNotFound", err)
	}
}
