package zone

import (
	"time"

	"github.com/google/uuid"
)

// Zone is a named grouping of speakers that share playback control.
// This matches the zones table created by the initial schema migration.
type Zone struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// SpeakerIDs lists the member speakers in order. Membership is not
	// validated against the speaker registry.
	SpeakerIDs []string `json:"speaker_ids"`

	Volume int  `json:"volume"`
	Muted  bool `json:"muted"`

	// ActiveSessionID references the playback session currently bound to
	// this zone, when one is running.
	ActiveSessionID *string `json:"active_session_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Update carries a partial zone update. Nil fields are left untouched;
// a nil SpeakerIDs slice means "keep current members" while an empty
// non-nil slice clears them.
type Update struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	SpeakerIDs  []string `json:"speaker_ids,omitempty"`
	Volume      *int     `json:"volume,omitempty"`
	Muted       *bool    `json:"muted,omitempty"`
}

// Volume bounds. Levels are integer percent.
const (
	MinVolume = 0
	MaxVolume = 100

	// DefaultVolume is applied when a zone is created without an explicit
	// level.
	DefaultVolume = 50
)

// GenerateID creates a new unique zone identifier.
func GenerateID() string {
	return uuid.New().String()
}
