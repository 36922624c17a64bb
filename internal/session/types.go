package session

import (
	"time"

	"github.com/google/uuid"
)

// Session is one playback instance bound to one zone and one source.
// This matches the audio_sessions table created by the initial schema
// migration.
type Session struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ZoneID   string `json:"zone_id"`
	SourceID string `json:"source_id"`

	Status Status `json:"status"`
	Volume int    `json:"volume"`

	// Position is the playback offset in seconds. Overwritten whenever a
	// control request supplies one; never bounds-checked against the
	// source duration.
	Position int  `json:"position"`
	Loop     bool `json:"loop"`

	CreatedAt time.Time  `json:"created_at"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// Status is the session lifecycle state.
type Status string

// Session states. Error is reachable from preparing only; stopped is
// terminal for control purposes.
const (
	StatusPreparing Status = "preparing"
	StatusPlaying   Status = "playing"
	StatusPaused    Status = "paused"
	StatusStopped   Status = "stopped"
	StatusError     Status = "error"
)

// Playback control actions.
const (
	ActionPlay     = "play"
	ActionPause    = "pause"
	ActionStop     = "stop"
	ActionNext     = "next"
	ActionPrevious = "previous"
)

// StatusForAction maps a control action to the resulting session status.
// Unrecognized actions map to playing; callers may send vendor-specific
// actions (next, previous) and the session keeps running.
func StatusForAction(action string) Status {
	switch action {
	case ActionPlay:
		return StatusPlaying
	case ActionPause:
		return StatusPaused
	case ActionStop:
		return StatusStopped
	default:
		return StatusPlaying
	}
}

// Volume bounds. Levels are integer percent.
const (
	MinVolume = 0
	MaxVolume = 100

	// DefaultVolume is applied when a session is created without an
	// explicit level.
	DefaultVolume = 50
)

// GenerateID creates a new unique session identifier.
func GenerateID() string {
	return uuid.New().String()
}
