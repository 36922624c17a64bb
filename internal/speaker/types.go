package speaker

import (
	"time"

	"github.com/google/uuid"
)

// Speaker represents a networked audio endpoint.
// This matches the speakers table created by the initial schema migration.
type Speaker struct {
	// Identity
	ID   string `json:"id"`
	Name string `json:"name"`

	// Network
	IPAddress  string  `json:"ip_address"`
	MACAddress *string `json:"mac_address,omitempty"`

	// Hardware
	Model           string  `json:"model"`
	FirmwareVersion *string `json:"firmware_version,omitempty"`

	// Current state
	Status   Status     `json:"status"`
	Volume   int        `json:"volume"`
	ZoneID   *string    `json:"zone_id,omitempty"`
	LastSeen *time.Time `json:"last_seen,omitempty"`

	// Capabilities are free-form feature labels reported by discovery.
	// Example: ["audio_out", "sip", "announcements"]
	Capabilities []string `json:"capabilities"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Status represents the reachability state of a speaker.
type Status string

// Status constants.
const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
	StatusBusy    Status = "busy"
	StatusError   Status = "error"
)

// AllStatuses returns all valid speaker status values.
func AllStatuses() []Status {
	return []Status{StatusOnline, StatusOffline, StatusBusy, StatusError}
}

// Volume bounds. Levels are integer percent.
const (
	MinVolume = 0
	MaxVolume = 100

	// DefaultVolume is applied when a speaker is registered without an
	// explicit level.
	DefaultVolume = 50
)

// Discovered describes an audio target reported by the vendor discovery
// endpoint, before it is merged into the registry.
type Discovered struct {
	Name         string
	IPAddress    string
	MACAddress   string
	Model        string
	Status       Status
	Capabilities []string
}

// GenerateID creates a new unique speaker identifier.
func GenerateID() string {
	return uuid.New().String()
}
