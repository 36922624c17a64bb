package source

import (
	"time"

	"github.com/google/uuid"
)

// AudioSource describes playable content.
// This matches the audio_sources table created by the initial schema
// migration.
type AudioSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type Type   `json:"type"`

	// URL is set for streaming and radio sources, FilePath for local
	// files. The split is advisory; neither is enforced against Type.
	URL      *string `json:"url,omitempty"`
	FilePath *string `json:"file_path,omitempty"`

	// Metadata holds free-form descriptive fields (artist, station,
	// codec). Stored as a JSON object.
	Metadata map[string]any `json:"metadata"`

	// Duration in seconds, when known.
	Duration *int `json:"duration,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Type identifies the kind of audio source.
type Type string

// Source type constants.
const (
	TypeLocalFile  Type = "local_file"
	TypeStreaming  Type = "streaming"
	TypeRadio      Type = "radio"
	TypeMicrophone Type = "microphone"
)

// AllTypes returns all valid source types.
func AllTypes() []Type {
	return []Type{TypeLocalFile, TypeStreaming, TypeRadio, TypeMicrophone}
}

// IsValid reports whether t is a known source type.
func (t Type) IsValid() bool {
	switch t {
	case TypeLocalFile, TypeStreaming, TypeRadio, TypeMicrophone:
		return true
	}
	return false
}

// GenerateID creates a new unique source identifier.
func GenerateID() string {
	return uuid.New().String()
}
