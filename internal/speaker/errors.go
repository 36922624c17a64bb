package speaker

import "errors"

// Domain errors for the speaker package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, speaker.ErrSpeakerNotFound) {
//	    // handle not found case
//	}
var (
	// ErrSpeakerNotFound is returned when a speaker ID does not exist.
	ErrSpeakerNotFound = errors.New("speaker: not found")

	// ErrSpeakerExists is returned when registering a speaker whose network
	// address is already taken.
	ErrSpeakerExists = errors.New("speaker: already exists")

	// ErrInvalidName is returned when a speaker name is empty.
	ErrInvalidName = errors.New("speaker: invalid name")

	// ErrInvalidAddress is returned when a network address is empty.
	ErrInvalidAddress = errors.New("speaker: invalid address")

	// ErrInvalidVolume is returned when a volume level is outside 0-100.
	ErrInvalidVolume = errors.New("speaker: volume out of range")
)
