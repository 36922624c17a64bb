package session

import "errors"

// Domain errors for the session package, checked with errors.Is().
var (
	// ErrSessionNotFound is returned when a session ID does not exist.
	ErrSessionNotFound = errors.New("session: not found")

	// ErrInvalidName is returned when a session name is empty.
	ErrInvalidName = errors.New("session: invalid name")

	// ErrInvalidVolume is returned when a session volume is outside 0-100.
	ErrInvalidVolume = errors.New("session: volume out of range")
)
