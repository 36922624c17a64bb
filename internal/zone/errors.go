package zone

import "errors"

// Domain errors for the zone package, checked with errors.Is().
var (
	// ErrZoneNotFound is returned when a zone ID does not exist.
	ErrZoneNotFound = errors.New("zone: not found")

	// ErrInvalidName is returned when a zone name is empty.
	ErrInvalidName = errors.New("zone: invalid name")

	// ErrInvalidVolume is returned when a zone volume is outside 0-100.
	ErrInvalidVolume = errors.New("zone: volume out of range")
)
