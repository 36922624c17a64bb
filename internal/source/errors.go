package source

import "errors"

// Domain errors for the source package, checked with errors.Is().
var (
	// ErrSourceNotFound is returned when a source ID does not exist.
	ErrSourceNotFound = errors.New("source: not found")

	// ErrInvalidName is returned when a source name is empty.
	ErrInvalidName = errors.New("source: invalid name")

	// ErrInvalidType is returned when a source type is not one of the
	// known values.
	ErrInvalidType = errors.New("source: invalid type")
)
