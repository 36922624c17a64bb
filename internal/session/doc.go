// Package session owns the playback session lifecycle.
//
// A session binds one zone to one audio source and moves through a
// small state machine: preparing, playing, paused, stopped, with error
// reachable only from preparing. Creation validates that the zone and
// source exist, persists the session in preparing, asks the vendor
// adapter to start playback, and advances the record to playing. The
// adapter absorbs remote failures into synthesized results, so error
// status is reserved for orchestration failures, never for vendor
// unavailability.
//
// Control actions map through a fixed table (play, pause, stop) with
// unrecognized actions treated as play. The local state transition is
// applied regardless of the adapter outcome; local state wins.
package session
