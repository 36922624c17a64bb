// Package zone groups speakers into named playback zones.
//
// Zones hold the member speaker list, a zone-level volume and mute flag,
// and a reference to the currently active playback session. Updates are
// partial: only the fields present in an update request change, omitted
// fields keep their prior value. Deleting a zone never cascades to any
// session that still references it.
//
// Zone creation deliberately does not validate that member speaker IDs
// exist; callers may stage zones ahead of discovery.
package zone
