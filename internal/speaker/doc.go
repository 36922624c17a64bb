// Package speaker manages the registry of networked audio endpoints.
//
// A Speaker is a physical device (horn speaker, ceiling speaker, sound
// projector) reachable at a network address. The registry persists speakers
// in SQLite, merges vendor discovery results without ever removing records,
// and pushes volume changes to the remote control service on a best-effort
// basis.
//
// # Discovery Semantics
//
// Discovery is additive-only. Targets reported by the vendor API are
// deduplicated against existing speakers by IP address; unknown targets are
// registered, known ones are left untouched. Speakers that stop appearing in
// discovery results are never deleted.
//
// # Volume Semantics
//
// SetVolume validates the 0-100 range, persists the new level, then attempts
// the remote push. A remote failure does not roll back the stored volume; the
// stored value is the intent, the push is best-effort.
package speaker
