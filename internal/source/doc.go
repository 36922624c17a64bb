// Package source manages audio source descriptors.
//
// A source describes playable content (a local file, a stream URL, a
// radio station, or a live microphone feed) without holding the content
// itself. Sources are referenced by playback sessions; deleting a
// source does not touch sessions that were started from it.
package source
