package mqtt

import "fmt"

// Topic prefixes for the SoundGrid event bus.
//
// Events use the flat scheme: soundgrid/event/{entity}/{id}[/{aspect}]
// so wall panels and automations can follow playback state without polling.
const (
	// TopicPrefixEvent is the base for all domain event topics.
	TopicPrefixEvent = "soundgrid/event"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "soundgrid/system"
)

// Topics provides builders for SoundGrid MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	topic := topics.SessionEvent("sess-abc123")
//	// Returns: "soundgrid/event/session/sess-abc123"
type Topics struct{}

// SessionEvent returns the topic for session lifecycle transitions.
//
// Example: soundgrid/event/session/sess-abc123
func (Topics) SessionEvent(sessionID string) string {
	return fmt.Sprintf("%s/session/%s", TopicPrefixEvent, sessionID)
}

// SpeakerVolume returns the topic for speaker volume changes.
//
// Example: soundgrid/event/speaker/spk-kitchen/volume
func (Topics) SpeakerVolume(speakerID string) string {
	return fmt.Sprintf("%s/speaker/%s/volume", TopicPrefixEvent, speakerID)
}

// Discovery returns the topic for discovery merge results.
//
// Example: soundgrid/event/discovery
func (Topics) Discovery() string {
	return fmt.Sprintf("%s/discovery", TopicPrefixEvent)
}

// SystemStatus returns the system status topic.
// Published retained; the LWT posts the offline payload here on crash.
//
// Example: soundgrid/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllSessionEvents returns a pattern matching all session transitions.
//
// Pattern: soundgrid/event/session/+
func (Topics) AllSessionEvents() string {
	return fmt.Sprintf("%s/session/+", TopicPrefixEvent)
}

// AllSpeakerVolumes returns a pattern matching all speaker volume events.
//
// Pattern: soundgrid/event/speaker/+/volume
func (Topics) AllSpeakerVolumes() string {
	return fmt.Sprintf("%s/speaker/+/volume", TopicPrefixEvent)
}

// AllTopics returns a pattern matching all SoundGrid topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: soundgrid/#
func (Topics) AllTopics() string {
	return "soundgrid/#"
}
