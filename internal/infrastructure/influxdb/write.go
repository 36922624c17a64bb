package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteSessionTransition records a session lifecycle transition.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - sessionID: Session identifier
//   - zoneID: Zone the session plays into
//   - status: New session status (preparing, playing, paused, stopped, error)
//   - position: Playback position in seconds at transition time
//
// Example:
//
//	client.WriteSessionTransition("sess-01", "zone-lobby", "playing", 0)
func (c *Client) WriteSessionTransition(sessionID, zoneID, status string, position int) {
	c.WritePoint(
		"session_transition",
		map[string]string{
			"session_id": sessionID,
			"zone_id":    zoneID,
			"status":     status,
		},
		map[string]interface{}{
			"position": position,
		},
	)
}

// WriteSpeakerVolume records a speaker volume change.
//
// Parameters:
//   - speakerID: Speaker identifier
//   - volume: New volume level (0-100)
func (c *Client) WriteSpeakerVolume(speakerID string, volume int) {
	c.WritePoint(
		"speaker_volume",
		map[string]string{
			"speaker_id": speakerID,
		},
		map[string]interface{}{
			"volume": volume,
		},
	)
}

// WriteVendorCall records the outcome of a vendor control API call.
//
// Synthesized results are fallback data the adapter produced after a remote
// failure; this measurement is where callers that need to distinguish real
// from synthesized outcomes look.
//
// Parameters:
//   - operation: Vendor operation name (e.g., "discover", "start_session")
//   - synthesized: Whether the result was synthesized rather than remote
//   - duration: How long the remote call took
func (c *Client) WriteVendorCall(operation string, synthesized bool, duration time.Duration) {
	synthField := 0
	if synthesized {
		synthField = 1
	}

	c.WritePoint(
		"vendor_call",
		map[string]string{
			"operation": operation,
		},
		map[string]interface{}{
			"synthesized": synthField,
			"duration_ms": duration.Milliseconds(),
		},
	)
}

// WritePoint writes a point with full control over tags and fields.
// The typed Write* helpers above all funnel through here.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	c.WritePointWithTime(measurement, tags, fields, time.Now())
}

// WritePointWithTime writes a point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
