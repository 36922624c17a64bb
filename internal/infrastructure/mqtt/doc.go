// Package mqtt provides MQTT client connectivity for SoundGrid Core.
//
// This package manages:
//   - Connection to Mosquitto broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// SoundGrid uses MQTT as an outbound event bus. The Core publishes session
// lifecycle transitions, speaker volume changes, and discovery results so
// wall panels and automations can follow playback state without polling the
// REST API.
//
//	SoundGrid Core → MQTT Broker → Panels / Automations
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Publish latency: <10ms for QoS 1 to local broker
//   - Reconnect: Exponential backoff 1s-60s with jitter
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to all session transitions
//	err = client.Subscribe(mqtt.Topics{}.AllSessionEvents(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	// Publish an event
//	topic := mqtt.Topics{}.SessionEvent("sess-abc123")
//	client.Publish(topic, []byte(`{"status":"playing"}`), 1, false)
package mqtt
