// Package mqtt publishes Plant Core change events to an MQTT broker.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// The service never subscribes. Every successful plant mutation made through
// the API is announced on a per-plant topic so that dashboards, irrigation
// controllers and the like can react without polling:
//
//	HTTP API → Client.Publish → Broker → subscribers
//
// MQTT is optional. When it is disabled or the broker is unreachable the API
// keeps serving; publish failures are logged by the caller and dropped.
//
// # Security Considerations
//
//   - Enable TLS (cfg.Broker.TLS=true) when the broker is not on localhost
//   - Credentials come from PLANTCORE_MQTT_USERNAME / PLANTCORE_MQTT_PASSWORD
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	topic := client.Topics().PlantEvent(42, "updated")
//	client.Publish(topic, []byte(`{"event":"updated"}`), 1, false)
package mqtt
