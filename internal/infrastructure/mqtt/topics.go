package mqtt

import "fmt"

// DefaultTopicPrefix is used when the configuration leaves topic_prefix empty.
const DefaultTopicPrefix = "plantcore"

// Topics builds Plant Core MQTT topics under a common prefix.
//
//	topics := mqtt.Topics{Prefix: "greenhouse"}
//	topics.PlantEvent(7, "deleted")
//	// Returns: "greenhouse/plant/7/deleted"
type Topics struct {
	Prefix string
}

func (t Topics) prefix() string {
	if t.Prefix == "" {
		return DefaultTopicPrefix
	}
	return t.Prefix
}

// PlantEvent returns the topic for a change to one plant.
//
// Example: plantcore/plant/42/updated
func (t Topics) PlantEvent(plantID int64, action string) string {
	return fmt.Sprintf("%s/plant/%d/%s", t.prefix(), plantID, action)
}

// SystemStatus returns the topic for the service's online/offline status.
//
// Example: plantcore/system/status
func (t Topics) SystemStatus() string {
	return t.prefix() + "/system/status"
}
