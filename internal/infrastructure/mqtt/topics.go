package mqtt

import "fmt"

// Topic prefixes per the Gray Logic MQTT specification.
//
// The Pico bridge participates in the flat bridge scheme:
// graylogic/{category}/{protocol_or_domain}/{address_or_id}
const (
	// TopicPrefix is the base for all Gray Logic topics.
	TopicPrefix = "graylogic"

	// protocolName identifies this bridge in the topic hierarchy.
	protocolName = "pico"
)

// Topics provides builders for the Pico bridge's MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	cmdTopic := topics.DeviceCommand("light", "light.hall")
//	// Returns: "graylogic/command/light/light.hall"
type Topics struct{}

// PicoEvent returns the topic carrying normalized button events for one
// remote.
//
// Example: graylogic/event/pico/pico-hall
func (Topics) PicoEvent(deviceID string) string {
	return fmt.Sprintf("%s/event/%s/%s", TopicPrefix, protocolName, deviceID)
}

// AllPicoEvents returns the wildcard subscription for button events from
// every remote.
//
// Example: graylogic/event/pico/+
func (Topics) AllPicoEvents() string {
	return fmt.Sprintf("%s/event/%s/+", TopicPrefix, protocolName)
}

// DeviceCommand returns the topic for commands to a target entity.
//
// Example: graylogic/command/cover/cover.landing
func (Topics) DeviceCommand(domain, entityID string) string {
	return fmt.Sprintf("%s/command/%s/%s", TopicPrefix, domain, entityID)
}

// DeviceState returns the topic for retained entity state.
//
// Example: graylogic/state/light/light.hall
func (Topics) DeviceState(domain, entityID string) string {
	return fmt.Sprintf("%s/state/%s/%s", TopicPrefix, domain, entityID)
}

// AllDeviceStates returns the wildcard subscription for state updates from
// every entity.
//
// Example: graylogic/state/+/+
func (Topics) AllDeviceStates() string {
	return fmt.Sprintf("%s/state/+/+", TopicPrefix)
}

// BridgeHealth returns the topic for this bridge's health status.
// Also used as the Last Will topic so subscribers see an offline status
// on unexpected disconnect.
//
// Example: graylogic/health/pico
func (Topics) BridgeHealth() string {
	return fmt.Sprintf("%s/health/%s", TopicPrefix, protocolName)
}
