package command

import "time"

// Message is the wire format published to graylogic/command/{domain}/{entity}.
// One message is published per target entity of a Command.
type Message struct {
	// ID uniquely identifies this command for correlation with acks.
	ID string `json:"id"`

	// Timestamp is when the command was issued (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`

	// EntityID is the target entity.
	EntityID string `json:"entity_id"`

	// Domain is the device category (cover, fan, light, media_player, switch).
	Domain string `json:"domain"`

	// Command is the service name (e.g. "open_cover", "set_percentage").
	Command string `json:"command"`

	// Parameters contains command-specific values.
	Parameters map[string]any `json:"parameters,omitempty"`

	// Source indicates where the command originated. Always "pico" for
	// this bridge.
	Source string `json:"source"`
}
