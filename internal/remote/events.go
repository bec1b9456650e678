package remote

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ButtonEvent is the normalized button event published per remote on
// graylogic/event/pico/{device_id}.
type ButtonEvent struct {
	// DeviceID identifies the remote the event came from.
	DeviceID string `json:"device_id"`

	// Type is the hardware variant string, e.g. "Pico3ButtonRaiseLower".
	// Only the first event for a device needs it; later events may omit
	// it.
	Type string `json:"type,omitempty"`

	// Button is the logical button name: on, off, stop, raise, lower.
	Button string `json:"button"`

	// Action is "press" or "release".
	Action string `json:"action"`
}

// ParseButtonEvent decodes and normalizes one event payload. Button and
// action are lowercased; an event without a device ID, button, or valid
// action is rejected.
func ParseButtonEvent(payload []byte) (ButtonEvent, error) {
	var ev ButtonEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return ButtonEvent{}, fmt.Errorf("parsing button event: %w", err)
	}

	ev.Button = strings.ToLower(ev.Button)
	ev.Action = strings.ToLower(ev.Action)

	if ev.DeviceID == "" {
		return ButtonEvent{}, fmt.Errorf("%w: missing device_id", ErrMalformedEvent)
	}
	if ev.Button == "" {
		return ButtonEvent{}, fmt.Errorf("%w: missing button", ErrMalformedEvent)
	}
	if ev.Action != "press" && ev.Action != "release" {
		return ButtonEvent{}, fmt.Errorf("%w: action %q", ErrMalformedEvent, ev.Action)
	}

	return ev, nil
}
