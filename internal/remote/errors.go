package remote

import "errors"

var (
	// ErrMalformedEvent indicates a button event payload that cannot be
	// used (bad JSON, missing fields, unknown action).
	ErrMalformedEvent = errors.New("malformed button event")

	// ErrUnknownHardwareType indicates a hardware type string with no
	// profile mapping.
	ErrUnknownHardwareType = errors.New("unknown hardware type")

	// ErrBindingNotFound indicates no persisted profile binding exists
	// for a device.
	ErrBindingNotFound = errors.New("binding not found")

	// ErrNoEntities indicates a remote configured without any target
	// entity list.
	ErrNoEntities = errors.New("no entities configured")
)
