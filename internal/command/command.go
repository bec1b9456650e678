package command

// Command is a single device instruction: a service call against a target
// entity list within one domain.
//
// Commands are constructed fresh per call and never reused or mutated
// after creation.
type Command struct {
	// Domain is the device category the service belongs to
	// (cover, fan, light, media_player, switch).
	Domain string

	// Service is the operation name (e.g. "turn_on", "set_cover_position").
	Service string

	// Params contains service-specific values
	// (e.g. {"brightness_pct": 40}).
	Params map[string]any

	// Entities are the target entity IDs the command applies to.
	Entities []string

	// Tolerate downgrades delivery failures from error to debug logging.
	// Used for auxiliary commands paired with a primary effect (e.g. the
	// unmute sent alongside a media player power-on) so a secondary
	// failure is never treated as a fault of the primary.
	Tolerate bool
}

// Sink accepts commands for asynchronous, best-effort delivery.
//
// Implementations must not block the caller on delivery: gesture timing
// depends on Send returning promptly even when the transport is slow or
// down. Callers never receive a delivery result.
type Sink interface {
	Send(cmd Command)
}

// Logger is the minimal logging interface used by this package.
type Logger interface {
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Error(string, ...any) {}
