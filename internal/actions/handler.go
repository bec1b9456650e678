package actions

import (
	"time"

	"github.com/nerrad567/gray-logic-pico/internal/command"
)

// Button is one of the five logical buttons every profile maps onto.
type Button string

const (
	ButtonOn    Button = "on"
	ButtonOff   Button = "off"
	ButtonStop  Button = "stop"
	ButtonRaise Button = "raise"
	ButtonLower Button = "lower"
)

// Phase is the press or release half of a button event.
type Phase string

const (
	PhasePress   Phase = "press"
	PhaseRelease Phase = "release"
)

// Handler is the uniform contract every device category implements.
//
// The discrete per-button methods keep each button's gesture state
// isolated: a held Raise and a tapped Lower never share bookkeeping.
// Categories without a behaviour for a button implement it as a no-op.
type Handler interface {
	PressOn()
	ReleaseOn()
	PressOff()
	ReleaseOff()
	PressStop()
	ReleaseStop()
	PressRaise()
	ReleaseRaise()
	PressLower()
	ReleaseLower()

	// Reset cancels all in-flight gestures without sending commands.
	Reset()
}

// Sink accepts commands for asynchronous best-effort delivery.
type Sink interface {
	Send(cmd command.Command)
}

// StateSource answers point-in-time entity state queries. A false ok
// means the entity has never reported and the caller should treat its
// state as unknown.
type StateSource interface {
	GetState(entityID string) (state string, attrs map[string]any, ok bool)
}

// ListRunner executes a configured command list sequentially, skipping
// malformed items.
type ListRunner interface {
	Execute(items []map[string]any)
}

// Logger is the minimal logging interface the handlers need.
type Logger interface {
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Error(string, ...any) {}

// Tuning carries the numeric behaviour parameters shared by the
// handlers. All percentages are 0 to 100.
type Tuning struct {
	// HoldTime is the tap/hold boundary.
	HoldTime time.Duration

	// StepTime is the ramp cadence while a button is held.
	StepTime time.Duration

	// CoverOpenPosition is the target position for a cover On tap.
	// 100 means a plain open command instead of a position set.
	CoverOpenPosition int

	// CoverStepPercent is the position change per cover Raise/Lower tap.
	CoverStepPercent int

	// FanOnPercent is the speed a fan On tap sets, and the assumed
	// current speed when a running fan reports no percentage.
	FanOnPercent int

	// FanSpeedCount is the number of rungs on the fan's speed ladder,
	// including off.
	FanSpeedCount int

	// LightOnPercent is the brightness a light On tap sets.
	LightOnPercent int

	// LightStepPercent is the brightness change per Raise/Lower step.
	LightStepPercent int

	// LightLowBoundPercent is the floor for brightness lowering, so a
	// ramp down dims the light without ever extinguishing it.
	LightLowBoundPercent int

	// MediaVolumeStepPercent is the volume change per step, in percent
	// of full scale.
	MediaVolumeStepPercent int
}

// Params bundles the collaborators a handler is constructed with.
type Params struct {
	// Entities are the target entity IDs. State queries use the first
	// entity; commands fan out to all of them.
	Entities []string

	Sink   Sink
	States StateSource
	Tuning Tuning

	// MiddleButton is the optional configured command list that replaces
	// the category's default Stop behaviour.
	MiddleButton []map[string]any

	// Runner executes MiddleButton. May be nil when MiddleButton is
	// empty.
	Runner ListRunner

	Logger Logger
}

// primaryEntity returns the entity whose reported state drives
// step arithmetic.
func (p Params) primaryEntity() string {
	if len(p.Entities) == 0 {
		return ""
	}
	return p.Entities[0]
}

func (p Params) logger() Logger {
	if p.Logger == nil {
		return noopLogger{}
	}
	return p.Logger
}

// numericAttr reads an attribute as a float. State payloads decoded
// from JSON carry float64; config-sourced values may be ints.
func numericAttr(attrs map[string]any, key string) (float64, bool) {
	switch v := attrs[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
