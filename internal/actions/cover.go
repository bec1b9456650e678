package actions

import (
	"github.com/nerrad567/gray-logic-pico/internal/command"
	"github.com/nerrad567/gray-logic-pico/internal/gesture"
)

const domainCover = "cover"

// CoverHandler drives position-capable covers.
//
// On opens to the configured position, Off closes fully, and both turn
// into a stop when the cover is already moving so a second tap halts it.
// Raise and Lower are deferred-tap gestures: a tap nudges the position
// by the configured step, a hold opens or closes continuously, and
// release always stops movement.
type CoverHandler struct {
	p     Params
	raise *gesture.Engine
	lower *gesture.Engine
}

// NewCoverHandler creates a cover handler and its raise/lower gesture
// engines.
func NewCoverHandler(p Params) *CoverHandler {
	h := &CoverHandler{p: p}

	h.raise = gesture.New(gesture.Config{
		HoldTime: p.Tuning.HoldTime,
		StepTime: p.Tuning.StepTime,
		Policy:   gesture.PolicyDeferredTap,
		Hold:     gesture.HoldContinuous,
		Hooks: gesture.Hooks{
			Tap:       func() { h.stepPosition(1) },
			HoldStart: func() { h.send("open_cover", nil) },
			Stop:      func() { h.stop() },
		},
	})
	h.lower = gesture.New(gesture.Config{
		HoldTime: p.Tuning.HoldTime,
		StepTime: p.Tuning.StepTime,
		Policy:   gesture.PolicyDeferredTap,
		Hold:     gesture.HoldContinuous,
		Hooks: gesture.Hooks{
			Tap:       func() { h.stepPosition(-1) },
			HoldStart: func() { h.send("close_cover", nil) },
			Stop:      func() { h.stop() },
		},
	})

	return h
}

// PressOn stops a moving cover, otherwise opens to the configured
// position. Full open position uses the plain open command so covers
// without position support still work.
func (h *CoverHandler) PressOn() {
	if h.isMoving() {
		h.stop()
		return
	}
	if h.p.Tuning.CoverOpenPosition >= 100 {
		h.send("open_cover", nil)
		return
	}
	h.send("set_cover_position", map[string]any{
		"position": h.p.Tuning.CoverOpenPosition,
	})
}

// PressOff stops a moving cover, otherwise closes it fully.
func (h *CoverHandler) PressOff() {
	if h.isMoving() {
		h.stop()
		return
	}
	h.send("close_cover", nil)
}

// PressStop runs the configured middle-button list, falling back to a
// stop command.
func (h *CoverHandler) PressStop() {
	if len(h.p.MiddleButton) > 0 && h.p.Runner != nil {
		h.p.Runner.Execute(h.p.MiddleButton)
		return
	}
	h.stop()
}

func (h *CoverHandler) PressRaise()   { h.raise.Press() }
func (h *CoverHandler) ReleaseRaise() { h.raise.Release() }
func (h *CoverHandler) PressLower()   { h.lower.Press() }
func (h *CoverHandler) ReleaseLower() { h.lower.Release() }

func (h *CoverHandler) ReleaseOn()   {}
func (h *CoverHandler) ReleaseOff()  {}
func (h *CoverHandler) ReleaseStop() {}

// Reset cancels in-flight raise/lower gestures without commands.
func (h *CoverHandler) Reset() {
	h.raise.Reset()
	h.lower.Reset()
}

// isMoving reports whether the cover's reported state is a movement
// state. Unknown entities are treated as not moving.
func (h *CoverHandler) isMoving() bool {
	state, _, ok := h.p.States.GetState(h.p.primaryEntity())
	if !ok {
		return false
	}
	return state == "opening" || state == "closing"
}

// stepPosition nudges the position by one configured step, clamped to
// the 0 to 100 range. Without a reported position the tap degrades to
// the release-time stop alone.
func (h *CoverHandler) stepPosition(direction int) {
	_, attrs, ok := h.p.States.GetState(h.p.primaryEntity())
	if !ok {
		h.p.logger().Debug("cover step skipped, entity state unknown",
			"entity_id", h.p.primaryEntity())
		return
	}
	pos, ok := numericAttr(attrs, "current_position")
	if !ok {
		h.p.logger().Debug("cover step skipped, no reported position",
			"entity_id", h.p.primaryEntity())
		return
	}

	newPos := clampInt(int(pos)+direction*h.p.Tuning.CoverStepPercent, 0, 100)
	h.send("set_cover_position", map[string]any{"position": newPos})
}

func (h *CoverHandler) stop() {
	h.send("stop_cover", nil)
}

func (h *CoverHandler) send(service string, params map[string]any) {
	h.p.Sink.Send(command.Command{
		Domain:   domainCover,
		Service:  service,
		Params:   params,
		Entities: h.p.Entities,
	})
}
