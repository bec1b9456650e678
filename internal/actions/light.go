package actions

import (
	"math"

	"github.com/nerrad567/gray-logic-pico/internal/command"
	"github.com/nerrad567/gray-logic-pico/internal/gesture"
)

const domainLight = "light"

// LightHandler drives dimmable lights. It is the richest handler
// because the paddle hardware variant makes On and Off themselves
// tap-vs-hold gestures: a tap switches the light, a hold ramps
// brightness up or down. Other variants keep On/Off as plain taps and
// put the ramp on dedicated Raise/Lower buttons.
//
// Brightness stepping never drives the light to zero: lowering clamps
// at the configured low bound so a held Lower dims to a floor instead
// of switching off.
type LightHandler struct {
	p Params

	raise *gesture.Engine
	lower *gesture.Engine

	// onEngine/offEngine are only consulted in gesture mode.
	onOffGesture bool
	onEngine     *gesture.Engine
	offEngine    *gesture.Engine
}

// NewLightHandler creates a light handler. On/Off default to plain
// taps; call SetOnOffGesture before first use to enable the paddle
// tap-vs-hold behaviour.
func NewLightHandler(p Params) *LightHandler {
	h := &LightHandler{p: p}

	h.raise = h.newRampEngine(gesture.PolicyImmediateTap, 1, nil)
	h.lower = h.newRampEngine(gesture.PolicyImmediateTap, -1, nil)

	// Deferred so a short press switches the light and only a hold
	// starts the brightness ramp.
	h.onEngine = h.newRampEngine(gesture.PolicyDeferredTap, 1, h.turnOn)
	h.offEngine = h.newRampEngine(gesture.PolicyDeferredTap, -1, h.turnOff)

	return h
}

// newRampEngine builds a brightness-stepping engine. A non-nil tap
// override replaces the step-at-tap behaviour of the immediate policy.
func (h *LightHandler) newRampEngine(policy gesture.Policy, direction int, tap func()) *gesture.Engine {
	if tap == nil {
		tap = func() { h.stepBrightness(direction) }
	}
	return gesture.New(gesture.Config{
		HoldTime: h.p.Tuning.HoldTime,
		StepTime: h.p.Tuning.StepTime,
		Policy:   policy,
		Hold:     gesture.HoldRepeat,
		Hooks: gesture.Hooks{
			Tap:  tap,
			Step: func() { h.stepBrightness(direction) },
		},
	})
}

// SetOnOffGesture selects whether On/Off are tap-vs-hold gestures
// (paddle hardware) or plain taps. Selected once at profile bind time.
func (h *LightHandler) SetOnOffGesture(enabled bool) {
	h.onOffGesture = enabled
}

func (h *LightHandler) PressOn() {
	if h.onOffGesture {
		h.onEngine.Press()
		return
	}
	h.turnOn()
}

func (h *LightHandler) ReleaseOn() {
	if h.onOffGesture {
		h.onEngine.Release()
	}
}

func (h *LightHandler) PressOff() {
	if h.onOffGesture {
		h.offEngine.Press()
		return
	}
	h.turnOff()
}

func (h *LightHandler) ReleaseOff() {
	if h.onOffGesture {
		h.offEngine.Release()
	}
}

// PressStop runs the configured middle-button list. Lights have no
// native stop; without a list this is a no-op, since the only thing to
// stop is an in-progress ramp and release cancellation already does
// that.
func (h *LightHandler) PressStop() {
	if len(h.p.MiddleButton) > 0 && h.p.Runner != nil {
		h.p.Runner.Execute(h.p.MiddleButton)
		return
	}
	h.p.logger().Debug("light stop ignored, no middle-button commands configured")
}

func (h *LightHandler) PressRaise()   { h.raise.Press() }
func (h *LightHandler) ReleaseRaise() { h.raise.Release() }
func (h *LightHandler) PressLower()   { h.lower.Press() }
func (h *LightHandler) ReleaseLower() { h.lower.Release() }

func (h *LightHandler) ReleaseStop() {}

// Reset cancels all in-flight gestures without commands.
func (h *LightHandler) Reset() {
	h.raise.Reset()
	h.lower.Reset()
	h.onEngine.Reset()
	h.offEngine.Reset()
}

func (h *LightHandler) turnOn() {
	pct := h.p.Tuning.LightOnPercent
	if pct <= 0 {
		pct = 100
	}
	h.send("turn_on", map[string]any{"brightness_pct": pct})
}

func (h *LightHandler) turnOff() {
	h.send("turn_off", nil)
}

// stepBrightness converts the reported raw brightness (0 to 255) to a
// percentage, applies one signed step, and clamps: lowering stops at
// the low bound, raising at 100. An unreported brightness steps up
// from zero.
func (h *LightHandler) stepBrightness(direction int) {
	_, attrs, ok := h.p.States.GetState(h.p.primaryEntity())
	if !ok {
		h.p.logger().Debug("brightness step skipped, entity state unknown",
			"entity_id", h.p.primaryEntity())
		return
	}

	currentPct := 0
	if raw, ok := numericAttr(attrs, "brightness"); ok {
		currentPct = int(math.Round(raw / 255 * 100))
	}

	step := h.p.Tuning.LightStepPercent
	if step <= 0 {
		step = 10
	}
	newPct := currentPct + step*direction

	if direction < 0 {
		low := h.p.Tuning.LightLowBoundPercent
		if low <= 0 {
			low = 1
		}
		if newPct < low {
			newPct = low
		}
	}
	if newPct > 100 {
		newPct = 100
	}

	h.send("turn_on", map[string]any{"brightness_pct": newPct})
}

func (h *LightHandler) send(service string, params map[string]any) {
	h.p.Sink.Send(command.Command{
		Domain:   domainLight,
		Service:  service,
		Params:   params,
		Entities: h.p.Entities,
	})
}
