package actions

import (
	"math"

	"github.com/nerrad567/gray-logic-pico/internal/command"
	"github.com/nerrad567/gray-logic-pico/internal/gesture"
)

const domainFan = "fan"

// FanHandler drives fans with discrete speed steps.
//
// Speeds form an evenly spaced ladder from 0 to 100 percent. Raise and
// Lower are immediate-tap gestures: each tap or ramp iteration moves one
// rung toward the nearest end, never past it. Stop reverses the blade
// direction when the fan reports one.
type FanHandler struct {
	p      Params
	ladder []int
	raise  *gesture.Engine
	lower  *gesture.Engine
}

// NewFanHandler creates a fan handler. A speed count below two falls
// back to a simple on/off ladder.
func NewFanHandler(p Params) *FanHandler {
	speeds := p.Tuning.FanSpeedCount
	if speeds < 2 {
		speeds = 2
	}

	h := &FanHandler{
		p:      p,
		ladder: buildSpeedLadder(speeds),
	}

	h.raise = h.newStepEngine(1)
	h.lower = h.newStepEngine(-1)
	return h
}

func (h *FanHandler) newStepEngine(direction int) *gesture.Engine {
	return gesture.New(gesture.Config{
		HoldTime: h.p.Tuning.HoldTime,
		StepTime: h.p.Tuning.StepTime,
		Policy:   gesture.PolicyImmediateTap,
		Hold:     gesture.HoldRepeat,
		Hooks: gesture.Hooks{
			Tap:  func() { h.stepLadder(direction) },
			Step: func() { h.stepLadder(direction) },
		},
	})
}

// PressOn sets the fan to the configured on-percent.
func (h *FanHandler) PressOn() {
	h.send("set_percentage", map[string]any{
		"percentage": h.p.Tuning.FanOnPercent,
	})
}

// PressOff turns the fan off.
func (h *FanHandler) PressOff() {
	h.send("turn_off", nil)
}

// PressStop reverses the blade direction. Fans that report no direction
// are left alone.
func (h *FanHandler) PressStop() {
	_, attrs, ok := h.p.States.GetState(h.p.primaryEntity())
	if !ok {
		return
	}
	current, _ := attrs["direction"].(string)
	switch current {
	case "forward":
		h.send("set_direction", map[string]any{"direction": "reverse"})
	case "reverse":
		h.send("set_direction", map[string]any{"direction": "forward"})
	default:
		h.p.logger().Debug("fan direction reversal skipped, no reported direction",
			"entity_id", h.p.primaryEntity())
	}
}

func (h *FanHandler) PressRaise()   { h.raise.Press() }
func (h *FanHandler) ReleaseRaise() { h.raise.Release() }
func (h *FanHandler) PressLower()   { h.lower.Press() }
func (h *FanHandler) ReleaseLower() { h.lower.Release() }

func (h *FanHandler) ReleaseOn()   {}
func (h *FanHandler) ReleaseOff()  {}
func (h *FanHandler) ReleaseStop() {}

// Reset cancels in-flight raise/lower gestures without commands.
func (h *FanHandler) Reset() {
	h.raise.Reset()
	h.lower.Reset()
}

// stepLadder moves one rung along the speed ladder. Stepping past an
// end emits nothing.
func (h *FanHandler) stepLadder(direction int) {
	current, ok := h.currentPercentage()
	if !ok {
		return
	}

	idx := nearestIndex(h.ladder, current)
	newIdx := clampInt(idx+direction, 0, len(h.ladder)-1)
	if newIdx == idx {
		return
	}

	h.send("set_percentage", map[string]any{
		"percentage": h.ladder[newIdx],
	})
}

// currentPercentage resolves the fan's speed for step arithmetic. A fan
// reporting no percentage counts as 0 when off and as the configured
// on-percent otherwise; an entity with no state at all cannot step.
func (h *FanHandler) currentPercentage() (float64, bool) {
	state, attrs, ok := h.p.States.GetState(h.p.primaryEntity())
	if !ok {
		return 0, false
	}

	if pct, ok := numericAttr(attrs, "percentage"); ok {
		return pct, true
	}
	if state == "off" {
		return 0, true
	}
	return float64(h.p.Tuning.FanOnPercent), true
}

func (h *FanHandler) send(service string, params map[string]any) {
	h.p.Sink.Send(command.Command{
		Domain:   domainFan,
		Service:  service,
		Params:   params,
		Entities: h.p.Entities,
	})
}

// buildSpeedLadder computes n evenly spaced percentages from 0 to 100
// inclusive. Four speeds give {0, 33, 67, 100}.
func buildSpeedLadder(n int) []int {
	ladder := make([]int, n)
	for i := range ladder {
		ladder[i] = int(math.Round(float64(i) * 100 / float64(n-1)))
	}
	return ladder
}

// nearestIndex returns the index of the ladder value closest to pct,
// preferring the lower index on ties.
func nearestIndex(ladder []int, pct float64) int {
	best := 0
	bestDiff := math.Abs(float64(ladder[0]) - pct)
	for i := 1; i < len(ladder); i++ {
		diff := math.Abs(float64(ladder[i]) - pct)
		if diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}
	return best
}
