package actions

import (
	"github.com/nerrad567/gray-logic-pico/internal/command"
	"github.com/nerrad567/gray-logic-pico/internal/gesture"
)

const domainMediaPlayer = "media_player"

// MediaPlayerHandler drives media players as volume endpoints.
//
// On powers up and unmutes; Off powers down and mutes. The mute calls
// are auxiliary: not every player supports them, so their failures are
// tolerated and never abort the paired power call. Raise and Lower are
// immediate-tap volume steps computed in percent space and sent as the
// 0.0 to 1.0 fraction the device expects.
type MediaPlayerHandler struct {
	p     Params
	raise *gesture.Engine
	lower *gesture.Engine
}

// NewMediaPlayerHandler creates a media player handler.
func NewMediaPlayerHandler(p Params) *MediaPlayerHandler {
	h := &MediaPlayerHandler{p: p}
	h.raise = h.newStepEngine(1)
	h.lower = h.newStepEngine(-1)
	return h
}

func (h *MediaPlayerHandler) newStepEngine(direction int) *gesture.Engine {
	return gesture.New(gesture.Config{
		HoldTime: h.p.Tuning.HoldTime,
		StepTime: h.p.Tuning.StepTime,
		Policy:   gesture.PolicyImmediateTap,
		Hold:     gesture.HoldRepeat,
		Hooks: gesture.Hooks{
			Tap:  func() { h.stepVolume(direction) },
			Step: func() { h.stepVolume(direction) },
		},
	})
}

// PressOn powers the player on, then unmutes best-effort.
func (h *MediaPlayerHandler) PressOn() {
	h.send("turn_on", nil, false)
	h.send("volume_mute", map[string]any{"is_volume_muted": false}, true)
}

// PressOff powers the player off, then mutes best-effort.
func (h *MediaPlayerHandler) PressOff() {
	h.send("turn_off", nil, false)
	h.send("volume_mute", map[string]any{"is_volume_muted": true}, true)
}

// PressStop is a no-op. Stopping playback is not a Pico concept here.
func (h *MediaPlayerHandler) PressStop() {
	h.p.logger().Debug("media player stop ignored")
}

func (h *MediaPlayerHandler) PressRaise()   { h.raise.Press() }
func (h *MediaPlayerHandler) ReleaseRaise() { h.raise.Release() }
func (h *MediaPlayerHandler) PressLower()   { h.lower.Press() }
func (h *MediaPlayerHandler) ReleaseLower() { h.lower.Release() }

func (h *MediaPlayerHandler) ReleaseOn()   {}
func (h *MediaPlayerHandler) ReleaseOff()  {}
func (h *MediaPlayerHandler) ReleaseStop() {}

// Reset cancels in-flight raise/lower gestures without commands.
func (h *MediaPlayerHandler) Reset() {
	h.raise.Reset()
	h.lower.Reset()
}

// stepVolume applies one signed step in percent space, clamped to the
// 0 to 100 range, and sends the result as a volume fraction.
func (h *MediaPlayerHandler) stepVolume(direction int) {
	vol, ok := h.currentVolume()
	if !ok {
		return
	}

	step := float64(h.p.Tuning.MediaVolumeStepPercent)
	newPct := clampFloat(vol*100+step*float64(direction), 0, 100)

	h.send("volume_set", map[string]any{"volume_level": newPct / 100}, false)
}

// currentVolume returns the reported volume fraction clamped to its
// valid range. A player with state but no reported volume counts as
// silent; an entity with no state at all cannot step.
func (h *MediaPlayerHandler) currentVolume() (float64, bool) {
	_, attrs, ok := h.p.States.GetState(h.p.primaryEntity())
	if !ok {
		return 0, false
	}
	vol, _ := numericAttr(attrs, "volume_level")
	return clampFloat(vol, 0, 1), true
}

func (h *MediaPlayerHandler) send(service string, params map[string]any, tolerate bool) {
	h.p.Sink.Send(command.Command{
		Domain:   domainMediaPlayer,
		Service:  service,
		Params:   params,
		Entities: h.p.Entities,
		Tolerate: tolerate,
	})
}
