package actions

import (
	"math"
	"testing"
)

func newTestMedia(sink *recordingSink, states fakeStates) *MediaPlayerHandler {
	return NewMediaPlayerHandler(Params{
		Entities: []string{"media_player.den"},
		Sink:     sink,
		States:   states,
		Tuning:   testTuning(),
	})
}

func volumeOf(t *testing.T, params map[string]any) float64 {
	t.Helper()
	v, ok := params["volume_level"].(float64)
	if !ok {
		t.Fatalf("volume_level missing or wrong type: %v", params)
	}
	return v
}

func TestMedia_OnPowersAndUnmutes(t *testing.T) {
	sink := &recordingSink{}
	h := newTestMedia(sink, fakeStates{})

	h.PressOn()

	cmds := sink.commands()
	if len(cmds) != 2 {
		t.Fatalf("got %d commands, want 2 (power + unmute)", len(cmds))
	}
	if cmds[0].Service != "turn_on" || cmds[0].Tolerate {
		t.Errorf("power command = %s tolerate=%v, want turn_on tolerate=false",
			cmds[0].Service, cmds[0].Tolerate)
	}
	if cmds[1].Service != "volume_mute" || cmds[1].Params["is_volume_muted"] != false {
		t.Errorf("second command = %s %v, want unmute", cmds[1].Service, cmds[1].Params)
	}
	if !cmds[1].Tolerate {
		t.Error("unmute must be tolerated so its failure never aborts power-on")
	}
}

func TestMedia_OffPowersDownAndMutes(t *testing.T) {
	sink := &recordingSink{}
	h := newTestMedia(sink, fakeStates{})

	h.PressOff()

	cmds := sink.commands()
	if len(cmds) != 2 {
		t.Fatalf("got %d commands, want 2 (power + mute)", len(cmds))
	}
	if cmds[0].Service != "turn_off" {
		t.Errorf("power command = %s, want turn_off", cmds[0].Service)
	}
	if cmds[1].Service != "volume_mute" || cmds[1].Params["is_volume_muted"] != true || !cmds[1].Tolerate {
		t.Errorf("second command = %s %v tolerate=%v, want tolerated mute",
			cmds[1].Service, cmds[1].Params, cmds[1].Tolerate)
	}
}

func TestMedia_RaiseStepsVolume(t *testing.T) {
	sink := &recordingSink{}
	h := newTestMedia(sink, fakeStates{
		"media_player.den": {state: "playing", attrs: map[string]any{"volume_level": 0.4}},
	})

	h.PressRaise()
	h.ReleaseRaise()

	cmd := sink.single(t)
	if cmd.Service != "volume_set" {
		t.Fatalf("service = %s, want volume_set", cmd.Service)
	}
	if got := volumeOf(t, cmd.Params); math.Abs(got-0.45) > 1e-9 {
		t.Errorf("volume_level = %v, want 0.45", got)
	}
}

func TestMedia_VolumeClamps(t *testing.T) {
	sink := &recordingSink{}
	h := newTestMedia(sink, fakeStates{
		"media_player.den": {state: "playing", attrs: map[string]any{"volume_level": 0.98}},
	})
	h.PressRaise()
	h.ReleaseRaise()
	if got := volumeOf(t, sink.single(t).Params); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("raised volume = %v, want clamp at 1.0", got)
	}

	sink = &recordingSink{}
	h = newTestMedia(sink, fakeStates{
		"media_player.den": {state: "playing", attrs: map[string]any{"volume_level": 0.02}},
	})
	h.PressLower()
	h.ReleaseLower()
	if got := volumeOf(t, sink.single(t).Params); math.Abs(got) > 1e-9 {
		t.Errorf("lowered volume = %v, want clamp at 0.0", got)
	}
}

func TestMedia_UnreportedVolumeCountsAsSilent(t *testing.T) {
	sink := &recordingSink{}
	h := newTestMedia(sink, fakeStates{
		"media_player.den": {state: "playing"},
	})

	h.PressRaise()
	h.ReleaseRaise()

	if got := volumeOf(t, sink.single(t).Params); math.Abs(got-0.05) > 1e-9 {
		t.Errorf("volume_level = %v, want 0.05 (one step from silent)", got)
	}
}

func TestMedia_UnknownEntityCannotStep(t *testing.T) {
	sink := &recordingSink{}
	h := newTestMedia(sink, fakeStates{})

	h.PressRaise()
	h.ReleaseRaise()

	if sink.count() != 0 {
		t.Errorf("sent %d commands for unknown entity, want 0", sink.count())
	}
}

func TestMedia_StopIsNoOp(t *testing.T) {
	sink := &recordingSink{}
	h := newTestMedia(sink, fakeStates{})

	h.PressStop()
	h.ReleaseStop()

	if sink.count() != 0 {
		t.Errorf("sent %d commands, want 0", sink.count())
	}
}
