package actions

import (
	"testing"
	"time"
)

func newTestLight(sink *recordingSink, states fakeStates, tune func(*Tuning)) *LightHandler {
	tuning := testTuning()
	if tune != nil {
		tune(&tuning)
	}
	return NewLightHandler(Params{
		Entities: []string{"light.hall"},
		Sink:     sink,
		States:   states,
		Tuning:   tuning,
	})
}

func TestLight_OnIsPlainTapByDefault(t *testing.T) {
	sink := &recordingSink{}
	h := newTestLight(sink, fakeStates{}, nil)

	h.PressOn()
	h.ReleaseOn()

	cmd := sink.single(t)
	if cmd.Service != "turn_on" || cmd.Params["brightness_pct"] != 80 {
		t.Errorf("command = %s %v, want turn_on brightness_pct=80", cmd.Service, cmd.Params)
	}
}

func TestLight_OffIsPlainTapByDefault(t *testing.T) {
	sink := &recordingSink{}
	h := newTestLight(sink, fakeStates{}, nil)

	h.PressOff()
	h.ReleaseOff()

	cmd := sink.single(t)
	if cmd.Service != "turn_off" {
		t.Errorf("service = %s, want turn_off", cmd.Service)
	}
}

func TestLight_RaiseStepsBrightness(t *testing.T) {
	// Raw 128 of 255 rounds to 50%, one step up lands on 60%.
	sink := &recordingSink{}
	h := newTestLight(sink, fakeStates{
		"light.hall": {state: "on", attrs: map[string]any{"brightness": float64(128)}},
	}, nil)

	h.PressRaise()
	h.ReleaseRaise()

	cmd := sink.single(t)
	if cmd.Service != "turn_on" || cmd.Params["brightness_pct"] != 60 {
		t.Errorf("command = %s %v, want turn_on brightness_pct=60", cmd.Service, cmd.Params)
	}
}

func TestLight_LowerClampsAtLowBound(t *testing.T) {
	// Raw 26 rounds to 10%; a 10-point step down would hit 0, but the
	// low bound keeps the light lit at 5%.
	sink := &recordingSink{}
	h := newTestLight(sink, fakeStates{
		"light.hall": {state: "on", attrs: map[string]any{"brightness": float64(26)}},
	}, nil)

	h.PressLower()
	h.ReleaseLower()

	cmd := sink.single(t)
	if cmd.Params["brightness_pct"] != 5 {
		t.Errorf("brightness_pct = %v, want 5 (low bound)", cmd.Params["brightness_pct"])
	}
}

func TestLight_RaiseClampsAtFull(t *testing.T) {
	sink := &recordingSink{}
	h := newTestLight(sink, fakeStates{
		"light.hall": {state: "on", attrs: map[string]any{"brightness": float64(250)}},
	}, nil)

	h.PressRaise()
	h.ReleaseRaise()

	cmd := sink.single(t)
	if cmd.Params["brightness_pct"] != 100 {
		t.Errorf("brightness_pct = %v, want 100", cmd.Params["brightness_pct"])
	}
}

func TestLight_UnreportedBrightnessStepsFromZero(t *testing.T) {
	sink := &recordingSink{}
	h := newTestLight(sink, fakeStates{
		"light.hall": {state: "off"},
	}, nil)

	h.PressRaise()
	h.ReleaseRaise()

	cmd := sink.single(t)
	if cmd.Params["brightness_pct"] != 10 {
		t.Errorf("brightness_pct = %v, want 10 (one step from 0)", cmd.Params["brightness_pct"])
	}
}

func TestLight_StopWithoutListIsNoOp(t *testing.T) {
	sink := &recordingSink{}
	h := newTestLight(sink, fakeStates{}, nil)

	h.PressStop()

	if sink.count() != 0 {
		t.Errorf("sent %d commands, want 0 (lights have no native stop)", sink.count())
	}
}

func TestLight_StopRunsMiddleButtonList(t *testing.T) {
	sink := &recordingSink{}
	runner := &fakeRunner{}
	h := NewLightHandler(Params{
		Entities:     []string{"light.hall"},
		Sink:         sink,
		States:       fakeStates{},
		Tuning:       testTuning(),
		MiddleButton: []map[string]any{{"action": "scene.turn_on"}},
		Runner:       runner,
	})

	h.PressStop()

	if len(runner.runs) != 1 {
		t.Fatalf("runner executed %d times, want 1", len(runner.runs))
	}
	if sink.count() != 0 {
		t.Errorf("sent %d commands, want 0", sink.count())
	}
}

func TestLight_PaddleTapTogglesWithoutRamp(t *testing.T) {
	sink := &recordingSink{}
	h := newTestLight(sink, fakeStates{
		"light.hall": {state: "on", attrs: map[string]any{"brightness": float64(128)}},
	}, nil)
	h.SetOnOffGesture(true)

	h.PressOn()
	time.Sleep(20 * time.Millisecond)
	h.ReleaseOn()
	time.Sleep(200 * time.Millisecond)

	cmd := sink.single(t)
	if cmd.Service != "turn_on" || cmd.Params["brightness_pct"] != 80 {
		t.Errorf("command = %s %v, want the plain turn_on tap", cmd.Service, cmd.Params)
	}
}

func TestLight_PaddleHoldRampsInsteadOfToggling(t *testing.T) {
	sink := &recordingSink{}
	h := newTestLight(sink, fakeStates{
		"light.hall": {state: "on", attrs: map[string]any{"brightness": float64(128)}},
	}, nil)
	h.SetOnOffGesture(true)

	h.PressOff()
	time.Sleep(230 * time.Millisecond) // past hold, a couple of ramp steps
	h.ReleaseOff()

	cmds := sink.commands()
	if len(cmds) < 1 {
		t.Fatal("hold produced no ramp steps")
	}
	for _, cmd := range cmds {
		if cmd.Service != "turn_on" {
			t.Errorf("service = %s, want turn_on (dim step), never turn_off", cmd.Service)
		}
		// Static fake state: each step computes 50% - 10% = 40%.
		if cmd.Params["brightness_pct"] != 40 {
			t.Errorf("brightness_pct = %v, want 40", cmd.Params["brightness_pct"])
		}
	}
}

func TestLight_ResetSendsNothing(t *testing.T) {
	sink := &recordingSink{}
	h := newTestLight(sink, fakeStates{
		"light.hall": {state: "on", attrs: map[string]any{"brightness": float64(128)}},
	}, nil)
	h.SetOnOffGesture(true)

	h.PressOn()
	h.Reset()
	time.Sleep(200 * time.Millisecond)

	if sink.count() != 0 {
		t.Errorf("sent %d commands after Reset, want 0: %+v", sink.count(), sink.commands())
	}
}
