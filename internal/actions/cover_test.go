package actions

import (
	"testing"
	"time"
)

func newTestCover(sink *recordingSink, states fakeStates, tune func(*Tuning)) *CoverHandler {
	tuning := testTuning()
	if tune != nil {
		tune(&tuning)
	}
	return NewCoverHandler(Params{
		Entities: []string{"cover.landing"},
		Sink:     sink,
		States:   states,
		Tuning:   tuning,
	})
}

func TestCover_OnOpensFully(t *testing.T) {
	sink := &recordingSink{}
	h := newTestCover(sink, fakeStates{
		"cover.landing": {state: "closed", attrs: map[string]any{"current_position": float64(0)}},
	}, nil)

	h.PressOn()

	cmd := sink.single(t)
	if cmd.Domain != "cover" || cmd.Service != "open_cover" {
		t.Errorf("command = %s.%s, want cover.open_cover", cmd.Domain, cmd.Service)
	}
}

func TestCover_OnOpensToConfiguredPosition(t *testing.T) {
	sink := &recordingSink{}
	h := newTestCover(sink, fakeStates{
		"cover.landing": {state: "closed"},
	}, func(tn *Tuning) { tn.CoverOpenPosition = 70 })

	h.PressOn()

	cmd := sink.single(t)
	if cmd.Service != "set_cover_position" {
		t.Fatalf("service = %s, want set_cover_position", cmd.Service)
	}
	if cmd.Params["position"] != 70 {
		t.Errorf("position = %v, want 70", cmd.Params["position"])
	}
}

func TestCover_OnWhileMovingStops(t *testing.T) {
	for _, state := range []string{"opening", "closing"} {
		sink := &recordingSink{}
		h := newTestCover(sink, fakeStates{
			"cover.landing": {state: state},
		}, nil)

		h.PressOn()

		cmd := sink.single(t)
		if cmd.Service != "stop_cover" {
			t.Errorf("state %q: service = %s, want stop_cover", state, cmd.Service)
		}
	}
}

func TestCover_OffClosesOrStops(t *testing.T) {
	sink := &recordingSink{}
	h := newTestCover(sink, fakeStates{"cover.landing": {state: "open"}}, nil)
	h.PressOff()
	if cmd := sink.single(t); cmd.Service != "close_cover" {
		t.Errorf("service = %s, want close_cover", cmd.Service)
	}

	sink = &recordingSink{}
	h = newTestCover(sink, fakeStates{"cover.landing": {state: "closing"}}, nil)
	h.PressOff()
	if cmd := sink.single(t); cmd.Service != "stop_cover" {
		t.Errorf("service while closing = %s, want stop_cover", cmd.Service)
	}
}

func TestCover_StopPrefersMiddleButtonList(t *testing.T) {
	sink := &recordingSink{}
	runner := &fakeRunner{}
	list := []map[string]any{{"action": "scene.turn_on"}}
	h := NewCoverHandler(Params{
		Entities:     []string{"cover.landing"},
		Sink:         sink,
		States:       fakeStates{},
		Tuning:       testTuning(),
		MiddleButton: list,
		Runner:       runner,
	})

	h.PressStop()

	if len(runner.runs) != 1 {
		t.Fatalf("runner executed %d times, want 1", len(runner.runs))
	}
	if sink.count() != 0 {
		t.Errorf("sent %d commands, want 0 (list replaces stop)", sink.count())
	}
}

func TestCover_StopWithoutListStops(t *testing.T) {
	sink := &recordingSink{}
	h := newTestCover(sink, fakeStates{}, nil)

	h.PressStop()

	if cmd := sink.single(t); cmd.Service != "stop_cover" {
		t.Errorf("service = %s, want stop_cover", cmd.Service)
	}
}

func TestCover_RaiseTapStepsThenStops(t *testing.T) {
	sink := &recordingSink{}
	h := newTestCover(sink, fakeStates{
		"cover.landing": {state: "open", attrs: map[string]any{"current_position": float64(50)}},
	}, nil)

	h.PressRaise()
	time.Sleep(20 * time.Millisecond)
	h.ReleaseRaise()

	cmds := sink.commands()
	if len(cmds) != 2 {
		t.Fatalf("got %d commands, want 2 (step + stop): %+v", len(cmds), cmds)
	}
	if cmds[0].Service != "set_cover_position" || cmds[0].Params["position"] != 60 {
		t.Errorf("step = %s %v, want set_cover_position position=60",
			cmds[0].Service, cmds[0].Params)
	}
	if cmds[1].Service != "stop_cover" {
		t.Errorf("terminal command = %s, want stop_cover", cmds[1].Service)
	}
}

func TestCover_LowerTapClampsAtZero(t *testing.T) {
	sink := &recordingSink{}
	h := newTestCover(sink, fakeStates{
		"cover.landing": {state: "open", attrs: map[string]any{"current_position": float64(4)}},
	}, nil)

	h.PressLower()
	time.Sleep(20 * time.Millisecond)
	h.ReleaseLower()

	cmds := sink.commands()
	if len(cmds) != 2 {
		t.Fatalf("got %d commands, want 2", len(cmds))
	}
	if cmds[0].Params["position"] != 0 {
		t.Errorf("position = %v, want 0 (clamped)", cmds[0].Params["position"])
	}
}

func TestCover_TapWithoutPositionOnlyStops(t *testing.T) {
	sink := &recordingSink{}
	h := newTestCover(sink, fakeStates{
		"cover.landing": {state: "open"},
	}, nil)

	h.PressRaise()
	time.Sleep(20 * time.Millisecond)
	h.ReleaseRaise()

	cmds := sink.commands()
	if len(cmds) != 1 || cmds[0].Service != "stop_cover" {
		t.Errorf("commands = %+v, want single stop_cover", cmds)
	}
}

func TestCover_HoldOpensContinuouslyThenStops(t *testing.T) {
	sink := &recordingSink{}
	h := newTestCover(sink, fakeStates{
		"cover.landing": {state: "open", attrs: map[string]any{"current_position": float64(50)}},
	}, nil)

	h.PressRaise()
	time.Sleep(180 * time.Millisecond) // past the 100ms hold boundary
	h.ReleaseRaise()

	cmds := sink.commands()
	if len(cmds) != 2 {
		t.Fatalf("got %d commands, want 2 (open + stop): %+v", len(cmds), cmds)
	}
	if cmds[0].Service != "open_cover" {
		t.Errorf("hold command = %s, want open_cover", cmds[0].Service)
	}
	if cmds[1].Service != "stop_cover" {
		t.Errorf("terminal command = %s, want stop_cover", cmds[1].Service)
	}
}

func TestCover_HoldLowerClosesContinuously(t *testing.T) {
	sink := &recordingSink{}
	h := newTestCover(sink, fakeStates{
		"cover.landing": {state: "open", attrs: map[string]any{"current_position": float64(50)}},
	}, nil)

	h.PressLower()
	time.Sleep(180 * time.Millisecond)
	h.ReleaseLower()

	cmds := sink.commands()
	if len(cmds) != 2 || cmds[0].Service != "close_cover" || cmds[1].Service != "stop_cover" {
		t.Errorf("commands = %+v, want close_cover then stop_cover", cmds)
	}
}

func TestCover_ResetSendsNothing(t *testing.T) {
	sink := &recordingSink{}
	h := newTestCover(sink, fakeStates{
		"cover.landing": {state: "open", attrs: map[string]any{"current_position": float64(50)}},
	}, nil)

	h.PressRaise()
	h.Reset()
	time.Sleep(180 * time.Millisecond)

	if sink.count() != 0 {
		t.Errorf("sent %d commands after Reset, want 0: %+v", sink.count(), sink.commands())
	}
}
