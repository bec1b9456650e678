package actions

import (
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-pico/internal/command"
)

// recordingSink captures commands synchronously for assertions.
type recordingSink struct {
	mu   sync.Mutex
	cmds []command.Command
}

func (s *recordingSink) Send(cmd command.Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cmds = append(s.cmds, cmd)
}

func (s *recordingSink) commands() []command.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]command.Command, len(s.cmds))
	copy(out, s.cmds)
	return out
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cmds)
}

// single asserts exactly one command was sent and returns it.
func (s *recordingSink) single(t *testing.T) command.Command {
	t.Helper()
	cmds := s.commands()
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1: %+v", len(cmds), cmds)
	}
	return cmds[0]
}

// fakeStates is a fixed in-memory StateSource.
type fakeStates map[string]fakeEntity

type fakeEntity struct {
	state string
	attrs map[string]any
}

func (f fakeStates) GetState(entityID string) (string, map[string]any, bool) {
	e, ok := f[entityID]
	if !ok {
		return "", nil, false
	}
	return e.state, e.attrs, true
}

// fakeRunner records middle-button list executions.
type fakeRunner struct {
	runs [][]map[string]any
}

func (r *fakeRunner) Execute(items []map[string]any) {
	r.runs = append(r.runs, items)
}

func testTuning() Tuning {
	return Tuning{
		HoldTime:               100 * time.Millisecond,
		StepTime:               50 * time.Millisecond,
		CoverOpenPosition:      100,
		CoverStepPercent:       10,
		FanOnPercent:           40,
		FanSpeedCount:          4,
		LightOnPercent:         80,
		LightStepPercent:       10,
		LightLowBoundPercent:   5,
		MediaVolumeStepPercent: 5,
	}
}
