package gesture

import (
	"sync"
	"time"
)

// Fallback timings used when a caller leaves Config fields zero.
const (
	defaultHoldTime = 400 * time.Millisecond
	defaultStepTime = 250 * time.Millisecond
)

// Policy selects when the single tap command of a short press fires.
type Policy int

const (
	// PolicyImmediateTap fires the tap command synchronously at press
	// time. If the button is still held when the hold threshold passes,
	// the engine keeps stepping at the ramp cadence until release.
	PolicyImmediateTap Policy = iota

	// PolicyDeferredTap fires no command at press time. The tap/hold
	// decision is made later: a release before the hold threshold fires
	// the tap command; reaching the threshold while held starts the hold
	// behaviour instead. Release always fires the Stop hook (if set).
	PolicyDeferredTap
)

// HoldMode selects what happens when the hold threshold is reached with
// the button still pressed.
type HoldMode int

const (
	// HoldRepeat calls the Step hook at the threshold and then once per
	// StepTime until release.
	HoldRepeat HoldMode = iota

	// HoldContinuous calls the HoldStart hook exactly once at the
	// threshold. The device keeps moving on its own until the terminal
	// Stop hook fires at release.
	HoldContinuous
)

// Hooks are the commands the engine drives. Any hook may be nil.
//
// Hooks are invoked while the engine's internal lock is held, which is
// what guarantees that no hook from a cancelled press runs after
// Release() returns. Hooks must therefore be fast and non-blocking:
// hand work to an asynchronous sink, never wait on I/O.
type Hooks struct {
	// Tap is the single command of a short press.
	Tap func()

	// Step is one ramp iteration (HoldRepeat mode).
	Step func()

	// HoldStart begins continuous motion (HoldContinuous mode).
	HoldStart func()

	// Stop is the terminal command fired at every release under
	// PolicyDeferredTap, tap or hold alike.
	Stop func()
}

// Config describes one button's gesture behaviour.
type Config struct {
	// HoldTime is the tap/hold boundary.
	HoldTime time.Duration

	// StepTime is the ramp cadence in HoldRepeat mode.
	StepTime time.Duration

	Policy Policy
	Hold   HoldMode
	Hooks  Hooks
}

// Engine resolves press/release pairs for a single logical button into
// tap, hold, and ramp behaviour.
//
// Each Engine owns the press bookkeeping for exactly one button: whether
// it is pressed, when it was pressed, and the at-most-one live hold timer
// or ramp loop for that press. Engines for different buttons share
// nothing, so a held Raise never interferes with a tapped Lower.
//
// Concurrency model: Press and Release are called from the (per-device
// sequential) event intake path. The hold timer and ramp loop run on
// their own goroutines but take the engine lock and re-check the press
// generation before every hook invocation, so a release — which bumps
// the generation under the same lock — acts as an immediate barrier: no
// step, hold-start, or tap from the cancelled press can fire afterwards,
// even one that was about to run.
type Engine struct {
	cfg Config

	mu        sync.Mutex
	pressed   bool
	pressedAt time.Time

	// gen identifies the current press. Every Press, Release, and Reset
	// bumps it; timer callbacks and ramp loops carry the generation they
	// were started under and abandon themselves on mismatch.
	gen uint64

	holdTimer *time.Timer
	done      chan struct{}
}

// New creates an Engine for one button. Zero timings fall back to
// defaults so a misconfigured button degrades rather than panics.
func New(cfg Config) *Engine {
	if cfg.HoldTime <= 0 {
		cfg.HoldTime = defaultHoldTime
	}
	if cfg.StepTime <= 0 {
		cfg.StepTime = defaultStepTime
	}
	return &Engine{cfg: cfg}
}

// Press records a button press and arms the hold timer.
//
// A press while already pressed re-arms the press: the previous timer and
// ramp loop are cancelled first, so no button ever has two live tasks.
func (e *Engine) Press() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelLocked()
	e.pressed = true
	e.pressedAt = time.Now()
	e.gen++
	gen := e.gen
	e.done = make(chan struct{})
	done := e.done

	if e.cfg.Policy == PolicyImmediateTap {
		invoke(e.cfg.Hooks.Tap)
	}

	e.holdTimer = time.AfterFunc(e.cfg.HoldTime, func() {
		e.holdThresholdReached(gen, done)
	})
}

// Release resolves the press.
//
// Releasing a button that is not pressed is a no-op, so duplicate or
// stray release events never double-fire a tap or stop command.
func (e *Engine) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.pressed {
		return
	}

	elapsed := time.Since(e.pressedAt)
	e.pressed = false
	e.gen++
	e.cancelLocked()

	if e.cfg.Policy == PolicyDeferredTap {
		if elapsed < e.cfg.HoldTime {
			invoke(e.cfg.Hooks.Tap)
		}
		invoke(e.cfg.Hooks.Stop)
	}
}

// Reset cancels any in-flight press without firing tap or stop commands.
// Used on profile re-binding and shutdown to guarantee nothing keeps
// ramping a device afterwards.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pressed = false
	e.gen++
	e.cancelLocked()
}

// IsPressed reports whether the button is currently pressed.
func (e *Engine) IsPressed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pressed
}

// holdThresholdReached runs on the hold timer's goroutine when HoldTime
// elapses. The generation check decides the tap-vs-hold race: if the
// release got the lock first, this press is already over.
func (e *Engine) holdThresholdReached(gen uint64, done chan struct{}) {
	e.mu.Lock()

	if gen != e.gen || !e.pressed {
		e.mu.Unlock()
		return
	}

	switch e.cfg.Hold {
	case HoldContinuous:
		invoke(e.cfg.Hooks.HoldStart)
		e.mu.Unlock()
	case HoldRepeat:
		invoke(e.cfg.Hooks.Step)
		e.mu.Unlock()
		go e.rampLoop(gen, done)
	}
}

// rampLoop issues one Step per StepTime until the press ends. The done
// channel wakes it immediately on release; the generation re-check under
// the lock is what actually prevents a late step.
func (e *Engine) rampLoop(gen uint64, done chan struct{}) {
	ticker := time.NewTicker(e.cfg.StepTime)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			e.mu.Lock()
			if gen != e.gen || !e.pressed {
				e.mu.Unlock()
				return
			}
			invoke(e.cfg.Hooks.Step)
			e.mu.Unlock()
		}
	}
}

// cancelLocked stops the hold timer and ramp loop of the current press.
// Callers must hold e.mu.
func (e *Engine) cancelLocked() {
	if e.holdTimer != nil {
		e.holdTimer.Stop()
		e.holdTimer = nil
	}
	if e.done != nil {
		close(e.done)
		e.done = nil
	}
}

func invoke(f func()) {
	if f != nil {
		f()
	}
}
