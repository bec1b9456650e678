package remote

import (
	"context"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-pico/internal/actions"
	"github.com/nerrad567/gray-logic-pico/internal/infrastructure/config"
)

// Logger is the minimal logging interface this package needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// ControllerParams bundles what a Controller is constructed with.
type ControllerParams struct {
	Config   *config.RemoteConfig
	Tuning   config.Tuning
	Sink     actions.Sink
	States   actions.StateSource
	Runner   actions.ListRunner
	Registry Registry
	Logger   Logger
}

// Controller owns one remote: its bound profile, its domain handler,
// and the dispatch of (button, phase) pairs through both.
//
// Profile binding is lazy: the first event carrying a hardware type
// decides the profile, which is then persisted so restarts re-bind
// without waiting for another typed event. Binding is idempotent; a
// repeat bind to the same profile changes nothing.
type Controller struct {
	cfg    *config.RemoteConfig
	logger Logger
	router *actions.Router
	runner actions.ListRunner

	// handler is the bound domain handler, nil when the remote has no
	// entity lists (scene-only remotes).
	handler actions.Handler

	// light is set when the category is light, so paddle binding can
	// switch On/Off into gesture mode.
	light *actions.LightHandler

	registry Registry

	mu      sync.Mutex
	profile Profile
	bound   bool
}

// NewController creates a controller for one configured remote.
func NewController(p ControllerParams) *Controller {
	logger := p.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	c := &Controller{
		cfg:      p.Config,
		logger:   logger,
		router:   actions.NewRouter(logger),
		runner:   p.Runner,
		registry: p.Registry,
	}
	c.handler, c.light = buildHandler(p)
	return c
}

// buildHandler constructs the domain handler for the first populated
// entity list, in the fixed category order.
func buildHandler(p ControllerParams) (actions.Handler, *actions.LightHandler) {
	ap := actions.Params{
		Sink:         p.Sink,
		States:       p.States,
		Tuning:       actionsTuning(p.Tuning),
		MiddleButton: p.Config.MiddleButton,
		Runner:       p.Runner,
		Logger:       p.Logger,
	}

	switch {
	case len(p.Config.Covers) > 0:
		ap.Entities = p.Config.Covers
		return actions.NewCoverHandler(ap), nil
	case len(p.Config.Lights) > 0:
		ap.Entities = p.Config.Lights
		light := actions.NewLightHandler(ap)
		return light, light
	case len(p.Config.Fans) > 0:
		ap.Entities = p.Config.Fans
		return actions.NewFanHandler(ap), nil
	case len(p.Config.MediaPlayers) > 0:
		ap.Entities = p.Config.MediaPlayers
		return actions.NewMediaPlayerHandler(ap), nil
	case len(p.Config.Switches) > 0:
		ap.Entities = p.Config.Switches
		return actions.NewSwitchHandler(ap), nil
	}
	return nil, nil
}

// actionsTuning converts config tuning to the handlers' parameter set.
func actionsTuning(t config.Tuning) actions.Tuning {
	return actions.Tuning{
		HoldTime:               t.HoldTime(),
		StepTime:               t.StepTime(),
		CoverOpenPosition:      t.CoverOpenPosition,
		CoverStepPercent:       t.CoverStepPercent,
		FanOnPercent:           t.FanOnPercent,
		FanSpeedCount:          t.FanSpeedCount,
		LightOnPercent:         t.LightOnPercent,
		LightStepPercent:       t.LightStepPercent,
		LightLowBoundPercent:   t.LightLowBoundPercent,
		MediaVolumeStepPercent: t.MediaVolumeStepPercent,
	}
}

// HandleEvent dispatches one normalized button event.
//
// An unbound controller binds from the event's hardware type first;
// events arriving before any typed event are dropped.
func (c *Controller) HandleEvent(ctx context.Context, ev ButtonEvent) {
	profile, ok := c.ensureBound(ctx, ev)
	if !ok {
		return
	}

	if profile == ProfileScene {
		c.handleScene(ev)
		return
	}

	if !profile.routesButton(ev.Button) {
		c.logger.Debug("button not routed by profile",
			"device_id", c.cfg.DeviceID,
			"profile", string(profile),
			"button", ev.Button,
		)
		return
	}
	if c.handler == nil {
		c.logger.Debug("event dropped, remote has no entities configured",
			"device_id", c.cfg.DeviceID, "button", ev.Button)
		return
	}

	c.router.Dispatch(c.handler, actions.Button(ev.Button), actions.Phase(ev.Action))
}

// handleScene fires the configured command list for a scene button.
// Scene buttons act on press only.
func (c *Controller) handleScene(ev ButtonEvent) {
	if ev.Action != "press" {
		return
	}
	list, ok := c.cfg.Buttons[ev.Button]
	if !ok || len(list) == 0 {
		c.logger.Debug("scene button has no configured commands",
			"device_id", c.cfg.DeviceID, "button", ev.Button)
		return
	}
	if c.runner == nil {
		c.logger.Error("scene button dropped, no command runner",
			"device_id", c.cfg.DeviceID, "button", ev.Button)
		return
	}
	c.runner.Execute(list)
}

// ensureBound returns the controller's profile, binding from the event
// first when needed.
func (c *Controller) ensureBound(ctx context.Context, ev ButtonEvent) (Profile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bound {
		return c.profile, true
	}

	profile, err := ProfileForHardware(ev.Type)
	if err != nil {
		c.logger.Error("cannot bind profile from event",
			"device_id", c.cfg.DeviceID,
			"type", ev.Type,
			"error", err,
		)
		return "", false
	}

	c.bindLocked(profile)
	c.logger.Info("remote bound",
		"device_id", c.cfg.DeviceID,
		"profile", string(profile),
		"type", ev.Type,
	)

	if c.registry != nil {
		err := c.registry.Save(ctx, &Binding{
			DeviceID:     c.cfg.DeviceID,
			Name:         c.cfg.Name,
			HardwareType: ev.Type,
			Profile:      profile,
			BoundAt:      time.Now().UTC(),
		})
		if err != nil {
			// The in-memory bind still holds; only restart recovery is
			// degraded.
			c.logger.Error("persisting binding failed",
				"device_id", c.cfg.DeviceID, "error", err)
		}
	}

	return profile, true
}

// BindProfile binds without an event, used when restoring persisted
// bindings at startup. Invalid profiles are ignored.
func (c *Controller) BindProfile(profile Profile) {
	if !profile.Valid() {
		c.logger.Warn("ignoring invalid persisted profile",
			"device_id", c.cfg.DeviceID, "profile", string(profile))
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindLocked(profile)
}

func (c *Controller) bindLocked(profile Profile) {
	if c.bound && c.profile == profile {
		return
	}
	if c.bound {
		// Re-bind to a different profile: clear in-flight gestures so
		// nothing keeps ramping under the old behaviour.
		if c.handler != nil {
			c.handler.Reset()
		}
	}
	c.profile = profile
	c.bound = true
	if c.light != nil {
		c.light.SetOnOffGesture(profile == ProfilePaddle)
	}
}

// Profile returns the bound profile, or "" while unbound.
func (c *Controller) Profile() Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile
}

// Reset cancels all in-flight gestures without sending commands.
func (c *Controller) Reset() {
	if c.handler != nil {
		c.handler.Reset()
	}
}
