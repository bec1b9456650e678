package remote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-pico/internal/actions"
	"github.com/nerrad567/gray-logic-pico/internal/infrastructure/config"
)

// bindTimeout bounds the registry write triggered by a first event.
const bindTimeout = 5 * time.Second

// Manager owns the controllers for every configured remote and feeds
// them parsed button events from the event subscription.
type Manager struct {
	cfg      *config.Config
	sink     actions.Sink
	states   actions.StateSource
	runner   actions.ListRunner
	registry Registry
	logger   Logger

	mu          sync.Mutex
	controllers map[string]*Controller
}

// NewManager creates a manager. Registry may be nil, in which case
// bindings live only in memory.
func NewManager(cfg *config.Config, sink actions.Sink, states actions.StateSource,
	runner actions.ListRunner, registry Registry, logger Logger) *Manager {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Manager{
		cfg:         cfg,
		sink:        sink,
		states:      states,
		runner:      runner,
		registry:    registry,
		logger:      logger,
		controllers: make(map[string]*Controller),
	}
}

// Restore pre-binds controllers from persisted bindings so gesture
// behaviour is stable from the first event after a restart. Bindings
// for remotes no longer in the configuration are skipped.
func (m *Manager) Restore(ctx context.Context) error {
	if m.registry == nil {
		return nil
	}

	bindings, err := m.registry.List(ctx)
	if err != nil {
		return fmt.Errorf("restoring bindings: %w", err)
	}

	restored := 0
	for _, b := range bindings {
		ctrl := m.controllerFor(b.DeviceID)
		if ctrl == nil {
			m.logger.Debug("skipping binding for unconfigured remote",
				"device_id", b.DeviceID)
			continue
		}
		ctrl.BindProfile(b.Profile)
		restored++
	}

	m.logger.Info("bindings restored", "count", restored)
	return nil
}

// HandleEvent ingests one raw event payload. It satisfies the MQTT
// client's handler signature, so wire it directly to the
// graylogic/event/pico/+ subscription.
func (m *Manager) HandleEvent(topic string, payload []byte) error {
	ev, err := ParseButtonEvent(payload)
	if err != nil {
		m.logger.Debug("dropping event", "topic", topic, "error", err)
		return err
	}

	ctrl := m.controllerFor(ev.DeviceID)
	if ctrl == nil {
		m.logger.Debug("event from unconfigured remote", "device_id", ev.DeviceID)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), bindTimeout)
	defer cancel()
	ctrl.HandleEvent(ctx, ev)
	return nil
}

// controllerFor returns the controller for a device, creating it from
// configuration on first use. Unconfigured devices return nil.
func (m *Manager) controllerFor(deviceID string) *Controller {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ctrl, ok := m.controllers[deviceID]; ok {
		return ctrl
	}

	rc := m.cfg.RemoteByID(deviceID)
	if rc == nil {
		return nil
	}

	ctrl := NewController(ControllerParams{
		Config:   rc,
		Tuning:   m.cfg.TuningFor(rc),
		Sink:     m.sink,
		States:   m.states,
		Runner:   m.runner,
		Registry: m.registry,
		Logger:   m.logger,
	})
	m.controllers[deviceID] = ctrl
	return ctrl
}

// Count returns the number of live controllers.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.controllers)
}

// ResetAll cancels every in-flight gesture. Called at shutdown so no
// ramp or hold outlives the process.
func (m *Manager) ResetAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ctrl := range m.controllers {
		ctrl.Reset()
	}
}
