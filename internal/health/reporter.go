package health

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-pico/internal/infrastructure/mqtt"
)

// Status represents the operational status of the bridge.
type Status string

const (
	// StatusHealthy indicates the bridge is operating normally.
	StatusHealthy Status = "healthy"

	// StatusDegraded indicates the bridge is operating with issues.
	StatusDegraded Status = "degraded"

	// StatusStopping indicates a graceful shutdown is in progress.
	StatusStopping Status = "stopping"
)

// Message is the health payload published to graylogic/health/pico.
type Message struct {
	BridgeID      string    `json:"bridge_id"`
	Status        Status    `json:"status"`
	Reason        string    `json:"reason,omitempty"`
	Version       string    `json:"version"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	RemoteCount   int       `json:"remote_count"`
	Timestamp     time.Time `json:"timestamp"`
}

// Publisher is the interface for publishing health messages, typically
// the MQTT client.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	IsConnected() bool
}

// Logger is the minimal logging interface the reporter needs.
type Logger interface {
	Error(msg string, args ...any)
}

// RemoteCounter reports how many remotes are live. Implemented by the
// remote manager.
type RemoteCounter interface {
	Count() int
}

// Config holds configuration for the health reporter.
type Config struct {
	// BridgeID identifies this bridge instance in health messages.
	BridgeID string

	// Version is the bridge software version.
	Version string

	// Interval is how often to publish. Default: 30 seconds.
	Interval time.Duration

	Publisher Publisher
	Remotes   RemoteCounter
	Logger    Logger
}

// Reporter publishes periodic retained health messages so subscribers
// always see the bridge's latest status, with the broker's LWT covering
// unexpected death.
type Reporter struct {
	cfg       Config
	startTime time.Time

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewReporter creates a health reporter. Call Start to begin reporting.
func NewReporter(cfg Config) *Reporter {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	return &Reporter{
		cfg:       cfg,
		startTime: time.Now(),
		done:      make(chan struct{}),
	}
}

// Start begins periodic reporting until ctx is cancelled or Stop is
// called.
func (r *Reporter) Start(ctx context.Context) {
	r.wg.Add(1)
	go r.reportLoop(ctx)
}

// Stop shuts down reporting and publishes a final stopping status,
// distinct from the broker-published LWT of a crash. Safe to call
// multiple times.
func (r *Reporter) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
		r.wg.Wait()
		if err := r.publish(StatusStopping, "shutting down"); err != nil {
			r.logError("failed to publish stopping status", err)
		}
	})
}

// PublishNow publishes the current status immediately.
func (r *Reporter) PublishNow() error {
	status, reason := r.determineStatus()
	return r.publish(status, reason)
}

func (r *Reporter) reportLoop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	if err := r.PublishNow(); err != nil {
		r.logError("failed to publish initial health", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.done:
			return
		case <-ticker.C:
			if err := r.PublishNow(); err != nil {
				r.logError("failed to publish health", err)
			}
		}
	}
}

func (r *Reporter) determineStatus() (Status, string) {
	if r.cfg.Publisher == nil || !r.cfg.Publisher.IsConnected() {
		return StatusDegraded, "MQTT disconnected"
	}
	return StatusHealthy, ""
}

func (r *Reporter) publish(status Status, reason string) error {
	if r.cfg.Publisher == nil {
		return nil
	}

	remoteCount := 0
	if r.cfg.Remotes != nil {
		remoteCount = r.cfg.Remotes.Count()
	}

	msg := Message{
		BridgeID:      r.cfg.BridgeID,
		Status:        status,
		Reason:        reason,
		Version:       r.cfg.Version,
		UptimeSeconds: int64(time.Since(r.startTime).Seconds()),
		RemoteCount:   remoteCount,
		Timestamp:     time.Now().UTC(),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return r.cfg.Publisher.Publish(mqtt.Topics{}.BridgeHealth(), payload, 1, true)
}

func (r *Reporter) logError(msg string, err error) {
	if r.cfg.Logger != nil {
		r.cfg.Logger.Error(msg, "error", err)
	}
}
