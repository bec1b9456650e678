// Gray Logic Pico Bridge
//
// This is the main entry point for the Pico bridge, the Gray Logic
// service that turns Lutron Pico button events on the MQTT bus into
// device command sequences. It resolves taps, holds and continuous
// ramps per remote and publishes the resulting commands back onto the
// graylogic/command topics.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nerrad567/gray-logic-pico/migrations"

	"github.com/nerrad567/gray-logic-pico/internal/command"
	"github.com/nerrad567/gray-logic-pico/internal/health"
	"github.com/nerrad567/gray-logic-pico/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-pico/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-pico/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-pico/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-pico/internal/remote"
	"github.com/nerrad567/gray-logic-pico/internal/statecache"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Gray Logic Pico bridge",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath, "remotes", len(cfg.Remotes))

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log)
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	topics := mqtt.Topics{}
	qos := byte(cfg.MQTT.QoS)

	// Mirror device state so handlers can make decisions (stop a moving
	// cover, step relative to current brightness) without round-trips.
	stateCache := statecache.New(log)
	if err := mqttClient.Subscribe(topics.AllDeviceStates(), qos, stateCache.HandleMessage); err != nil {
		return fmt.Errorf("subscribing to device states: %w", err)
	}
	log.Info("state mirror subscribed", "topic", topics.AllDeviceStates())

	// Command path: sink publishes to graylogic/command topics, runner
	// executes configured command lists (scene buttons, middle buttons).
	sink := command.NewMQTTSink(mqttClient, log)
	runner := command.NewRunner(sink, log)

	// Remote registry persists hardware-profile bindings across restarts
	registry := remote.NewSQLiteRegistry(db.DB)

	// Remote manager: one controller per remote, bound lazily from the
	// first typed event or restored from the registry.
	manager := remote.NewManager(cfg, sink, stateCache, runner, registry, log)
	if err := manager.Restore(ctx); err != nil {
		return fmt.Errorf("restoring remote bindings: %w", err)
	}
	log.Info("remote bindings restored", "bound", manager.Count())

	if err := mqttClient.Subscribe(topics.AllPicoEvents(), qos, manager.HandleEvent); err != nil {
		return fmt.Errorf("subscribing to pico events: %w", err)
	}
	log.Info("pico events subscribed", "topic", topics.AllPicoEvents())

	// Periodic retained health status; the broker's LWT covers crashes
	reporter := health.NewReporter(health.Config{
		BridgeID:  cfg.MQTT.Broker.ClientID,
		Version:   version,
		Interval:  cfg.HealthInterval(),
		Publisher: mqttClient,
		Remotes:   manager,
		Logger:    log,
	})
	reporter.Start(ctx)
	log.Info("health reporting started", "interval", cfg.HealthInterval())

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Stop gesture timers first so no ramp step outlives shutdown, then
	// publish the final stopping status while MQTT is still connected.
	manager.ResetAll()
	reporter.Stop()

	// Deferred Close() calls will run in reverse order:
	// 1. MQTT
	// 2. Database

	log.Info("Gray Logic Pico bridge stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses GRAYPICO_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("GRAYPICO_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
