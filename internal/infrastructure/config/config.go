package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Tuning bounds. Values outside these ranges are almost certainly
// configuration mistakes (e.g. seconds where milliseconds were meant).
const (
	minHoldTimeMs = 100
	maxHoldTimeMs = 5000
	minStepTimeMs = 50
	maxStepTimeMs = 5000

	minFanSpeeds = 2
	maxFanSpeeds = 10
)

// Config is the root configuration structure for the Pico bridge.
// All configuration is loaded from YAML and can be overridden by
// environment variables (GRAYPICO_* pattern).
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Database DatabaseConfig `yaml:"database"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Logging  LoggingConfig  `yaml:"logging"`
	Health   HealthConfig   `yaml:"health"`
	Pico     Tuning         `yaml:"pico"`
	Remotes  []RemoteConfig `yaml:"remotes"`
}

// SiteConfig contains site-specific information.
type SiteConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DatabaseConfig contains SQLite database settings for the remote registry.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings (seconds).
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// HealthConfig contains health reporting settings.
type HealthConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

// Tuning holds the timing and stepping parameters for gesture resolution.
//
// It appears twice in the configuration: once under `pico` as the global
// defaults, and optionally per remote under `tuning` where any non-zero
// field overrides the global value.
type Tuning struct {
	// HoldTimeMs is the tap/hold boundary: a press shorter than this is a
	// tap, a press sustained past it enters continuous motion.
	HoldTimeMs int `yaml:"hold_time_ms"`

	// StepTimeMs is the ramp cadence while a button is held.
	StepTimeMs int `yaml:"step_time_ms"`

	CoverOpenPosition int `yaml:"cover_open_position"`
	CoverStepPercent  int `yaml:"cover_step_percent"`

	FanOnPercent  int `yaml:"fan_on_percent"`
	FanSpeedCount int `yaml:"fan_speed_count"`

	LightOnPercent       int `yaml:"light_on_percent"`
	LightStepPercent     int `yaml:"light_step_percent"`
	LightLowBoundPercent int `yaml:"light_low_bound_percent"`

	MediaVolumeStepPercent int `yaml:"media_volume_step_percent"`
}

// HoldTime returns the tap/hold boundary as a Duration.
func (t Tuning) HoldTime() time.Duration {
	return time.Duration(t.HoldTimeMs) * time.Millisecond
}

// StepTime returns the ramp cadence as a Duration.
func (t Tuning) StepTime() time.Duration {
	return time.Duration(t.StepTimeMs) * time.Millisecond
}

// Merge returns a copy of t with any non-zero field of override applied.
func (t Tuning) Merge(override *Tuning) Tuning {
	if override == nil {
		return t
	}
	merged := t
	if override.HoldTimeMs != 0 {
		merged.HoldTimeMs = override.HoldTimeMs
	}
	if override.StepTimeMs != 0 {
		merged.StepTimeMs = override.StepTimeMs
	}
	if override.CoverOpenPosition != 0 {
		merged.CoverOpenPosition = override.CoverOpenPosition
	}
	if override.CoverStepPercent != 0 {
		merged.CoverStepPercent = override.CoverStepPercent
	}
	if override.FanOnPercent != 0 {
		merged.FanOnPercent = override.FanOnPercent
	}
	if override.FanSpeedCount != 0 {
		merged.FanSpeedCount = override.FanSpeedCount
	}
	if override.LightOnPercent != 0 {
		merged.LightOnPercent = override.LightOnPercent
	}
	if override.LightStepPercent != 0 {
		merged.LightStepPercent = override.LightStepPercent
	}
	if override.LightLowBoundPercent != 0 {
		merged.LightLowBoundPercent = override.LightLowBoundPercent
	}
	if override.MediaVolumeStepPercent != 0 {
		merged.MediaVolumeStepPercent = override.MediaVolumeStepPercent
	}
	return merged
}

// RemoteConfig binds one physical Pico remote to a set of target entities.
//
// Exactly one of the entity lists should normally be populated; the first
// non-empty list (in the order covers, lights, fans, media_players,
// switches) decides the device category the remote controls.
type RemoteConfig struct {
	// DeviceID is the identifier carried in button events for this remote.
	DeviceID string `yaml:"device_id"`

	// Name is a human-readable label used only in logs.
	Name string `yaml:"name"`

	Covers       []string `yaml:"covers"`
	Lights       []string `yaml:"lights"`
	Fans         []string `yaml:"fans"`
	MediaPlayers []string `yaml:"media_players"`
	Switches     []string `yaml:"switches"`

	// MiddleButton is an optional ordered command list executed instead of
	// the category's default stop behaviour. Items are raw command
	// descriptors; malformed items are skipped at execution time.
	MiddleButton []map[string]any `yaml:"middle_button"`

	// Buttons maps logical button names to command lists for scene-style
	// remotes (4-button scene hardware). Ignored by other profiles.
	Buttons map[string][]map[string]any `yaml:"buttons"`

	// Tuning optionally overrides the global pico tuning for this remote.
	Tuning *Tuning `yaml:"tuning"`
}

// Load reads, parses, and validates the configuration file.
//
// Order of precedence (lowest to highest): built-in defaults, YAML file,
// environment variable overrides.
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
// The defaults mirror the original Pico hardware feel: 400ms to
// distinguish tap from hold, 10% steps, 1s lowest dim floor of 5%.
func defaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			ID:   "site-001",
			Name: "Gray Logic",
		},
		Database: DatabaseConfig{
			Path:        "./data/graypico.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "graylogic-pico",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Health: HealthConfig{
			IntervalSeconds: 30,
		},
		Pico: Tuning{
			HoldTimeMs:             400,
			StepTimeMs:             250,
			CoverOpenPosition:      100,
			CoverStepPercent:       10,
			FanOnPercent:           100,
			FanSpeedCount:          4,
			LightOnPercent:         100,
			LightStepPercent:       10,
			LightLowBoundPercent:   5,
			MediaVolumeStepPercent: 5,
		},
	}
}

// applyEnvOverrides applies environment variable overrides.
// Environment variables follow the pattern: GRAYPICO_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GRAYPICO_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("GRAYPICO_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("GRAYPICO_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("GRAYPICO_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
	if v := os.Getenv("GRAYPICO_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Site.ID == "" {
		errs = append(errs, "site.id is required")
	}
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required")
	}

	if err := validateTuning("pico", c.Pico); err != "" {
		errs = append(errs, err)
	}

	seen := make(map[string]bool, len(c.Remotes))
	for i, r := range c.Remotes {
		if r.DeviceID == "" {
			errs = append(errs, fmt.Sprintf("remotes[%d].device_id is required", i))
			continue
		}
		if seen[r.DeviceID] {
			errs = append(errs, fmt.Sprintf("remotes[%d].device_id %q is duplicated", i, r.DeviceID))
		}
		seen[r.DeviceID] = true

		if r.Tuning != nil {
			merged := c.Pico.Merge(r.Tuning)
			if err := validateTuning(fmt.Sprintf("remotes[%d].tuning", i), merged); err != "" {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// validateTuning checks tuning bounds, returning a description of the
// first problem found or "" if valid.
func validateTuning(section string, t Tuning) string {
	switch {
	case t.HoldTimeMs < minHoldTimeMs || t.HoldTimeMs > maxHoldTimeMs:
		return fmt.Sprintf("%s.hold_time_ms must be between %d and %d", section, minHoldTimeMs, maxHoldTimeMs)
	case t.StepTimeMs < minStepTimeMs || t.StepTimeMs > maxStepTimeMs:
		return fmt.Sprintf("%s.step_time_ms must be between %d and %d", section, minStepTimeMs, maxStepTimeMs)
	case t.CoverOpenPosition < 1 || t.CoverOpenPosition > 100:
		return fmt.Sprintf("%s.cover_open_position must be between 1 and 100", section)
	case t.CoverStepPercent < 1 || t.CoverStepPercent > 100:
		return fmt.Sprintf("%s.cover_step_percent must be between 1 and 100", section)
	case t.FanOnPercent < 1 || t.FanOnPercent > 100:
		return fmt.Sprintf("%s.fan_on_percent must be between 1 and 100", section)
	case t.FanSpeedCount < minFanSpeeds || t.FanSpeedCount > maxFanSpeeds:
		return fmt.Sprintf("%s.fan_speed_count must be between %d and %d", section, minFanSpeeds, maxFanSpeeds)
	case t.LightOnPercent < 1 || t.LightOnPercent > 100:
		return fmt.Sprintf("%s.light_on_percent must be between 1 and 100", section)
	case t.LightStepPercent < 1 || t.LightStepPercent > 100:
		return fmt.Sprintf("%s.light_step_percent must be between 1 and 100", section)
	case t.LightLowBoundPercent < 1 || t.LightLowBoundPercent > 100:
		return fmt.Sprintf("%s.light_low_bound_percent must be between 1 and 100", section)
	case t.MediaVolumeStepPercent < 1 || t.MediaVolumeStepPercent > 100:
		return fmt.Sprintf("%s.media_volume_step_percent must be between 1 and 100", section)
	}
	return ""
}

// RemoteByID returns the remote configuration for a device ID, or nil if
// the device is not configured.
func (c *Config) RemoteByID(deviceID string) *RemoteConfig {
	for i := range c.Remotes {
		if c.Remotes[i].DeviceID == deviceID {
			return &c.Remotes[i]
		}
	}
	return nil
}

// TuningFor returns the effective tuning for a remote (global defaults
// merged with any per-remote override).
func (c *Config) TuningFor(r *RemoteConfig) Tuning {
	if r == nil {
		return c.Pico
	}
	return c.Pico.Merge(r.Tuning)
}

// HealthInterval returns the health reporting interval as a Duration.
func (c *Config) HealthInterval() time.Duration {
	return time.Duration(c.Health.IntervalSeconds) * time.Second
}
