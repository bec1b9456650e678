package statecache

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

// StateMessage is the retained state payload published per entity on
// graylogic/state/{domain}/{entity_id}.
type StateMessage struct {
	// EntityID identifies the entity, e.g. "light.hall".
	EntityID string `json:"entity_id"`

	// Timestamp is when the state was observed (UTC).
	Timestamp time.Time `json:"timestamp"`

	// State is the primary state value: "on", "off", "opening",
	// "closing", "playing", "unavailable", and so on.
	State string `json:"state"`

	// Attributes carries per-domain detail such as brightness,
	// percentage, volume_level, or current_position.
	Attributes map[string]any `json:"attributes,omitempty"`
}

// EntityState is one entity's cached state snapshot.
type EntityState struct {
	State      string
	Attributes map[string]any
	UpdatedAt  time.Time
}

// Logger is the minimal logging interface the cache needs.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Cache mirrors the retained entity state topics so gesture handlers can
// make state-aware decisions without a broker round trip.
//
// The cache is write-through from the MQTT handler and read-only for
// everyone else. Get returns deep copies, so a handler can mutate what it
// received without corrupting the mirror.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]EntityState
	logger  Logger
}

// New creates an empty state cache.
func New(logger Logger) *Cache {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Cache{
		entries: make(map[string]EntityState),
		logger:  logger,
	}
}

// HandleMessage ingests one retained state message. It satisfies the MQTT
// client's handler signature, so wire it directly to the
// graylogic/state/+/+ subscription.
//
// A payload without an entity_id falls back to the topic's last segment,
// which keeps externally produced retained messages usable. Unparseable
// payloads are logged and dropped; they never evict an existing entry.
func (c *Cache) HandleMessage(topic string, payload []byte) error {
	var msg StateMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		c.logger.Warn("dropping unparseable state message", "topic", topic, "error", err)
		return fmt.Errorf("parsing state message on %s: %w", topic, err)
	}

	entityID := msg.EntityID
	if entityID == "" {
		entityID = entityIDFromTopic(topic)
	}
	if entityID == "" {
		c.logger.Warn("dropping state message without entity id", "topic", topic)
		return fmt.Errorf("state message on %s has no entity id", topic)
	}

	updatedAt := msg.Timestamp
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	c.mu.Lock()
	c.entries[entityID] = EntityState{
		State:      msg.State,
		Attributes: copyAttributes(msg.Attributes),
		UpdatedAt:  updatedAt,
	}
	c.mu.Unlock()

	c.logger.Debug("state cached", "entity_id", entityID, "state", msg.State)
	return nil
}

// Get returns a deep copy of one entity's cached state.
func (c *Cache) Get(entityID string) (EntityState, bool) {
	c.mu.RLock()
	entry, ok := c.entries[entityID]
	c.mu.RUnlock()
	if !ok {
		return EntityState{}, false
	}
	entry.Attributes = copyAttributes(entry.Attributes)
	return entry, true
}

// GetState returns the state string and attributes for one entity.
// This is the shape the action handlers consume.
func (c *Cache) GetState(entityID string) (string, map[string]any, bool) {
	entry, ok := c.Get(entityID)
	if !ok {
		return "", nil, false
	}
	return entry.State, entry.Attributes, true
}

// Len returns the number of cached entities.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// entityIDFromTopic extracts the entity segment from a state topic such
// as graylogic/state/light/light.hall.
func entityIDFromTopic(topic string) string {
	idx := strings.LastIndex(topic, "/")
	if idx < 0 || idx == len(topic)-1 {
		return ""
	}
	return topic[idx+1:]
}

// copyAttributes deep-copies an attribute map, including nested maps and
// slices produced by JSON decoding.
func copyAttributes(attrs map[string]any) map[string]any {
	if attrs == nil {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyAttributes(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
