package statecache

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCache_HandleMessage(t *testing.T) {
	cache := New(nil)

	payload, _ := json.Marshal(StateMessage{
		EntityID:  "light.hall",
		Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		State:     "on",
		Attributes: map[string]any{
			"brightness": float64(128),
		},
	})

	if err := cache.HandleMessage("graylogic/state/light/light.hall", payload); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	state, attrs, ok := cache.GetState("light.hall")
	if !ok {
		t.Fatal("entity not cached")
	}
	if state != "on" {
		t.Errorf("state = %q, want on", state)
	}
	if attrs["brightness"] != float64(128) {
		t.Errorf("brightness = %v, want 128", attrs["brightness"])
	}
}

func TestCache_EntityIDFromTopicFallback(t *testing.T) {
	cache := New(nil)

	// No entity_id in payload: the topic's last segment identifies it.
	err := cache.HandleMessage("graylogic/state/cover/cover.landing",
		[]byte(`{"state":"open","attributes":{"current_position":70}}`))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	entry, ok := cache.Get("cover.landing")
	if !ok {
		t.Fatal("entity not cached under topic-derived id")
	}
	if entry.State != "open" {
		t.Errorf("state = %q, want open", entry.State)
	}
	if entry.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not defaulted for payload without timestamp")
	}
}

func TestCache_BadPayloadDoesNotEvict(t *testing.T) {
	cache := New(nil)

	good := []byte(`{"entity_id":"fan.attic","state":"on","attributes":{"percentage":50}}`)
	if err := cache.HandleMessage("graylogic/state/fan/fan.attic", good); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	if err := cache.HandleMessage("graylogic/state/fan/fan.attic", []byte("{not json")); err == nil {
		t.Error("HandleMessage() with bad payload should return an error")
	}

	state, _, ok := cache.GetState("fan.attic")
	if !ok || state != "on" {
		t.Errorf("bad payload evicted good entry: state=%q ok=%v", state, ok)
	}
}

func TestCache_GetMiss(t *testing.T) {
	cache := New(nil)
	if _, _, ok := cache.GetState("light.nowhere"); ok {
		t.Error("GetState() on empty cache reported a hit")
	}
}

func TestCache_GetReturnsCopy(t *testing.T) {
	cache := New(nil)
	payload := []byte(`{"entity_id":"media_player.den","state":"playing",` +
		`"attributes":{"volume_level":0.4,"source_list":["tv","aux"]}}`)
	if err := cache.HandleMessage("graylogic/state/media_player/media_player.den", payload); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	_, attrs, _ := cache.GetState("media_player.den")
	attrs["volume_level"] = float64(1.0)
	attrs["source_list"].([]any)[0] = "corrupted"

	_, fresh, _ := cache.GetState("media_player.den")
	if fresh["volume_level"] != float64(0.4) {
		t.Errorf("cached volume mutated through returned map: %v", fresh["volume_level"])
	}
	if fresh["source_list"].([]any)[0] != "tv" {
		t.Errorf("cached slice mutated through returned map: %v", fresh["source_list"])
	}
}

func TestCache_LatestMessageWins(t *testing.T) {
	cache := New(nil)

	first := []byte(`{"entity_id":"switch.porch","state":"off"}`)
	second := []byte(`{"entity_id":"switch.porch","state":"on"}`)
	topic := "graylogic/state/switch/switch.porch"

	if err := cache.HandleMessage(topic, first); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if err := cache.HandleMessage(topic, second); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	state, _, _ := cache.GetState("switch.porch")
	if state != "on" {
		t.Errorf("state = %q, want on (latest message)", state)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}
