// Package remote wires button events to gesture handlers, one
// controller per physical Pico remote.
//
// A remote's behaviour is the product of two bindings. The entity
// lists in configuration decide the device category (cover, light,
// fan, media player, switch) and therefore which domain handler runs.
// The hardware variant, learned from the first button event and
// persisted in the registry, decides the profile: which buttons exist
// and how they route. A paddle remote folds dimming into On/Off, a
// five-button remote has dedicated raise/lower, a scene remote skips
// domain routing entirely and fires configured command lists.
//
// The Manager is the MQTT-facing entry point; it parses events, drops
// malformed ones, and creates controllers on demand.
package remote
