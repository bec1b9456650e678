// Package statecache mirrors the retained graylogic/state/+/+ topics in
// memory.
//
// Several gestures are state-aware: a cover On stops the cover if it is
// already moving, a fan tap steps relative to the current percentage, a
// light raise reads the current brightness. Those decisions have to be
// instant, so the bridge keeps a local mirror fed by the retained state
// messages rather than querying anything at gesture time.
//
// Entities the broker has never reported are simply absent; handlers
// treat a miss the same as an unknown state and fall back to their
// configured defaults.
package statecache
