// Package command defines device commands and their delivery.
//
// A Command is a (domain, service, parameters, entities) tuple. The
// MQTTSink publishes one wire message per target entity to
// graylogic/command/{domain}/{entity}, fire-and-forget, so callers in the
// gesture path are never blocked by the broker.
//
// The Runner executes user-configured command lists (middle-button
// overrides and scene buttons) sequentially, skipping malformed items
// without aborting the remainder of the list.
package command
