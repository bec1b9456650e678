// Package health publishes the bridge's periodic health status to
// MQTT. The message is retained so late subscribers see the last known
// state; the connection's Last Will covers unexpected disconnects with
// an offline status published by the broker itself.
package health
