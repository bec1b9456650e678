// Package mqtt provides the MQTT transport for the Pico bridge.
//
// The bridge participates in the Gray Logic bus with four topic families:
//
//   - graylogic/event/pico/{device_id}  — normalized button events (in)
//   - graylogic/command/{domain}/{id}   — device commands (out)
//   - graylogic/state/{domain}/{id}     — retained entity state (in)
//   - graylogic/health/pico             — periodic bridge health (out)
//
// The Client wraps paho.mqtt.golang with automatic reconnection,
// re-subscription after reconnect, Last Will and Testament on the health
// topic, and panic recovery around message handlers.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topics := mqtt.Topics{}
//	err = client.Subscribe(topics.AllPicoEvents(), 1, handleEvent)
package mqtt
