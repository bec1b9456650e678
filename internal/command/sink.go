package command

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-pico/internal/infrastructure/mqtt"
)

// commandQoS is the QoS level for outgoing commands. At-least-once:
// a duplicated step is harmless, a lost stop command is not.
const commandQoS = 1

// Publisher is the transport interface the sink needs.
// Implemented by mqtt.Client.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// MQTTSink delivers commands over the Gray Logic MQTT bus.
//
// Delivery is fire-and-forget: Send enqueues the publish on a separate
// goroutine and returns immediately, so the gesture state machines are
// never blocked by a slow or disconnected broker. Failures are logged
// (at debug severity for tolerated commands) and otherwise dropped.
type MQTTSink struct {
	publisher Publisher
	log       Logger
}

// NewMQTTSink creates a sink publishing to graylogic/command topics.
//
// Parameters:
//   - publisher: Transport for outgoing messages (typically mqtt.Client)
//   - log: Logger for delivery failures (nil for no logging)
func NewMQTTSink(publisher Publisher, log Logger) *MQTTSink {
	if log == nil {
		log = noopLogger{}
	}
	return &MQTTSink{
		publisher: publisher,
		log:       log,
	}
}

// Send publishes one Message per target entity of the command.
//
// Send returns before delivery completes. Each entity gets its own
// message and command ID so acks can be correlated per entity.
func (s *MQTTSink) Send(cmd Command) {
	if len(cmd.Entities) == 0 {
		s.log.Debug("command has no target entities",
			"domain", cmd.Domain,
			"service", cmd.Service,
		)
		return
	}

	// Snapshot before handing off to the goroutine: the caller is free to
	// discard the command as soon as Send returns.
	messages := make([]Message, 0, len(cmd.Entities))
	now := time.Now().UTC()
	for _, entity := range cmd.Entities {
		messages = append(messages, Message{
			ID:         uuid.New().String(),
			Timestamp:  now,
			EntityID:   entity,
			Domain:     cmd.Domain,
			Command:    cmd.Service,
			Parameters: cmd.Params,
			Source:     "pico",
		})
	}

	go s.deliver(messages, cmd.Tolerate)
}

// deliver publishes the prepared messages, logging failures per entity.
func (s *MQTTSink) deliver(messages []Message, tolerate bool) {
	topics := mqtt.Topics{}

	for _, msg := range messages {
		payload, err := json.Marshal(msg)
		if err != nil {
			s.log.Error("marshalling command",
				"entity_id", msg.EntityID,
				"command", msg.Command,
				"error", err,
			)
			continue
		}

		topic := topics.DeviceCommand(msg.Domain, msg.EntityID)
		if err := s.publisher.Publish(topic, payload, commandQoS, false); err != nil {
			if tolerate {
				s.log.Debug("tolerated command delivery failure",
					"topic", topic,
					"command", msg.Command,
					"error", err,
				)
			} else {
				s.log.Error("command delivery failed",
					"topic", topic,
					"command", msg.Command,
					"error", err,
				)
			}
		}
	}
}
