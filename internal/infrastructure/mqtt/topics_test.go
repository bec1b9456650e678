package mqtt

import "testing"

func TestTopics(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "pico event",
			got:  topics.PicoEvent("pico-hall"),
			want: "graylogic/event/pico/pico-hall",
		},
		{
			name: "all pico events",
			got:  topics.AllPicoEvents(),
			want: "graylogic/event/pico/+",
		},
		{
			name: "device command",
			got:  topics.DeviceCommand("cover", "cover.landing"),
			want: "graylogic/command/cover/cover.landing",
		},
		{
			name: "device state",
			got:  topics.DeviceState("light", "light.hall"),
			want: "graylogic/state/light/light.hall",
		},
		{
			name: "all device states",
			got:  topics.AllDeviceStates(),
			want: "graylogic/state/+/+",
		},
		{
			name: "bridge health",
			got:  topics.BridgeHealth(),
			want: "graylogic/health/pico",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestPublish_Validation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}

	if err := c.Publish("", []byte("x"), 1, false); err != ErrInvalidTopic {
		t.Errorf("empty topic: got %v, want ErrInvalidTopic", err)
	}
	if err := c.Publish("t", []byte("x"), 3, false); err != ErrInvalidQoS {
		t.Errorf("bad qos: got %v, want ErrInvalidQoS", err)
	}
}

func TestSubscribe_Validation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}

	if err := c.Subscribe("", 1, func(string, []byte) error { return nil }); err != ErrInvalidTopic {
		t.Errorf("empty topic: got %v, want ErrInvalidTopic", err)
	}
	if err := c.Subscribe("t", 1, nil); err == nil {
		t.Error("nil handler: expected error, got nil")
	}
}
