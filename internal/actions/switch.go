package actions

import (
	"github.com/nerrad567/gray-logic-pico/internal/command"
)

const domainSwitch = "switch"

// SwitchHandler drives plain on/off switches. Only On and Off do
// anything; switches have no intermediate levels, so Stop, Raise, and
// Lower are accepted but ignored, and no gesture state exists.
type SwitchHandler struct {
	p Params
}

// NewSwitchHandler creates a switch handler.
func NewSwitchHandler(p Params) *SwitchHandler {
	return &SwitchHandler{p: p}
}

func (h *SwitchHandler) PressOn() {
	h.send("turn_on")
}

func (h *SwitchHandler) PressOff() {
	h.send("turn_off")
}

func (h *SwitchHandler) PressStop() {
	h.p.logger().Debug("switch stop ignored")
}

func (h *SwitchHandler) PressRaise() {
	h.p.logger().Debug("switch raise ignored")
}

func (h *SwitchHandler) PressLower() {
	h.p.logger().Debug("switch lower ignored")
}

func (h *SwitchHandler) ReleaseOn()    {}
func (h *SwitchHandler) ReleaseOff()   {}
func (h *SwitchHandler) ReleaseStop()  {}
func (h *SwitchHandler) ReleaseRaise() {}
func (h *SwitchHandler) ReleaseLower() {}

func (h *SwitchHandler) Reset() {}

func (h *SwitchHandler) send(service string) {
	h.p.Sink.Send(command.Command{
		Domain:   domainSwitch,
		Service:  service,
		Entities: h.p.Entities,
	})
}
