package actions

// Router invokes the handler method matching a (button, phase) pair.
//
// It is stateless and deliberately forgiving: unknown buttons or phases
// are logged at debug and dropped, and a panicking handler is recovered
// so one misbehaving device can never take down the shared event
// intake.
type Router struct {
	logger Logger
}

// NewRouter creates a router. A nil logger disables logging.
func NewRouter(logger Logger) *Router {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Router{logger: logger}
}

// Dispatch routes one button event to the handler. A nil handler is a
// logged no-op.
func (r *Router) Dispatch(h Handler, button Button, phase Phase) {
	if h == nil {
		r.logger.Debug("dispatch dropped, no handler bound",
			"button", string(button), "phase", string(phase))
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("handler panic recovered",
				"button", string(button),
				"phase", string(phase),
				"panic", rec,
			)
		}
	}()

	switch phase {
	case PhasePress:
		r.dispatchPress(h, button)
	case PhaseRelease:
		r.dispatchRelease(h, button)
	default:
		r.logger.Debug("dispatch dropped, unknown phase",
			"button", string(button), "phase", string(phase))
	}
}

func (r *Router) dispatchPress(h Handler, button Button) {
	switch button {
	case ButtonOn:
		h.PressOn()
	case ButtonOff:
		h.PressOff()
	case ButtonStop:
		h.PressStop()
	case ButtonRaise:
		h.PressRaise()
	case ButtonLower:
		h.PressLower()
	default:
		r.logger.Debug("dispatch dropped, unknown button", "button", string(button))
	}
}

func (r *Router) dispatchRelease(h Handler, button Button) {
	switch button {
	case ButtonOn:
		h.ReleaseOn()
	case ButtonOff:
		h.ReleaseOff()
	case ButtonStop:
		h.ReleaseStop()
	case ButtonRaise:
		h.ReleaseRaise()
	case ButtonLower:
		h.ReleaseLower()
	default:
		r.logger.Debug("dispatch dropped, unknown button", "button", string(button))
	}
}
