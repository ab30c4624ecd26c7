package monitor

// Control is a message on the ControlBus.
type Control int

const (
	// ControlQuit asks the render loop to shut the program down.
	ControlQuit Control = iota
)

// ControlBus carries control messages from any number of producers to the
// render loop. The channel holds a single message; posting to a full bus
// is a no-op, so producers never block and duplicate requests collapse
// into one.
type ControlBus struct {
	ch chan Control
}

// NewControlBus returns a bus with an empty slot.
func NewControlBus() *ControlBus {
	return &ControlBus{ch: make(chan Control, 1)}
}

// RequestQuit posts a quit message without blocking. If a message is
// already pending the request is dropped.
func (b *ControlBus) RequestQuit() {
	select {
	case b.ch <- ControlQuit:
	default:
	}
}

// Poll returns the pending message, if any, without blocking.
func (b *ControlBus) Poll() (Control, bool) {
	select {
	case c := <-b.ch:
		return c, true
	default:
		return 0, false
	}
}
