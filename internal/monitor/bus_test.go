package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestControlBus_PollEmpty(t *testing.T) {
	bus := NewControlBus()

	_, ok := bus.Poll()
	assert.False(t, ok)
}

func TestControlBus_RequestQuit(t *testing.T) {
	bus := NewControlBus()

	bus.RequestQuit()

	c, ok := bus.Poll()
	assert.True(t, ok)
	assert.Equal(t, ControlQuit, c)

	// The slot is drained.
	_, ok = bus.Poll()
	assert.False(t, ok)
}

func TestControlBus_CoalescesRequests(t *testing.T) {
	bus := NewControlBus()

	// Several producers can fire at once; surplus requests are dropped
	// rather than queued, and nobody blocks.
	for i := 0; i < 10; i++ {
		bus.RequestQuit()
	}

	_, ok := bus.Poll()
	assert.True(t, ok)

	_, ok = bus.Poll()
	assert.False(t, ok)
}

func TestControlBus_ReusableAfterDrain(t *testing.T) {
	bus := NewControlBus()

	bus.RequestQuit()
	_, ok := bus.Poll()
	assert.True(t, ok)

	bus.RequestQuit()
	_, ok = bus.Poll()
	assert.True(t, ok)
}
