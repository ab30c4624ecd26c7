package monitor

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/dish/internal/server"
)

func mustAddrPort(t *testing.T, s string) netip.AddrPort {
	t.Helper()
	addr, err := netip.ParseAddrPort(s)
	require.NoError(t, err)
	return addr
}

func TestNewRecord(t *testing.T) {
	now := time.Now()
	addr := mustAddrPort(t, "192.0.2.1:5000")

	r := newRecord(addr, now)

	assert.Equal(t, addr, r.addr)
	assert.Equal(t, int64(0), r.bytesSent)
	assert.Equal(t, int64(0), r.bytesRequested)
	assert.Equal(t, now, r.updateTime)
	assert.Equal(t, now, r.prevUpdateTime)
}

func TestRecord_Apply(t *testing.T) {
	r := newRecord(mustAddrPort(t, "192.0.2.1:5000"), time.Now())

	r.apply(server.ConnView{Addr: "192.0.2.1:5000", BytesSent: 512, BytesRequested: 1024, Path: "/video.mkv"})

	assert.Equal(t, int64(512), r.bytesSent)
	assert.Equal(t, int64(1024), r.bytesRequested)
	assert.Equal(t, "/video.mkv", r.lastPath)

	// An empty path means the request line is still being read; the
	// known path sticks instead of flickering back to the placeholder.
	r.apply(server.ConnView{Addr: "192.0.2.1:5000", BytesSent: 600, BytesRequested: 1024})
	assert.Equal(t, int64(600), r.bytesSent)
	assert.Equal(t, "/video.mkv", r.lastPath)
}

func TestRecord_DisplayPath(t *testing.T) {
	r := newRecord(mustAddrPort(t, "192.0.2.1:5000"), time.Now())

	assert.Equal(t, PendingPathLabel, r.displayPath())

	r.lastPath = "/music/track.flac"
	assert.Equal(t, "/music/track.flac", r.displayPath())
}

func TestRecord_EstimatedSpeed_ZeroElapsed(t *testing.T) {
	now := time.Now()
	r := newRecord(mustAddrPort(t, "192.0.2.1:5000"), now)
	r.bytesSent = 500

	// Sampled in the same instant it was created: no measurable time has
	// passed, so no sample is recorded.
	speed := r.estimatedSpeed(now)

	assert.Equal(t, 0.0, speed)
	assert.Equal(t, int64(0), r.prevBytesSent)
	assert.Equal(t, speedWindow{}, r.window)

	// The deferred bytes are attributed to the next real interval.
	speed = r.estimatedSpeed(now.Add(time.Second))
	assert.InDelta(t, 500.0/speedSlots, speed, 0.001)
	assert.Equal(t, int64(500), r.prevBytesSent)
}

func TestRecord_EstimatedSpeed_ClockGoesBackward(t *testing.T) {
	now := time.Now()
	r := newRecord(mustAddrPort(t, "192.0.2.1:5000"), now)
	r.bytesSent = 500

	speed := r.estimatedSpeed(now.Add(-time.Second))

	assert.Equal(t, 0.0, speed)
	assert.Equal(t, speedWindow{}, r.window)
}

func TestRecord_EstimatedSpeed_AdvancesClock(t *testing.T) {
	t0 := time.Now()
	t1 := t0.Add(time.Second)
	r := newRecord(mustAddrPort(t, "192.0.2.1:5000"), t0)

	r.estimatedSpeed(t1)

	assert.Equal(t, t0, r.prevUpdateTime)
	assert.Equal(t, t1, r.updateTime)
}

func TestRecord_EstimatedSpeed_RampUp(t *testing.T) {
	t0 := time.Now()
	r := newRecord(mustAddrPort(t, "192.0.2.1:5000"), t0)

	// 3000 bytes in the first second: instantaneous rate 3000 B/s, but
	// the displayed speed ramps up because the window is still mostly
	// empty.
	r.bytesSent = 3000
	speed := r.estimatedSpeed(t0.Add(time.Second))

	assert.InDelta(t, 1000.0, speed, 0.001)
}

func TestRecord_EstimatedSpeed_SteadyTransfer(t *testing.T) {
	t0 := time.Now()
	r := newRecord(mustAddrPort(t, "192.0.2.1:5000"), t0)

	// 1000 B/s sustained for three samples settles at 1000 B/s.
	var speed float64
	for i := 1; i <= speedSlots; i++ {
		r.bytesSent = int64(i * 1000)
		speed = r.estimatedSpeed(t0.Add(time.Duration(i) * time.Second))
	}

	assert.InDelta(t, 1000.0, speed, 0.001)
}

func TestRecord_EstimatedSpeed_SubSecondInterval(t *testing.T) {
	t0 := time.Now()
	r := newRecord(mustAddrPort(t, "192.0.2.1:5000"), t0)

	// 100 bytes in 100ms is 1000 B/s, diluted across the window.
	r.bytesSent = 100
	speed := r.estimatedSpeed(t0.Add(100 * time.Millisecond))

	assert.InDelta(t, 1000.0/speedSlots, speed, 0.001)
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name      string
		sent      int64
		requested int64
		expect    int
	}{
		{"nothing requested", 0, 0, 0},
		{"sent before request parsed", 500, 0, 0},
		{"negative requested", 500, -1, 0},
		{"zero sent", 0, 1000, 0},
		{"half", 500, 1000, 50},
		{"rounds down", 1, 3, 33},
		{"complete", 1000, 1000, 100},
		{"headers push sent past requested", 1048, 1000, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, percent(tt.sent, tt.requested))
		})
	}
}
