package monitor

import (
	"net/netip"
	"time"

	"github.com/rileyhilliard/dish/internal/server"
)

// PendingPathLabel is shown for a connection that has been accepted but
// whose request line has not been parsed yet.
const PendingPathLabel = "[Reading...]"

// record is the registry's live bookkeeping for one peer connection.
// Counters are overwritten wholesale on every reconcile; the speed window
// and timestamps persist across reconciles so the rate estimate survives.
type record struct {
	addr           netip.AddrPort
	bytesSent      int64
	bytesRequested int64
	lastPath       string

	// Speed estimation state. prevBytesSent and prevUpdateTime mark the
	// last accepted sample point.
	prevBytesSent  int64
	updateTime     time.Time
	prevUpdateTime time.Time
	window         speedWindow
}

// newRecord creates a record for a freshly observed peer. Both timestamps
// start at now, so a sample taken in the same millisecond reports zero
// instead of dividing by a tiny elapsed time.
func newRecord(addr netip.AddrPort, now time.Time) *record {
	return &record{
		addr:           addr,
		updateTime:     now,
		prevUpdateTime: now,
	}
}

// apply copies the server's view of the connection into the record.
// Counters are copied verbatim. An empty path means the request line has
// not been read yet, so the previous value is kept; a known path never
// regresses to the placeholder.
func (r *record) apply(v server.ConnView) {
	r.bytesSent = v.BytesSent
	r.bytesRequested = v.BytesRequested
	if v.Path != "" {
		r.lastPath = v.Path
	}
}

// estimatedSpeed advances the record's clock to now and returns the
// smoothed transfer rate in bytes per second. If no measurable time has
// passed since the previous sample the window is left untouched and the
// reported speed is zero.
func (r *record) estimatedSpeed(now time.Time) float64 {
	r.prevUpdateTime = r.updateTime
	r.updateTime = now

	ms := r.updateTime.Sub(r.prevUpdateTime).Milliseconds()
	if ms <= 0 {
		return 0
	}

	sample := float64(r.bytesSent-r.prevBytesSent) / float64(ms) * 1000
	r.window.push(sample)
	r.prevBytesSent = r.bytesSent

	return r.window.average()
}

// displayPath returns the path to render for this record.
func (r *record) displayPath() string {
	if r.lastPath == "" {
		return PendingPathLabel
	}
	return r.lastPath
}

// percent returns transfer progress as an integer percentage, clamped to
// 100. Socket-level byte counts include response headers, so sent can run
// slightly ahead of the requested body size.
func percent(sent, requested int64) int {
	if requested <= 0 {
		return 0
	}
	p := int(100 * sent / requested)
	if p > 100 {
		p = 100
	}
	return p
}
