package server

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
)

// ConnView is a point-in-time snapshot of one tracked connection, safe to
// hand to other goroutines.
type ConnView struct {
	// Addr is the peer address in host:port form.
	Addr string
	// BytesSent is the number of bytes written to the socket so far,
	// headers included.
	BytesSent int64
	// BytesRequested is the size of the response body promised to the
	// peer, summed across requests on this connection.
	BytesRequested int64
	// Path is the most recent request path, empty until the first
	// request line has been read.
	Path string
}

// TrackedConn wraps a net.Conn and counts every byte written to it.
// The HTTP handler adds the request path and the promised response size
// as it learns them.
type TrackedConn struct {
	net.Conn

	id      uint64
	remote  string // captured at accept; RemoteAddr can be nil after close
	tracker *Tracker

	bytesSent      atomic.Int64
	bytesRequested atomic.Int64

	mu   sync.Mutex
	path string

	closeOnce sync.Once
}

// Write counts bytes actually accepted by the socket, then delegates.
func (c *TrackedConn) Write(b []byte) (int, error) {
	n, err := c.Conn.Write(b)
	if n > 0 {
		c.bytesSent.Add(int64(n))
		c.tracker.totalSent.Add(int64(n))
	}
	return n, err
}

// Close removes the connection from its tracker exactly once, then closes
// the underlying socket. net/http closes connections more than once in
// some paths.
func (c *TrackedConn) Close() error {
	c.closeOnce.Do(func() {
		c.tracker.remove(c.id)
	})
	return c.Conn.Close()
}

// SetPath records the request path currently being served.
func (c *TrackedConn) SetPath(p string) {
	c.mu.Lock()
	c.path = p
	c.mu.Unlock()
}

// AddRequested adds n bytes to the promised response size.
func (c *TrackedConn) AddRequested(n int64) {
	c.bytesRequested.Add(n)
}

// View snapshots the connection's current state.
func (c *TrackedConn) View() ConnView {
	c.mu.Lock()
	path := c.path
	c.mu.Unlock()

	return ConnView{
		Addr:           c.remote,
		BytesSent:      c.bytesSent.Load(),
		BytesRequested: c.bytesRequested.Load(),
		Path:           path,
	}
}

// Tracker maintains the table of live connections and the aggregate byte
// count across all of them, past and present.
type Tracker struct {
	mu     sync.Mutex
	conns  map[uint64]*TrackedConn
	nextID uint64

	totalSent atomic.Int64
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{conns: make(map[uint64]*TrackedConn)}
}

// Wrap returns a listener whose accepted connections are tracked.
func (t *Tracker) Wrap(ln net.Listener) net.Listener {
	return &trackedListener{Listener: ln, tracker: t}
}

// add registers a new connection and returns its tracked wrapper.
func (t *Tracker) add(conn net.Conn) *TrackedConn {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	tc := &TrackedConn{
		Conn:    conn,
		id:      t.nextID,
		remote:  conn.RemoteAddr().String(),
		tracker: t,
	}
	t.conns[tc.id] = tc
	return tc
}

// remove drops a connection from the table. Its bytes stay in the
// aggregate total.
func (t *Tracker) remove(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.conns, id)
}

// Snapshot returns a view of every live connection.
func (t *Tracker) Snapshot() []ConnView {
	t.mu.Lock()
	defer t.mu.Unlock()

	views := make([]ConnView, 0, len(t.conns))
	for _, c := range t.conns {
		views = append(views, c.View())
	}
	return views
}

// Len returns the number of live connections.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.conns)
}

// TotalSent returns the total bytes written across all connections since
// the tracker was created.
func (t *Tracker) TotalSent() int64 {
	return t.totalSent.Load()
}

// trackedListener wraps Accept so every connection enters the table
// before net/http sees it.
type trackedListener struct {
	net.Listener
	tracker *Tracker
}

func (l *trackedListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	return l.tracker.add(conn), nil
}

// connCtxKey keys the tracked connection in a request context.
type connCtxKey struct{}

// trackConnContext is an http.Server.ConnContext hook that makes the
// tracked connection reachable from request handlers.
func trackConnContext(ctx context.Context, c net.Conn) context.Context {
	if tc, ok := c.(*TrackedConn); ok {
		return context.WithValue(ctx, connCtxKey{}, tc)
	}
	return ctx
}

// TrackedFromContext returns the tracked connection a request arrived on,
// if the server installed one.
func TrackedFromContext(ctx context.Context) (*TrackedConn, bool) {
	tc, ok := ctx.Value(connCtxKey{}).(*TrackedConn)
	return tc, ok
}
