package monitor

import (
	"net/netip"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/dish/internal/server"
)

// Registry tracks per-peer transfer state between the HTTP server and the
// render loop.
//
// The two sides hand the table back and forth through needsUpdate: the
// render loop arms the flag every time it samples, and the server only
// reconciles a snapshot when it can claim an armed flag. At most one
// reconcile lands per render cycle, so a fast snapshot ticker cannot
// starve rendering, and the render loop skips rebuilding rows on cycles
// where nothing new arrived.
type Registry struct {
	mu    sync.Mutex
	conns map[netip.AddrPort]*record

	// needsUpdate is true when the render loop has consumed the current
	// state and wants a fresh snapshot reconciled in.
	needsUpdate atomic.Bool
}

// NewRegistry returns an empty registry ready to accept its first
// snapshot.
func NewRegistry() *Registry {
	g := &Registry{conns: make(map[netip.AddrPort]*record)}
	g.needsUpdate.Store(true)
	return g
}

// Offer reconciles a server snapshot if the render loop has asked for one,
// and drops it otherwise. Safe to call from the server's notifier
// goroutine at any rate.
func (g *Registry) Offer(views []server.ConnView) {
	if !g.needsUpdate.CompareAndSwap(true, false) {
		return
	}
	g.Reconcile(views, time.Now())
}

// Reconcile replaces the registry's notion of the live connection set with
// the given snapshot. Peers absent from the snapshot are swept, new peers
// get a record, and existing records keep their speed history. Views whose
// address does not parse as host:port are dropped.
func (g *Registry) Reconcile(views []server.ConnView, now time.Time) {
	current := make(map[netip.AddrPort]server.ConnView, len(views))
	for _, v := range views {
		addr, err := netip.ParseAddrPort(v.Addr)
		if err != nil {
			continue
		}
		current[addr] = v
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for addr := range g.conns {
		if _, ok := current[addr]; !ok {
			delete(g.conns, addr)
		}
	}

	for addr, v := range current {
		r, ok := g.conns[addr]
		if !ok {
			r = newRecord(addr, now)
			g.conns[addr] = r
		}
		r.apply(v)
	}
}

// Sample re-arms the snapshot flag and, if a snapshot landed since the
// previous call, builds display rows from the current records. The second
// return is false when nothing new arrived, in which case the caller
// should keep showing its previous rows.
//
// Each call feeds now into the surviving records, advancing their speed
// estimates.
func (g *Registry) Sample(now time.Time) ([]Row, bool) {
	if g.needsUpdate.Swap(true) {
		return nil, false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	rows := make([]Row, 0, len(g.conns))
	for _, r := range g.conns {
		rows = append(rows, Row{
			Addr:           r.addr.String(),
			Path:           r.displayPath(),
			BytesSent:      r.bytesSent,
			BytesRequested: r.bytesRequested,
			Percent:        percent(r.bytesSent, r.bytesRequested),
			Speed:          r.estimatedSpeed(now),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Addr < rows[j].Addr
	})

	return rows, true
}

// Len returns the number of tracked connections.
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.conns)
}
