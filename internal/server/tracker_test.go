package server

import (
	"context"
	"io"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTrackedPipe registers one end of an in-memory pipe with the tracker
// and drains the other end so writes never block.
func newTrackedPipe(t *testing.T, tr *Tracker) *TrackedConn {
	t.Helper()

	client, srv := net.Pipe()
	t.Cleanup(func() {
		client.Close()
		srv.Close()
	})
	go io.Copy(io.Discard, client)

	return tr.add(srv)
}

func TestTracker_AddAndRemove(t *testing.T) {
	tr := NewTracker()
	assert.Equal(t, 0, tr.Len())

	a := newTrackedPipe(t, tr)
	b := newTrackedPipe(t, tr)
	assert.Equal(t, 2, tr.Len())

	require.NoError(t, a.Close())
	assert.Equal(t, 1, tr.Len())

	// net/http closes connections more than once in some shutdown
	// paths; the second close must not disturb the table.
	_ = a.Close()
	assert.Equal(t, 1, tr.Len())

	require.NoError(t, b.Close())
	assert.Equal(t, 0, tr.Len())
}

func TestTrackedConn_WriteCounts(t *testing.T) {
	tr := NewTracker()
	tc := newTrackedPipe(t, tr)

	n, err := tc.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = tc.Write([]byte(" world"))
	require.NoError(t, err)

	assert.Equal(t, int64(11), tc.View().BytesSent)
	assert.Equal(t, int64(11), tr.TotalSent())
}

func TestTrackedConn_View(t *testing.T) {
	tr := NewTracker()
	tc := newTrackedPipe(t, tr)

	tc.SetPath("/video.mkv")
	tc.AddRequested(2048)
	_, err := tc.Write([]byte("data"))
	require.NoError(t, err)

	v := tc.View()
	assert.Equal(t, "/video.mkv", v.Path)
	assert.Equal(t, int64(2048), v.BytesRequested)
	assert.Equal(t, int64(4), v.BytesSent)
	assert.NotEmpty(t, v.Addr)
}

func TestTrackedConn_AddRequestedAccumulates(t *testing.T) {
	tr := NewTracker()
	tc := newTrackedPipe(t, tr)

	// Keep-alive connections serve several requests; the promised size
	// grows with each one.
	tc.AddRequested(100)
	tc.AddRequested(250)

	assert.Equal(t, int64(350), tc.View().BytesRequested)
}

func TestTracker_SnapshotIsIndependentCopy(t *testing.T) {
	tr := NewTracker()
	tc := newTrackedPipe(t, tr)
	tc.SetPath("/before")

	views := tr.Snapshot()
	require.Len(t, views, 1)

	tc.SetPath("/after")
	tc.AddRequested(10)

	assert.Equal(t, "/before", views[0].Path)
	assert.Equal(t, int64(0), views[0].BytesRequested)
}

func TestTracker_TotalSentSurvivesClose(t *testing.T) {
	tr := NewTracker()
	tc := newTrackedPipe(t, tr)

	_, err := tc.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, tc.Close())

	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, int64(7), tr.TotalSent())
}

func TestTracker_WrapAcceptsTrackedConns(t *testing.T) {
	tr := NewTracker()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	wrapped := tr.Wrap(ln)
	defer wrapped.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	var accepted net.Conn
	go func() {
		defer wg.Done()
		accepted, _ = wrapped.Accept()
	}()

	client, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer client.Close()

	wg.Wait()
	require.NotNil(t, accepted)
	defer accepted.Close()

	tc, ok := accepted.(*TrackedConn)
	require.True(t, ok, "accepted connections should be tracked")
	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, client.LocalAddr().String(), tc.View().Addr)
}

func TestTrackedFromContext(t *testing.T) {
	tr := NewTracker()
	tc := newTrackedPipe(t, tr)

	ctx := trackConnContext(context.Background(), tc)
	got, ok := TrackedFromContext(ctx)
	assert.True(t, ok)
	assert.Same(t, tc, got)

	// Untracked connections leave the context alone.
	client, srv := net.Pipe()
	defer client.Close()
	defer srv.Close()

	ctx = trackConnContext(context.Background(), srv)
	_, ok = TrackedFromContext(ctx)
	assert.False(t, ok)
}
