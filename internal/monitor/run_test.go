package monitor

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/dish/internal/logger"
	"github.com/rileyhilliard/dish/internal/server"
)

// startShare binds a server on an ephemeral loopback port, wires it to a
// fresh registry, and returns both.
func startShare(t *testing.T, dir string, log logger.Logger) (*server.Server, *Registry) {
	t.Helper()

	srv, err := server.New(server.Config{
		Root:             dir,
		Host:             "127.0.0.1",
		Port:             0,
		SnapshotInterval: 10 * time.Millisecond,
		Logger:           log,
	})
	require.NoError(t, err)
	require.NoError(t, srv.Bind())

	reg := NewRegistry()
	srv.OnSnapshot(reg.Offer)
	return srv, reg
}

func TestRun_HeadlessServesAndShutsDown(t *testing.T) {
	dir := t.TempDir()
	content := []byte("hello from dish")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.txt"), content, 0o644))

	log := logger.NewBufferLogger()
	srv, reg := startShare(t, dir, log)

	// Test binaries never run on a TTY, so Run takes the headless path.
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, srv, reg, 10*time.Millisecond, log)
	}()

	resp, err := http.Get(srv.URL() + "/hello.txt")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, content, body)

	// The keep-alive connection shows up in snapshots until it closes.
	assert.Eventually(t, func() bool {
		return reg.Len() == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Sample until the reconciled record carries the transfer.
	var row Row
	require.Eventually(t, func() bool {
		rows, fresh := reg.Sample(time.Now())
		if !fresh || len(rows) != 1 {
			return false
		}
		row = rows[0]
		return row.BytesSent > 0
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, "/hello.txt", row.Path)
	assert.Equal(t, int64(len(content)), row.BytesRequested)
	// Headers ride the same socket, so sent outruns the body size.
	assert.Greater(t, row.BytesSent, int64(len(content)))
	assert.Equal(t, 100, row.Percent)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down after cancel")
	}

	assert.True(t, log.HasLevel("info"))
}

func TestRun_HeadlessAnnouncesShare(t *testing.T) {
	dir := t.TempDir()
	log := logger.NewBufferLogger()
	srv, reg := startShare(t, dir, log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, srv, reg, 10*time.Millisecond, log)
	}()

	assert.Eventually(t, func() bool {
		for _, msg := range log.Messages() {
			if strings.Contains(msg.Message, srv.URL()) {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down after cancel")
	}
}

func TestRun_CanceledContextReturnsPromptly(t *testing.T) {
	dir := t.TempDir()
	srv, reg := startShare(t, dir, logger.Noop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, srv, reg, 10*time.Millisecond, logger.Noop())
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("run did not return for a canceled context")
	}
}
