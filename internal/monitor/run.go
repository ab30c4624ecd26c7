package monitor

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/rileyhilliard/dish/internal/errors"
	"github.com/rileyhilliard/dish/internal/logger"
	"github.com/rileyhilliard/dish/internal/server"
)

// Run serves files with the dashboard in the foreground. The server runs
// in a background goroutine while the TUI owns the terminal; once the TUI
// exits, the server context is canceled and its shutdown error, if any,
// is returned.
//
// On a terminal that is not a TTY the dashboard is skipped and the server
// runs headless until ctx is canceled.
//
// The server must already be bound, with its snapshot notifier wired to
// reg.Offer.
func Run(ctx context.Context, srv *server.Server, reg *Registry, interval time.Duration, log logger.Logger) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return RunHeadless(ctx, srv, log)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := NewControlBus()
	model := NewModel(reg, bus, ServeInfo{
		Root:   srv.Root(),
		URL:    srv.URL(),
		Served: srv.TotalSent,
	}, interval)

	program := tea.NewProgram(model, tea.WithAltScreen())

	// Run the server in the background. Whichever way it exits, clean
	// shutdown or failure, the TUI is told to stop.
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(ctx)
		bus.RequestQuit()
	}()

	// Outer cancellation (signals handled by the CLI layer) also stops
	// the TUI.
	go func() {
		<-ctx.Done()
		bus.RequestQuit()
	}()

	// Run the TUI (blocks until a quit request lands).
	if _, err := program.Run(); err != nil {
		cancel()
		<-errCh
		return errors.WrapWithCode(err, errors.ErrDashboard,
			"Dashboard terminated unexpectedly",
			"Re-run with --no-dashboard to serve without the TUI")
	}

	// TUI is done; stop the server and surface its exit error.
	cancel()
	return <-errCh
}

// RunHeadless serves without the TUI until ctx is canceled. Run falls
// back to it when stdout is not a terminal; the CLI calls it directly
// for --no-dashboard.
func RunHeadless(ctx context.Context, srv *server.Server, log logger.Logger) error {
	log.Info("Serving %s at %s", srv.Root(), srv.URL())
	log.Info("Press Ctrl+C to stop")
	return srv.Run(ctx)
}
