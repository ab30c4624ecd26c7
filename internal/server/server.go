package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rileyhilliard/dish/internal/errors"
	"github.com/rileyhilliard/dish/internal/logger"
)

// shutdownGrace is how long in-flight downloads get to finish before the
// server is closed hard.
const shutdownGrace = 5 * time.Second

// defaultSnapshotInterval matches the dashboard's default refresh rate.
const defaultSnapshotInterval = 100 * time.Millisecond

// Config describes a share to serve.
type Config struct {
	// Root is the directory to share. Defaults to the current directory.
	Root string
	// Host is the address to listen on. Defaults to 127.0.0.1.
	Host string
	// Port is the TCP port. 0 picks an ephemeral port at bind time.
	Port int
	// SnapshotInterval is how often the connection table is published to
	// the snapshot observer.
	SnapshotInterval time.Duration
	// Logger receives request and lifecycle logs. Defaults to the
	// package default logger.
	Logger logger.Logger
}

// Server is the HTTP file server. Create with New, then Bind, then Run.
type Server struct {
	root     string
	host     string
	port     int
	interval time.Duration
	log      logger.Logger

	tracker    *Tracker
	onSnapshot func([]ConnView)

	ln      net.Listener
	httpSrv *http.Server
}

// New validates the share configuration and returns an unbound server.
func New(cfg Config) (*Server, error) {
	root := cfg.Root
	if root == "" {
		root = "."
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Cannot resolve directory %q", root),
			"Check the directory path")
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Cannot access %s", abs),
			"Check that the directory exists and is readable")
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("%s is not a directory", abs),
			"Point dish at a directory to share")
	}

	host := cfg.Host
	if host == "" {
		host = "127.0.0.1"
	}

	interval := cfg.SnapshotInterval
	if interval <= 0 {
		interval = defaultSnapshotInterval
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	return &Server{
		root:     abs,
		host:     host,
		port:     cfg.Port,
		interval: interval,
		log:      log,
		tracker:  NewTracker(),
	}, nil
}

// OnSnapshot registers the observer that receives periodic connection
// snapshots. Must be called before Run.
func (s *Server) OnSnapshot(fn func([]ConnView)) {
	s.onSnapshot = fn
}

// Bind claims the listen address. Calling it before Run lets the caller
// fail fast on a busy port and learn the ephemeral port when Port was 0.
func (s *Server) Bind() error {
	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrServer,
			fmt.Sprintf("Cannot listen on %s", addr),
			"Is the port already in use? Try a different --port")
	}

	if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
		s.port = tcp.Port
	}
	s.ln = s.tracker.Wrap(ln)
	return nil
}

// Run serves until ctx is canceled, then drains in-flight downloads for
// up to the shutdown grace period. Binds first if Bind was not called.
func (s *Server) Run(ctx context.Context) error {
	if s.ln == nil {
		if err := s.Bind(); err != nil {
			return err
		}
	}

	s.httpSrv = &http.Server{
		Handler:     newHandler(s.root, s.log),
		ConnContext: trackConnContext,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := s.httpSrv.Serve(s.ln)
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.WrapWithCode(err, errors.ErrServer,
			"Server stopped unexpectedly", "")
	})

	g.Go(func() error {
		// Publish even when the table is empty so observers can sweep
		// out peers that disconnected.
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if s.onSnapshot != nil {
					s.onSnapshot(s.tracker.Snapshot())
				}
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("Graceful shutdown timed out, closing connections: %v", err)
			s.httpSrv.Close()
		}
		return nil
	})

	return g.Wait()
}

// Root returns the absolute directory being shared.
func (s *Server) Root() string {
	return s.root
}

// Addr returns the bound listen address, or the configured address
// before Bind.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return net.JoinHostPort(s.host, strconv.Itoa(s.port))
}

// URL returns the base URL peers should open. A wildcard listen host is
// swapped for the machine's LAN address so the URL works from other
// devices.
func (s *Server) URL() string {
	host := s.host
	if host == "0.0.0.0" || host == "::" {
		if ip := LanIP(); ip != "" {
			host = ip
		} else {
			host = "127.0.0.1"
		}
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(s.port))
}

// TotalSent returns the total bytes written to all peers since startup.
func (s *Server) TotalSent() int64 {
	return s.tracker.TotalSent()
}
