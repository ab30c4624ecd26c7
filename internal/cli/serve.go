package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	qrterminal "github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/dish/internal/config"
	"github.com/rileyhilliard/dish/internal/errors"
	"github.com/rileyhilliard/dish/internal/logger"
	"github.com/rileyhilliard/dish/internal/monitor"
	"github.com/rileyhilliard/dish/internal/server"
)

// serveOverrides carries the root command's flag values along with
// whether each one was actually set on the command line.
type serveOverrides struct {
	dir string

	host    string
	hostSet bool

	port    int
	portSet bool

	interval    string
	intervalSet bool

	logFile    string
	logFileSet bool
}

// applyOverrides layers flag values over the loaded config and validates
// the result. Only flags the user set override file values.
func applyOverrides(cfg *config.Config, o serveOverrides) error {
	if o.dir != "" {
		cfg.Root = o.dir
	}
	if o.hostSet {
		cfg.Host = o.host
	}
	if o.portSet {
		cfg.Port = o.port
	}
	if o.logFileSet {
		cfg.Log.File = o.logFile
	}
	if o.intervalSet {
		parsed, err := time.ParseDuration(o.interval)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Invalid refresh interval: %s", o.interval),
				"Use a duration like 100ms, 250ms, or 1s")
		}
		cfg.Refresh = parsed
	}

	return config.Validate(cfg)
}

// serveCommand is the root command implementation: load config, apply
// flag overrides, bind, then serve with or without the dashboard.
func serveCommand(cmd *cobra.Command, dir string) error {
	cfg, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return err
	}

	o := serveOverrides{
		dir:         dir,
		host:        hostFlag,
		hostSet:     cmd.Flags().Changed("host"),
		port:        portFlag,
		portSet:     cmd.Flags().Changed("port"),
		interval:    intervalFlag,
		intervalSet: cmd.Flags().Changed("interval"),
		logFile:     logFileFlag,
		logFileSet:  cmd.Flags().Changed("log-file"),
	}
	if err := applyOverrides(cfg, o); err != nil {
		return err
	}

	log, closeLog, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	srv, err := server.New(server.Config{
		Root:             cfg.Root,
		Host:             cfg.Host,
		Port:             cfg.Port,
		SnapshotInterval: cfg.Refresh,
		Logger:           log,
	})
	if err != nil {
		return err
	}
	if err := srv.Bind(); err != nil {
		return err
	}

	reg := monitor.NewRegistry()
	srv.OnSnapshot(reg.Offer)

	if qrFlag {
		printQR(srv.URL())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if noDashboardFlag {
		return monitor.RunHeadless(ctx, srv, log)
	}
	return monitor.Run(ctx, srv, reg, cfg.Refresh, log)
}

// buildLogger picks the log sink: a file when configured, otherwise
// stderr with debug lines gated on DISH_DEBUG.
func buildLogger(cfg *config.Config) (logger.Logger, func(), error) {
	if cfg.Log.File == "" {
		return logger.NewEnvLogger("[dish]"), func() {}, nil
	}

	fl, err := logger.NewFileLogger(cfg.Log.File)
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Cannot open log file %s", cfg.Log.File),
			"Check the path and directory permissions")
	}
	logger.SetDefault(fl)
	return fl, func() { fl.Close() }, nil
}

// printQR renders the share URL as a QR code so phones on the same
// network can open it without typing.
func printQR(url string) {
	fmt.Println()
	qrterminal.GenerateHalfBlock(url, qrterminal.L, os.Stdout)
	fmt.Println(url)
	fmt.Println()
}
