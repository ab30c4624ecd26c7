// Package cli implements the dish command-line interface.
//
// The package is organized around Cobra commands. Serving is the root
// command itself, with a few small subcommands around it:
//
//	dish [directory]    - Serve a directory with the live dashboard
//	dish init           - Create a .dish.yaml config
//	dish version        - Print version information
//	dish completion     - Generate shell completion scripts
//
// # Serve Flow
//
// Running the bare root command walks the same phases every time:
//
//  1. Load config (--config, ./.dish.yaml, then ~/.config/dish/config.yaml)
//  2. Apply flag overrides (a flag beats the file only when actually set)
//  3. Bind the listen socket, failing fast on a busy port
//  4. Print a QR code for the share URL with --qr
//  5. Run the dashboard, or serve headless with --no-dashboard; either way
//     the share URL is announced (dashboard pane or startup log line)
//
// Interrupt signals cancel the serve context, so Ctrl+C triggers the
// same graceful drain in both modes.
//
// # Flag Handling
//
// Serve flags live on the root command. Overrides are detected with
// cobra's Changed so a config file value survives unless the user
// passed the flag on this invocation.
package cli
