package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Root command flags
var (
	configFlag      string
	hostFlag        string
	portFlag        int
	intervalFlag    string
	noDashboardFlag bool
	qrFlag          bool
	logFileFlag     string
)

// rootCmd serves a directory when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "dish [directory]",
	Short: "Serve a directory over HTTP with a live transfer dashboard",
	Long: `Serve a directory over HTTP and watch transfers in a terminal dashboard.

With no arguments, dish serves the configured root (or the current
directory) and opens the dashboard. Point a browser at the printed URL
to browse and download the shared files. Press q to stop serving.

Examples:
  dish                      Serve the current directory
  dish ~/Downloads          Serve a specific directory
  dish -p 9090 ~/shared     Pin the port
  dish --host 0.0.0.0 --qr  Share on the LAN and print a QR code
  dish --no-dashboard       Serve without the TUI`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		}
		return serveCommand(cmd, dir)
	},
}

// Execute runs the root command. Errors are printed in their structured
// form and the process exits non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&configFlag, "config", "", "config file (default .dish.yaml, then ~/.config/dish/config.yaml)")
	rootCmd.Flags().StringVar(&hostFlag, "host", "127.0.0.1", "address to bind (0.0.0.0 shares on the LAN)")
	rootCmd.Flags().IntVarP(&portFlag, "port", "p", 8080, "TCP port to serve on (0 picks a free port)")
	rootCmd.Flags().StringVar(&intervalFlag, "interval", "100ms", "dashboard refresh interval (e.g., 100ms, 250ms)")
	rootCmd.Flags().BoolVar(&noDashboardFlag, "no-dashboard", false, "serve without the TUI")
	rootCmd.Flags().BoolVar(&qrFlag, "qr", false, "print a QR code for the share URL")
	rootCmd.Flags().StringVar(&logFileFlag, "log-file", "", "append logs to this file")
}
