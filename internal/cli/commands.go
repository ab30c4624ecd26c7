package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/dish/internal/errors"
)

// Command-specific flags
var (
	initHostFlag string
	initPortFlag int
	initForce    bool
)

// initCmd creates a new .dish.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Create .dish.yaml configuration",
	Long: `Initialize a new dish configuration file.

Creates a .dish.yaml file in the current directory so future runs of
dish serve the same directory with the same settings. Guides you
through the choices with interactive prompts.

Examples:
  dish init
  dish init ~/shared
  dish init --host 0.0.0.0 --port 9090
  dish init --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		}
		return initCommand(InitOptions{
			Root:      dir,
			Host:      initHostFlag,
			Port:      initPortFlag,
			HostSet:   cmd.Flags().Changed("host"),
			PortSet:   cmd.Flags().Changed("port"),
			Overwrite: initForce,
		})
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for dish.

Examples:
  # Bash
  dish completion bash > /etc/bash_completion.d/dish

  # Zsh
  dish completion zsh > "${fpath[1]}/_dish"

  # Fish
  dish completion fish > ~/.config/fish/completions/dish.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// init command flags
	initCmd.Flags().StringVar(&initHostFlag, "host", "127.0.0.1", "address to bind (0.0.0.0 shares on the LAN)")
	initCmd.Flags().IntVarP(&initPortFlag, "port", "p", 8080, "TCP port to serve on (0 picks a free port)")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")

	// Register all commands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
}
