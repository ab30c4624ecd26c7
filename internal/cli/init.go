package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/rileyhilliard/dish/internal/config"
	"github.com/rileyhilliard/dish/internal/errors"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Root           string // Pre-specified directory to serve
	Host           string // Pre-specified bind address
	Port           int    // Pre-specified port
	HostSet        bool   // Host came from a flag or env var
	PortSet        bool   // Port came from a flag or env var
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use flags and defaults
}

// initDefaults are init values pulled from the environment.
type initDefaults struct {
	Root           string
	Host           string
	Port           int
	PortSet        bool
	NonInteractive bool
}

// getInitDefaults reads defaults from DISH_* environment variables.
// CI environments imply non-interactive mode.
func getInitDefaults() initDefaults {
	d := initDefaults{
		Root: os.Getenv("DISH_ROOT"),
		Host: os.Getenv("DISH_HOST"),
	}
	if raw := os.Getenv("DISH_PORT"); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil {
			d.Port = port
			d.PortSet = true
		}
	}
	if os.Getenv("DISH_NON_INTERACTIVE") != "" || os.Getenv("CI") != "" {
		d.NonInteractive = true
	}
	return d
}

// mergeInitOptions fills unset options from environment defaults.
// Flags beat env vars; env vars beat prompts.
func mergeInitOptions(opts InitOptions) InitOptions {
	defaults := getInitDefaults()

	if opts.Root == "" {
		opts.Root = defaults.Root
	}
	if !opts.HostSet && defaults.Host != "" {
		opts.Host = defaults.Host
		opts.HostSet = true
	}
	if !opts.PortSet && defaults.PortSet {
		opts.Port = defaults.Port
		opts.PortSet = true
	}
	if defaults.NonInteractive {
		opts.NonInteractive = true
	}
	return opts
}

// Init creates a new .dish.yaml configuration file.
func Init(opts InitOptions) error {
	configPath := filepath.Join(".", config.ConfigFileName)

	proceed, err := checkExistingConfig(configPath, opts)
	if err != nil {
		return err
	}
	if !proceed {
		fmt.Println("Cancelled.")
		return nil
	}

	var cfg *config.Config
	if opts.NonInteractive {
		cfg = collectNonInteractiveValues(opts)
	} else {
		cfg, err = collectInteractiveValues(opts)
		if err != nil {
			return err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := checkRoot(cfg, opts); err != nil {
		return err
	}
	if err := writeConfig(configPath, cfg); err != nil {
		return err
	}

	fmt.Printf("✓ Created %s\n\n", configPath)
	fmt.Println("Next steps:")
	fmt.Println("  dish                 - Serve the configured directory")
	fmt.Println("  dish --qr            - Also print a QR code for the URL")
	fmt.Println("  dish --host 0.0.0.0  - Share on the LAN")

	return nil
}

// checkExistingConfig decides whether init may proceed when a config
// file already exists. Interactive runs ask; non-interactive runs
// require --force.
func checkExistingConfig(configPath string, opts InitOptions) (bool, error) {
	if _, err := os.Stat(configPath); err != nil {
		return true, nil
	}
	if opts.Overwrite {
		return true, nil
	}
	if opts.NonInteractive {
		return false, errors.New(errors.ErrConfig,
			fmt.Sprintf("There is already a config file at %s", configPath),
			"Use --force to overwrite")
	}

	var overwrite bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
				Value(&overwrite),
		),
	)
	if err := form.Run(); err != nil {
		return false, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Try running with --force to overwrite")
	}
	return overwrite, nil
}

// collectInteractiveValues prompts for the share settings, seeding the
// form with any values already provided by flags or env vars.
func collectInteractiveValues(opts InitOptions) (*config.Config, error) {
	cfg := collectNonInteractiveValues(opts)

	root := cfg.Root
	host := cfg.Host
	port := strconv.Itoa(cfg.Port)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Directory to serve").
				Description("Relative paths resolve against the directory dish runs in").
				Placeholder(".").
				Value(&root).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("directory is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Bind address").
				Description("Who should be able to reach the share").
				Options(
					huh.NewOption("This machine only (127.0.0.1)", "127.0.0.1"),
					huh.NewOption("Everyone on the LAN (0.0.0.0)", "0.0.0.0"),
				).
				Value(&host),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Port").
				Description("0 picks a free port at startup").
				Placeholder("8080").
				Value(&port).
				Validate(validatePort),
		),
	)

	if err := form.Run(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or pass --host and --port directly")
	}

	cfg.Root = root
	cfg.Host = host
	cfg.Port, _ = strconv.Atoi(strings.TrimSpace(port))
	return cfg, nil
}

// collectNonInteractiveValues builds the config from options without
// prompting, leaving defaults for anything unspecified.
func collectNonInteractiveValues(opts InitOptions) *config.Config {
	cfg := config.DefaultConfig()
	if opts.Root != "" {
		cfg.Root = opts.Root
	}
	if opts.HostSet {
		cfg.Host = opts.Host
	}
	if opts.PortSet {
		cfg.Port = opts.Port
	}
	return cfg
}

// validatePort rejects inputs that are not a TCP port number.
func validatePort(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("port is required")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if n < 0 || n > 65535 {
		return fmt.Errorf("port must be between 0 and 65535")
	}
	return nil
}

// checkRoot warns when the chosen directory does not exist yet.
// Interactive runs may save anyway; non-interactive runs fail.
func checkRoot(cfg *config.Config, opts InitOptions) error {
	abs, err := filepath.Abs(cfg.Root)
	if err == nil {
		if info, statErr := os.Stat(abs); statErr == nil && info.IsDir() {
			return nil
		}
	}

	notADir := errors.New(errors.ErrConfig,
		fmt.Sprintf("%s is not a directory", cfg.Root),
		"Create it first or point dish init at an existing directory")

	if opts.NonInteractive {
		return notADir
	}

	var saveAnyway bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("'%s' does not exist yet. Save config anyway?", cfg.Root)).
				Value(&saveAnyway),
		),
	)
	if err := form.Run(); err != nil || !saveAnyway {
		return notADir
	}
	return nil
}

// writeConfig marshals the config with a header comment pointing back
// at the docs.
func writeConfig(configPath string, cfg *config.Config) error {
	data, err := config.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}

	header := `# dish configuration
# Run 'dish' in this directory to serve with these settings
# See: https://github.com/rileyhilliard/dish for documentation

`
	if err := os.WriteFile(configPath, []byte(header+string(data)), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}
	return nil
}

// initCommand is the implementation called by the cobra command.
func initCommand(opts InitOptions) error {
	return Init(mergeInitOptions(opts))
}
