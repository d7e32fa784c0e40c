package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/mimic/pkg/config"
	"github.com/getmockd/mimic/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	configPath string
	logLevel   string
	jsonOutput bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// ErrInvalidOutput is returned for an unsupported --output value.
var ErrInvalidOutput = errors.New("invalid output format")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mimic",
	Short: "mimic serves a mock service catalog and mock service APIs",
	Long: `mimic is a mock of a cloud identity service and the APIs it advertises.

Clients authenticate against /identity/v2.0/tokens with any credentials and
receive a service catalog whose endpoints point back at mimic. State created
through those endpoints is kept per tenant and region until the server stops.

Configuration is read from --config (a file or a directory of fragments),
then overridden by MIMIC_LISTEN, MIMIC_BASE_URL and MIMIC_LOG_LEVEL.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Run()
}

// Run executes the command line and returns the process exit code.
func Run() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// Execute runs the command line and exits on failure.
// This is called by main.main().
func Execute() {
	if code := Run(); code != 0 {
		os.Exit(code)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file or directory (default: built-in configuration)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
}

// loadConfig returns the effective configuration: the --config source or
// the defaults, environment overrides and then flags.
func loadConfig() (*config.ServerConfiguration, error) {
	var (
		cfg *config.ServerConfiguration
		err error
	)
	if configPath == "" {
		cfg = config.DefaultServerConfiguration()
	} else if cfg, err = config.Load(configPath); err != nil {
		return nil, err
	}

	cfg.ApplyEnv()
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger creates the operational logger for cfg, writing to the
// command's stderr.
func newLogger(cmd *cobra.Command, cfg *config.ServerConfiguration) *slog.Logger {
	lc := cfg.Log.Logging()
	lc.Output = cmd.ErrOrStderr()
	return logging.New(lc)
}
