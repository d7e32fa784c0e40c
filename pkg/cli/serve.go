package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/getmockd/mimic/pkg/server"
)

var (
	serveListen  string
	serveBaseURL string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mimic server (foreground)",
	Example: `  # Start with the built-in configuration on :8900
  mimic serve

  # Start from a configuration directory on another port
  mimic serve --config ./mimic.d --listen :9000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveListen != "" {
			cfg.Listen = serveListen
			// Derive the base URL from the bound address.
			cfg.BaseURL = ""
		}
		if serveBaseURL != "" {
			cfg.BaseURL = serveBaseURL
		}

		srv, err := server.New(cfg, server.WithLogger(newLogger(cmd, cfg)))
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "Listen address (overrides configuration and resets the base URL)")
	serveCmd.Flags().StringVar(&serveBaseURL, "base-url", "", "Public base URL used in catalog endpoints")
	rootCmd.AddCommand(serveCmd)
}
