package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/mimic/pkg/config"
)

var configOutput string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration mimic would run with after merging the --config
source, defaults and environment overrides. Exits non-zero when the result
is invalid.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format := config.Format(configOutput)
		if jsonOutput {
			format = config.FormatJSON
		}
		switch format {
		case config.FormatYAML, config.FormatTOML, config.FormatJSON:
		default:
			return fmt.Errorf("%w: %q (want yaml, toml or json)", ErrInvalidOutput, configOutput)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		data, err := config.Marshal(cfg, format)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if _, err := out.Write(data); err != nil {
			return err
		}
		if len(data) > 0 && data[len(data)-1] != '\n' {
			_, err = fmt.Fprintln(out)
		}
		return err
	},
}

func init() {
	configCmd.Flags().StringVarP(&configOutput, "output", "o", string(config.FormatYAML), "Output format: yaml, toml or json")
	rootCmd.AddCommand(configCmd)
}
