package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/mimic/internal/id"
	"github.com/getmockd/mimic/pkg/cli/internal/output"
	"github.com/getmockd/mimic/pkg/composer"
	"github.com/getmockd/mimic/pkg/server"
)

var (
	catalogTenant string
	catalogOutput string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the service catalog a tenant would receive",
	Long: `Compose the service catalog of a tenant from the configured plugins without
starting a server. Endpoint identifiers are generated on every run.`,
	Example: `  mimic catalog --tenant 123456
  mimic catalog --config mimic.yaml --output yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format := catalogOutput
		if jsonOutput {
			format = "json"
		}
		if format != "json" && format != "yaml" {
			return fmt.Errorf("%w: %q (want json or yaml)", ErrInvalidOutput, format)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		reg, err := server.RegistryFromConfig(cfg)
		if err != nil {
			return err
		}

		tenant := catalogTenant
		if tenant == "" {
			tenant = id.TenantID()
		}
		doc, err := composer.New(reg).Compose(tenant)
		if err != nil {
			return fmt.Errorf("compose catalog: %w", err)
		}

		if format == "yaml" {
			return output.YAML(cmd.OutOrStdout(), doc)
		}
		return output.JSON(cmd.OutOrStdout(), doc)
	},
}

func init() {
	catalogCmd.Flags().StringVarP(&catalogTenant, "tenant", "t", "", "Tenant ID (default: generated)")
	catalogCmd.Flags().StringVarP(&catalogOutput, "output", "o", "json", "Output format: json or yaml")
	rootCmd.AddCommand(catalogCmd)
}
