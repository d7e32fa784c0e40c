package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/mimic/pkg/cli/internal/output"
	"github.com/getmockd/mimic/pkg/server"
)

// PluginOutput is one row of `mimic plugins --json`.
type PluginOutput struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List the configured plugins in catalog order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		reg, err := server.RegistryFromConfig(cfg)
		if err != nil {
			return err
		}

		rows := make([]PluginOutput, 0, reg.Len())
		for _, p := range reg.Plugins() {
			row := PluginOutput{Name: p.Name(), Kind: p.Kind().String()}
			if m, ok := p.DomainMock(); ok {
				row.Detail = m.Domain()
			}
			rows = append(rows, row)
		}

		if jsonOutput {
			return output.JSON(cmd.OutOrStdout(), rows)
		}

		tw := output.Table(cmd.OutOrStdout())
		fmt.Fprintln(tw, "NAME\tKIND\tDETAIL")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Kind, r.Detail)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if len(rows) == 0 {
			output.Warn(cmd.ErrOrStderr(), "no plugins configured; enable one of: %s", strings.Join(server.Builtins, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pluginsCmd)
}
