package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutu-network/reimburse/internal/daemon"
)

// ─── rates ──────────────────────────────────────────────────────────────────

func newRatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Show the constant table",
		Long:  `Print the nine coefficients used by the calculator. With --config, print the table that file produces.`,
		Args:  cobra.NoArgs,
		RunE:  runRates,
	}
	cmd.Flags().StringP("config", "c", "", "Path to a TOML config file")
	cmd.Flags().Bool("json", false, "Print JSON instead of a table")
	return cmd
}

func runRates(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := daemon.Load(configPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg.Rates)
	}

	for _, f := range cfg.Rates.Fields() {
		fmt.Fprintf(out, "%-22s %g\n", f.Name, f.Value)
	}
	return nil
}
