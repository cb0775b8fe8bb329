package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/tutu-network/reimburse/internal/app/evaluation"
	"github.com/tutu-network/reimburse/internal/app/reimburse"
	"github.com/tutu-network/reimburse/internal/daemon"
	"github.com/tutu-network/reimburse/internal/infra/observability"
)

// ─── eval ───────────────────────────────────────────────────────────────────

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval CASES_FILE",
		Short: "Score the calculator against labelled cases",
		Long: `Price every case in CASES_FILE and compare with its expected output.

CASES_FILE is a JSON array (or YAML list for .yaml/.yml) of
  {"input": {"trip_duration_days": 3, "miles_traveled": 93, "total_receipts_amount": 1.42},
   "expected_output": 364.51}

Score = average error * 100 + (cases - exact matches) * 0.1. Lower is better.`,
		Args: cobra.ExactArgs(1),
		RunE: runEval,
	}
	cmd.Flags().StringP("config", "c", "", "Path to a TOML config file")
	cmd.Flags().IntP("worst", "n", -1, "Number of worst cases to list (overrides [eval].worst)")
	cmd.Flags().Bool("json", false, "Print the report as JSON")
	return cmd
}

func runEval(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := daemon.Load(configPath)
	if err != nil {
		return err
	}
	if worst, _ := cmd.Flags().GetInt("worst"); worst >= 0 {
		cfg.Eval.Worst = worst
	}

	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer logger.Sync()

	cases, err := evaluation.LoadCases(args[0])
	if err != nil {
		return fmt.Errorf("load %s: %w", args[0], err)
	}

	runner := evaluation.NewRunner(reimburse.New(cfg.Rates), evaluation.Config{
		ExactTolerance: cfg.Eval.ExactTolerance,
		CloseTolerance: cfg.Eval.CloseTolerance,
		Worst:          cfg.Eval.Worst,
	}, logger)

	report, err := runner.Run(cmd.Context(), cases)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printReport(cmd.OutOrStdout(), report, cfg.Eval)
	return nil
}

func printReport(w io.Writer, r *evaluation.Report, cfg daemon.EvalConfig) {
	s := r.Summary
	pct := func(n int) float64 {
		if s.Cases == 0 {
			return 0
		}
		return float64(n) * 100 / float64(s.Cases)
	}

	fmt.Fprintf(w, "Evaluated %d cases in %s\n\n", s.Cases, r.Duration.Round(time.Microsecond))
	fmt.Fprintf(w, "  Exact matches (±%.2f): %d (%.1f%%)\n", cfg.ExactTolerance, s.ExactMatches, pct(s.ExactMatches))
	fmt.Fprintf(w, "  Close matches (±%.2f): %d (%.1f%%)\n", cfg.CloseTolerance, s.CloseMatches, pct(s.CloseMatches))
	fmt.Fprintf(w, "  Average error:         $%.2f\n", s.AvgError)
	fmt.Fprintf(w, "  Maximum error:         $%.2f\n", s.MaxError)
	fmt.Fprintf(w, "  Score:                 %.2f\n", s.Score)

	if len(r.Paths) > 0 {
		fmt.Fprintln(w, "\nBy path:")
		for _, p := range r.Paths {
			fmt.Fprintf(w, "  %-16s %5d cases  avg error $%.2f\n", p.Path, p.Cases, p.AvgError)
		}
	}

	if len(r.Worst) > 0 {
		fmt.Fprintln(w, "\nWorst cases:")
		for _, c := range r.Worst {
			fmt.Fprintf(w, "  #%-5d %2d days %8.2f mi $%8.2f  expected $%.2f got $%.2f (error $%.2f, %s)\n",
				c.Index, c.Trip.Days, c.Trip.Miles, c.Trip.Receipts, c.Expected, c.Actual, c.Error, c.Path)
		}
	}
}
