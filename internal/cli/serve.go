package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tutu-network/reimburse/internal/daemon"
	"github.com/tutu-network/reimburse/internal/infra/observability"
)

// ─── serve ──────────────────────────────────────────────────────────────────

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reimbursement HTTP API",
		Long: `Serve the calculator over HTTP. Stops gracefully on SIGINT or SIGTERM.

  GET  /v1/reimbursement?days=&miles=&receipts=
  POST /v1/reimbursement
  POST /v1/reimbursement/batch
  GET  /v1/rates
  GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().StringP("config", "c", "", "Path to a TOML config file")
	cmd.Flags().String("host", "", "Listen host (overrides [api].host)")
	cmd.Flags().Int("port", 0, "Listen port (overrides [api].port)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadServeConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return daemon.New(cfg, logger).Run(ctx)
}

// loadServeConfig applies flag overrides on top of the config file.
func loadServeConfig(cmd *cobra.Command) (daemon.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := daemon.Load(configPath)
	if err != nil {
		return daemon.Config{}, err
	}

	if cmd.Flags().Changed("host") {
		cfg.API.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		cfg.API.Port, _ = cmd.Flags().GetInt("port")
	}
	if err := cfg.Validate(); err != nil {
		return daemon.Config{}, err
	}
	return cfg, nil
}
