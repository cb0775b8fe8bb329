// Package daemon runs the long-lived HTTP service behind `reimbursectl serve`
// and owns its TOML configuration.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tutu-network/reimburse/internal/api"
	"github.com/tutu-network/reimburse/internal/app/reimburse"
)

// shutdownTimeout bounds graceful shutdown after the context is cancelled.
const shutdownTimeout = 10 * time.Second

// Daemon serves the API until its context is cancelled.
type Daemon struct {
	cfg    Config
	logger *zap.Logger
	server *http.Server
}

// New builds the daemon from a validated config.
func New(cfg Config, logger *zap.Logger) *Daemon {
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := api.NewServer(reimburse.New(cfg.Rates), logger)
	if cfg.Metrics.Enabled {
		srv.EnableMetrics()
	}
	srv.SetMaxBatch(cfg.API.MaxBatch)

	read, write := cfg.API.Timeouts()
	return &Daemon{
		cfg:    cfg,
		logger: logger,
		server: &http.Server{
			Addr:              cfg.API.Addr(),
			Handler:           srv.Handler(),
			ReadTimeout:       read,
			ReadHeaderTimeout: read,
			WriteTimeout:      write,
		},
	}
}

// Handler exposes the root handler, mainly for tests.
func (d *Daemon) Handler() http.Handler { return d.server.Handler }

// Run listens on the configured address and blocks until ctx is done.
func (d *Daemon) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", d.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", d.server.Addr, err)
	}
	return d.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully.
func (d *Daemon) Serve(ctx context.Context, ln net.Listener) error {
	d.logger.Info("reimburse API listening",
		zap.String("addr", ln.Addr().String()),
		zap.Bool("metrics", d.cfg.Metrics.Enabled),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- d.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	d.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := d.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
