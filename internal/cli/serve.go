// serve.go implements "mdpipe serve": run the configured pipeline on an
// interval and serve its results as a query service.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/y-kohei/mdpipe/internal/config"
	"github.com/y-kohei/mdpipe/internal/model"
	"github.com/y-kohei/mdpipe/internal/serve"
)

// serveFlags holds the flag values for the serve command.
type serveFlags struct {
	// addr is the HTTP listen address.
	addr string

	// refresh is the interval between pipeline refreshes.
	refresh time.Duration
}

// NewServeCommand creates the "serve" cobra command.
func NewServeCommand() *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve <config>",
		Short: "Serve pipeline results as a query service",
		Long: `Execute the pipeline on startup and on a refresh interval, and serve
the resulting items by identifier over HTTP:

  GET /entities       list entity IDs
  GET /entities/:id   fetch one entity's payload
  GET /healthz        readiness
  GET /metrics        Prometheus metrics

Examples:
  mdpipe serve pipeline.yml
  mdpipe serve pipeline.yml --addr :9090 --refresh 10m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", ":8080", "HTTP listen address")
	cmd.Flags().DurationVar(&flags.refresh, "refresh", serve.DefaultRefreshInterval,
		"Interval between pipeline refreshes")

	return cmd
}

// runServe builds the pipeline and runs the query service until SIGINT or
// SIGTERM.
func runServe(ctx context.Context, configPath string, flags *serveFlags) error {
	def, err := config.Load(configPath)
	if err != nil {
		return err
	}
	p, err := def.Build()
	if err != nil {
		return model.WrapCLIError(model.ExitBadConfig, "building pipeline", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := zap.L()
	srv := serve.New(p, flags.refresh, log)

	// Refuse to start serving with a pipeline that cannot produce a
	// first snapshot.
	if err := srv.Refresh(ctx); err != nil {
		return model.WrapCLIError(model.ExitPipelineFailed, "initial pipeline run failed", err)
	}

	httpSrv := &http.Server{
		Addr:              flags.addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("query service listening",
			zap.String("addr", flags.addr),
			zap.String("pipeline", def.ID),
			zap.Duration("refresh", flags.refresh),
		)
		errCh <- httpSrv.ListenAndServe()
	}()
	go func() {
		_ = srv.Run(ctx) // first refresh already done; periodic from here
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return model.WrapCLIError(model.ExitGeneralError, "http server failed", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
	}
	return nil
}
