package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/xva-ops/logdash/internal/config"
	httpapp "github.com/xva-ops/logdash/internal/http"
	"github.com/xva-ops/logdash/internal/logging"
	"github.com/xva-ops/logdash/internal/metrics"
	"github.com/xva-ops/logdash/internal/session"
	"github.com/xva-ops/logdash/internal/upstream"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP server.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	logger, err := logging.BootstrapFromEnv(logging.BootstrapOptions{Command: "logdash serve"})
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := session.Open(cfg.SessionDBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	sessions := session.NewManager(db, cfg.AuthCookieSecure)

	api, err := upstream.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout)
	if err != nil {
		return err
	}

	srv, err := httpapp.NewEchoServer(cfg, sessions, api, logger)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if _, metricsErrCh := metrics.StartServer(gctx, cfg.MetricsAddr); metricsErrCh != nil {
		g.Go(func() error {
			select {
			case err := <-metricsErrCh:
				return err
			case <-gctx.Done():
				return nil
			}
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
