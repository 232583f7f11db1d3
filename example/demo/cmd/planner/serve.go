package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/AntonStoeckl/group-event-planner-go/eventlist"
	"github.com/AntonStoeckl/group-event-planner-go/eventlist/promadapters"
	"github.com/AntonStoeckl/group-event-planner-go/example/shared/shell/config"
	"github.com/AntonStoeckl/group-event-planner-go/example/shared/shell/httpshell"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the event list over HTTP until SIGINT or SIGTERM.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "Override PLANNER_HTTP_ADDR, e.g. :8080."},
			&cli.BoolFlag{Name: "metrics", Usage: "Override PLANNER_METRICS_ENABLED."},
			&cli.Int64Flag{Name: "max-body-bytes", Usage: "Override PLANNER_MAX_BODY_BYTES."},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			logger := setupLogger(os.Stderr, cfg.LogLevel)

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			listener, err := net.Listen("tcp", cfg.HTTPAddr)
			if err != nil {
				return fmt.Errorf("cannot listen on %s: %w", cfg.HTTPAddr, err)
			}

			return runServer(ctx, cfg, logger, listener)
		},
	}
}

// runServer serves the planner API on listener until ctx is done, then shuts down gracefully.
func runServer(ctx context.Context, cfg config.Config, logger *slog.Logger, listener net.Listener) error {
	var registry *prometheus.Registry
	if cfg.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	var registerer prometheus.Registerer
	if registry != nil {
		registerer = registry
	}

	store, err := newStore(cfg, logger, registerer)
	if err != nil {
		return err
	}

	deps := &httpshell.ServerDeps{
		Store:        store,
		Logger:       logger,
		MaxBodyBytes: cfg.MaxBodyBytes,
	}
	if registry != nil {
		deps.MetricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	}

	srv := &http.Server{
		Handler:           deps.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", listener.Addr().String(), "metrics", cfg.MetricsEnabled, "id_strategy", cfg.IDStrategy)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errChan:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	return nil
}

// newStore builds the Store with logging, an id generator per config and,
// if registerer is not nil, Prometheus metrics.
func newStore(cfg config.Config, logger *slog.Logger, registerer prometheus.Registerer) (*eventlist.Store, error) {
	options := []eventlist.Option{
		eventlist.WithIDGenerator(cfg.IDGenerator()),
		eventlist.WithLogger(logger),
		eventlist.WithObserver(func(snapshot eventlist.Snapshot) {
			logger.Debug("snapshot published", "version", snapshot.Version, "event_count", len(snapshot.Events))
		}),
	}

	if registerer != nil {
		collector, err := promadapters.NewMetricsCollector(registerer, promadapters.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		options = append(options, eventlist.WithMetrics(collector))
	}

	return eventlist.NewStore(options...)
}
