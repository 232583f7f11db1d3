package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
)

func loadCommand() *cli.Command {
	return &cli.Command{
		Name:  "load",
		Usage: "Drive an in-process event list with concurrent planners and RSVPs.",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "rate", Value: 30, Usage: "Scenarios per second."},
			&cli.StringFlag{Name: "scenario-weights", Value: "30,70", Usage: "Comma-separated weights for planning,rsvp."},
			&cli.DurationFlag{Name: "duration", Usage: "Stop after this long; 0 runs until SIGINT or SIGTERM."},
			&cli.DurationFlag{Name: "stats-interval", Value: 10 * time.Second, Usage: "How often to log statistics."},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			weights, err := parseScenarioWeights(c.String("scenario-weights"))
			if err != nil {
				return err
			}

			logger := setupLogger(os.Stderr, cfg.LogLevel)

			store, err := newStore(cfg, logger, nil)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if duration := c.Duration("duration"); duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			loadGen := NewLoadGenerator(store, LoadConfig{
				Rate:            c.Int("rate"),
				ScenarioWeights: weights,
				StatsInterval:   c.Duration("stats-interval"),
			}, logger)

			runErr := loadGen.Start(ctx)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()

			if err := loadGen.Stop(shutdownCtx); err != nil {
				return err
			}

			if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
				return nil
			}

			return runErr
		},
	}
}
