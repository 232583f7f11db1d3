// Package main implements the planner binary: it serves an eventlist.Store over HTTP
// and can drive one with synthetic load.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v2"

	"github.com/AntonStoeckl/group-event-planner-go/example/shared/shell/config"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "planner",
		Usage: "Plan group events: edit a draft, commit it, collect RSVPs.",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "env-file", Usage: "Read settings from these dotenv files instead of ./.env."},
			&cli.StringFlag{Name: "log-level", Usage: "Override PLANNER_LOG_LEVEL (debug, info, warn, error)."},
			&cli.StringFlag{Name: "id-strategy", Usage: "Override PLANNER_ID_STRATEGY (uuid, sequential)."},
		},
		Commands: []*cli.Command{
			serveCommand(),
			loadCommand(),
		},
	}
}

// loadConfig reads the configuration and applies the command line overrides on top.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.StringSlice("env-file")...)
	if err != nil {
		return config.Config{}, err
	}

	if c.IsSet("log-level") {
		if err := cfg.LogLevel.UnmarshalText([]byte(c.String("log-level"))); err != nil {
			return config.Config{}, fmt.Errorf("%w: --log-level: %w", config.ErrInvalidConfig, err)
		}
	}

	if c.IsSet("id-strategy") {
		strategy, err := config.ParseIDStrategy(c.String("id-strategy"))
		if err != nil {
			return config.Config{}, err
		}
		cfg.IDStrategy = strategy
	}

	if c.IsSet("addr") {
		cfg.HTTPAddr = c.String("addr")
	}

	if c.IsSet("metrics") {
		cfg.MetricsEnabled = c.Bool("metrics")
	}

	if c.IsSet("max-body-bytes") {
		if c.Int64("max-body-bytes") <= 0 {
			return config.Config{}, fmt.Errorf("%w: --max-body-bytes must be positive", config.ErrInvalidConfig)
		}
		cfg.MaxBodyBytes = c.Int64("max-body-bytes")
	}

	return cfg, nil
}

func setupLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	}))
}
