package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/AntonStoeckl/group-event-planner-go/eventlist"
	"github.com/AntonStoeckl/group-event-planner-go/example/shared/shell/config"
)

func Test_runServer_ServesUntilContextIsCancelled(t *testing.T) {
	// arrange
	cfg := config.Default()
	cfg.ShutdownTimeout = time.Second

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	baseURL := "http://" + listener.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServer(ctx, cfg, discardLogger(), listener) }()

	// act
	snapshotResp, snapshotErr := http.Get(baseURL + "/snapshot")
	metricsResp, metricsErr := http.Get(baseURL + "/metrics")
	cancel()

	// assert
	require.NoError(t, snapshotErr)
	defer snapshotResp.Body.Close()
	assert.Equal(t, http.StatusOK, snapshotResp.StatusCode)
	assert.Equal(t, `"0"`, snapshotResp.Header.Get("ETag"))

	require.NoError(t, metricsErr)
	defer metricsResp.Body.Close()
	metricsBody, err := io.ReadAll(metricsResp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(metricsBody), "go_goroutines")

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func Test_newStore_WithRegisterer_RecordsMetrics(t *testing.T) {
	// arrange
	cfg := config.Default()
	cfg.IDStrategy = config.IDStrategySequential
	registry := prometheus.NewRegistry()

	store, err := newStore(cfg, discardLogger(), registry)
	require.NoError(t, err)

	// act
	store.UpdateDraftField(context.Background(), eventlist.FieldTitle, "Picnic")

	// assert
	families, err := registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, family := range families {
		names = append(names, family.GetName())
	}
	assert.Contains(t, names, "eventlist_operations_total")
	assert.Contains(t, names, "eventlist_operation_duration_seconds")
}

func Test_loadConfig_AppliesCommandLineOverrides(t *testing.T) {
	// arrange
	for _, key := range []string{
		config.EnvHTTPAddr, config.EnvLogLevel, config.EnvIDStrategy,
		config.EnvMetricsEnabled, config.EnvMaxBodyBytes, config.EnvShutdownTimeout,
	} {
		t.Setenv(key, "")
	}

	envFile := filepath.Join(t.TempDir(), "planner.env")
	require.NoError(t, os.WriteFile(envFile, []byte("PLANNER_HTTP_ADDR=:7000\nPLANNER_LOG_LEVEL=warn\n"), 0o600))

	var loaded config.Config
	app := newApp()
	app.Commands = []*cli.Command{{
		Name:  "inspect",
		Flags: serveCommand().Flags,
		Action: func(c *cli.Context) error {
			var err error
			loaded, err = loadConfig(c)
			return err
		},
	}}

	// act
	err := app.Run([]string{
		"planner", "--env-file", envFile, "--id-strategy", "sequential",
		"inspect", "--addr", ":9999", "--metrics=false", "--max-body-bytes", "2048",
	})

	// assert
	require.NoError(t, err)
	assert.Equal(t, ":9999", loaded.HTTPAddr)
	assert.Equal(t, slog.LevelWarn, loaded.LogLevel)
	assert.Equal(t, config.IDStrategySequential, loaded.IDStrategy)
	assert.False(t, loaded.MetricsEnabled)
	assert.Equal(t, int64(2048), loaded.MaxBodyBytes)
}

func Test_loadConfig_RejectsInvalidOverrides(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{name: "log level", args: []string{"planner", "--log-level", "loud", "inspect"}},
		{name: "id strategy", args: []string{"planner", "--id-strategy", "random", "inspect"}},
		{name: "max body bytes", args: []string{"planner", "inspect", "--max-body-bytes", "0"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			for _, key := range []string{config.EnvLogLevel, config.EnvIDStrategy, config.EnvMaxBodyBytes} {
				t.Setenv(key, "")
			}
			envFile := filepath.Join(t.TempDir(), "empty.env")
			require.NoError(t, os.WriteFile(envFile, nil, 0o600))

			app := newApp()
			app.Commands = []*cli.Command{{
				Name:  "inspect",
				Flags: serveCommand().Flags,
				Action: func(c *cli.Context) error {
					_, err := loadConfig(c)
					return err
				},
			}}

			// act
			err := app.Run(append([]string{tc.args[0], "--env-file", envFile}, tc.args[1:]...))

			// assert
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}
