package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/AntonStoeckl/group-event-planner-go/eventlist"
)

// Environment keys read by Load.
const (
	EnvHTTPAddr        = "PLANNER_HTTP_ADDR"
	EnvLogLevel        = "PLANNER_LOG_LEVEL"
	EnvIDStrategy      = "PLANNER_ID_STRATEGY"
	EnvMetricsEnabled  = "PLANNER_METRICS_ENABLED"
	EnvMaxBodyBytes    = "PLANNER_MAX_BODY_BYTES"
	EnvShutdownTimeout = "PLANNER_SHUTDOWN_TIMEOUT"
)

const defaultEnvFile = ".env"

// IDStrategy selects the eventlist.IDGenerator of the planner.
type IDStrategy string

// Supported ID strategies.
const (
	IDStrategyUUID       IDStrategy = "uuid"
	IDStrategySequential IDStrategy = "sequential"
)

var (
	// ErrInvalidConfig is returned when a configuration value cannot be parsed.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEnvFile is returned when an explicitly requested env file cannot be read.
	ErrEnvFile = errors.New("env file could not be read")
)

// Config holds the settings of the planner binary.
type Config struct {
	HTTPAddr        string
	LogLevel        slog.Level
	IDStrategy      IDStrategy
	MetricsEnabled  bool
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		HTTPAddr:        ":8080",
		LogLevel:        slog.LevelInfo,
		IDStrategy:      IDStrategyUUID,
		MetricsEnabled:  true,
		MaxBodyBytes:    64 << 10,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load builds a Config from the process environment and env files.
//
// Without arguments an optional ./.env is read; explicitly named files must exist.
// Non-empty process environment variables take precedence over file values, and file
// values over the defaults. Env files never modify the process environment.
// All invalid values are reported together, each wrapped in ErrInvalidConfig.
func Load(envFiles ...string) (Config, error) {
	fileValues, err := readEnvFiles(envFiles)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value, true
		}

		if value := strings.TrimSpace(fileValues[key]); value != "" {
			return value, true
		}

		return "", false
	}

	cfg := Default()
	var errs []error

	if value, ok := lookup(EnvHTTPAddr); ok {
		cfg.HTTPAddr = value
	}

	if value, ok := lookup(EnvLogLevel); ok {
		if parseErr := cfg.LogLevel.UnmarshalText([]byte(value)); parseErr != nil {
			errs = append(errs, invalid(EnvLogLevel, value, parseErr))
		}
	}

	if value, ok := lookup(EnvIDStrategy); ok {
		strategy, parseErr := ParseIDStrategy(value)
		if parseErr != nil {
			errs = append(errs, invalid(EnvIDStrategy, value, nil))
		}
		cfg.IDStrategy = strategy
	}

	if value, ok := lookup(EnvMetricsEnabled); ok {
		enabled, parseErr := strconv.ParseBool(value)
		if parseErr != nil {
			errs = append(errs, invalid(EnvMetricsEnabled, value, parseErr))
		}
		cfg.MetricsEnabled = enabled
	}

	if value, ok := lookup(EnvMaxBodyBytes); ok {
		limit, parseErr := strconv.ParseInt(value, 10, 64)
		if parseErr != nil || limit <= 0 {
			errs = append(errs, invalid(EnvMaxBodyBytes, value, parseErr))
		}
		cfg.MaxBodyBytes = limit
	}

	if value, ok := lookup(EnvShutdownTimeout); ok {
		timeout, parseErr := time.ParseDuration(value)
		if parseErr != nil || timeout < 0 {
			errs = append(errs, invalid(EnvShutdownTimeout, value, parseErr))
		}
		cfg.ShutdownTimeout = timeout
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}

	return cfg, nil
}

// ParseIDStrategy maps a strategy name (case-insensitive) to an IDStrategy.
func ParseIDStrategy(name string) (IDStrategy, error) {
	switch strategy := IDStrategy(strings.ToLower(strings.TrimSpace(name))); strategy {
	case IDStrategyUUID, IDStrategySequential:
		return strategy, nil
	default:
		return "", fmt.Errorf("%w: unknown id strategy %q", ErrInvalidConfig, name)
	}
}

// IDGenerator returns the generator selected by IDStrategy.
func (c Config) IDGenerator() eventlist.IDGenerator {
	if c.IDStrategy == IDStrategySequential {
		return eventlist.NewSequentialGenerator("evt-")
	}

	return eventlist.UUIDGenerator{}
}

func readEnvFiles(envFiles []string) (map[string]string, error) {
	if len(envFiles) == 0 {
		values, err := godotenv.Read(defaultEnvFile)
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		if err != nil {
			return nil, errors.Join(ErrEnvFile, err)
		}

		return values, nil
	}

	values, err := godotenv.Read(envFiles...)
	if err != nil {
		return nil, errors.Join(ErrEnvFile, err)
	}

	return values, nil
}

func invalid(key, value string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, key, value)
	}

	return fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, key, value, cause)
}
