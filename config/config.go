// Package config loads executable settings from the environment.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hupe1980/hostbridge/logging"
)

const (
	defaultLogFormat = "json"
	defaultLogger    = "slog"
	defaultWorkers   = 4

	envLogLevel    = "HOSTBRIDGE_LOG_LEVEL"
	envLogFormat   = "HOSTBRIDGE_LOG_FORMAT"
	envLogger      = "HOSTBRIDGE_LOGGER"
	envInline      = "HOSTBRIDGE_INLINE"
	envMetricsAddr = "HOSTBRIDGE_METRICS_ADDR"
	envWorkers     = "HOSTBRIDGE_WORKERS"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	LogLevel  logging.LogLevel
	LogFormat string // json or text
	Logger    string // slog, logrus or zap
	// Inline runs host calls made on the host goroutine in place.
	Inline bool
	// MetricsAddr enables a prometheus endpoint when not empty.
	MetricsAddr string
	Workers     int
}

// Load reads configuration from environment variables with sensible defaults.
// Malformed booleans and numbers keep their default.
func Load() Config {
	cfg := Config{
		LogLevel:  logging.LogLevelInfo,
		LogFormat: defaultLogFormat,
		Logger:    defaultLogger,
		Inline:    true,
		Workers:   defaultWorkers,
	}

	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = logging.ParseLevel(v)
	}
	if v := os.Getenv(envLogFormat); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v := os.Getenv(envLogger); v != "" {
		cfg.Logger = strings.ToLower(v)
	}
	if v := os.Getenv(envInline); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Inline = b
		}
	}
	if v := os.Getenv(envMetricsAddr); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv(envWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		}
	}

	return cfg
}

// NewLogger creates the configured logger writing to w.
func NewLogger(cfg Config, w io.Writer) (logging.Logger, error) {
	switch cfg.Logger {
	case "", "slog":
		lc := logging.DefaultLoggerConfig()
		lc.Level = cfg.LogLevel
		lc.Format = cfg.LogFormat
		lc.Output = w
		return logging.NewLogger(lc), nil
	case "logrus":
		l := logging.NewLogrusLogger(cfg.LogLevel, cfg.LogFormat)
		l.SetOutput(w)
		return l, nil
	case "zap":
		return logging.NewZapWriterLogger(cfg.LogLevel, cfg.LogFormat, w), nil
	default:
		return nil, fmt.Errorf("unknown logger %q", cfg.Logger)
	}
}
