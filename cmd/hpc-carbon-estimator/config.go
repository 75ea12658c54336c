package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/hpc-carbon-estimator/internal/logging"
)

// Environment variables read at startup.
const (
	envLogLevel        = "HPC_CARBON_LOG_LEVEL"
	envLogFormat       = "HPC_CARBON_LOG_FORMAT"
	envLocationsFile   = "HPC_CARBON_LOCATIONS_FILE"
	envPort            = "HPC_CARBON_PORT"
	envReadTimeout     = "HPC_CARBON_READ_TIMEOUT"
	envShutdownTimeout = "HPC_CARBON_SHUTDOWN_TIMEOUT"
)

const (
	defaultLogLevel        = "info"
	defaultReadTimeout     = 5 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Config holds the process settings taken from the environment.
// Port is zero when web mode was not requested through the environment.
type Config struct {
	LogLevel        string
	LogFormat       string
	LocationsFile   string
	Port            int
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// logSettings returns the logger level and format, which are needed before
// a logger exists to report problems with the rest of the configuration.
func logSettings() (level, format string) {
	level = strings.TrimSpace(os.Getenv(envLogLevel))
	if level == "" {
		level = defaultLogLevel
	}
	format = strings.ToLower(strings.TrimSpace(os.Getenv(envLogFormat)))
	if format == "" {
		format = logging.FormatConsole
	}
	return level, format
}

// parseConfig parses environment variables into a Config. Invalid values
// fall back to their defaults with a warning.
func parseConfig(logger zerolog.Logger) Config {
	cfg := Config{
		ReadTimeout:     defaultReadTimeout,
		ShutdownTimeout: defaultShutdownTimeout,
	}
	cfg.LogLevel, cfg.LogFormat = logSettings()

	if cfg.LogFormat != logging.FormatConsole && cfg.LogFormat != logging.FormatJSON {
		logger.Warn().Str("value", cfg.LogFormat).Msg("invalid " + envLogFormat + ", using json")
		cfg.LogFormat = logging.FormatJSON
	}

	cfg.LocationsFile = strings.TrimSpace(os.Getenv(envLocationsFile))

	if portStr := strings.TrimSpace(os.Getenv(envPort)); portStr != "" {
		if parsed, err := strconv.Atoi(portStr); err == nil && parsed > 0 && parsed <= 65535 {
			cfg.Port = parsed
		} else {
			logger.Warn().Str("value", portStr).Msg("invalid " + envPort + ", ignoring")
		}
	}

	cfg.ReadTimeout = parseDuration(logger, envReadTimeout, defaultReadTimeout)
	cfg.ShutdownTimeout = parseDuration(logger, envShutdownTimeout, defaultShutdownTimeout)

	logger.Debug().
		Str("locations_file", cfg.LocationsFile).
		Int("port", cfg.Port).
		Dur("read_timeout", cfg.ReadTimeout).
		Dur("shutdown_timeout", cfg.ShutdownTimeout).
		Msg("configuration loaded")

	return cfg
}

func parseDuration(logger zerolog.Logger, key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logger.Warn().Str("value", raw).Msg("invalid " + key + ", using default")
		return def
	}
	return d
}
