// Package logging builds the zerolog loggers used by the binaries.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Format values accepted by New.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// ServiceName is attached to every log entry.
const ServiceName = "hpc-carbon-estimator"

// New returns a logger writing to w at the given level.
// An unrecognised level falls back to info and is reported through the
// returned logger; an unrecognised format falls back to JSON.
func New(w io.Writer, level, format string) zerolog.Logger {
	out := w
	if strings.ToLower(strings.TrimSpace(format)) == FormatConsole {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	invalid := err != nil || lvl == zerolog.NoLevel
	if invalid {
		lvl = zerolog.InfoLevel
	}

	logger := zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("service", ServiceName).
		Logger()

	if invalid && level != "" {
		logger.Warn().Str("value", level).Msg("invalid log level, using info")
	}
	return logger
}
