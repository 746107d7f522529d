package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Setup builds the zerolog logger used by the roster shell.
//   - w: destination, normally os.Stderr so logs never mix with rendered tables
//   - level: log level string (trace, debug, info, warn, error, fatal, panic)
//   - format: "json" for machine-readable output, "pretty" for human-readable console output
//
// An unknown level falls back to info.
func Setup(w io.Writer, level, format string) zerolog.Logger {
	writer := w
	if format == "pretty" {
		writer = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(writer).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
