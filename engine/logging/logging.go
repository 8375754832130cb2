package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New builds the application logger.
//
// Parameters:
//   - level: a zerolog level name; unknown or empty names fall back to info
//   - console: true for human-readable output, false for JSON lines
//   - w: the destination
//
// Returns:
//   - zerolog.Logger: a timestamped logger at the requested level
func New(level string, console bool, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	out := w
	if console {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
