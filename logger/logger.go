// Package logger provides a configurable logger for the proving entry
// points.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).
	With().Timestamp().Logger()

// Logger returns the shared logger.
func Logger() zerolog.Logger {
	return logger
}

// SetOutput redirects log output, for callers embedding the provers in a
// larger system.
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

// Disable turns logging off.
func Disable() {
	logger = zerolog.Nop()
}
