// Package logger configures the structured logger shared by both pipeline
// binaries.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New creates a structured logger for the named job. Console output with
// RFC3339 timestamps; the job name rides along on every event.
func New(job string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Str("job", job).Logger()
}

// NewWithWriter creates a logger for the named job with a custom writer.
// Used by tests to capture output.
func NewWithWriter(job string, w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Str("job", job).Logger()
}
