package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New creates a timestamped logger writing to w
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// NewConsole creates a human readable logger on stderr
func NewConsole(verbose bool) zerolog.Logger {
	return New(zerolog.ConsoleWriter{Out: os.Stderr}, verbose)
}

// Component returns a child logger tagged with the component name
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
