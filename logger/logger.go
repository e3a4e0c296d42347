// Package logger provides a configurable logger across plonkish components.
//
// The default logger writes to a zerolog console writer on stdout. It is
// silenced when running under "go test" unless the debug build tag is set,
// and its level can be overridden with the PLONKISH_LOG_LEVEL environment
// variable (one of zerolog's level strings, e.g. "debug" or "disabled").
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/consensys/plonkish/debug"
	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	logger = zerolog.New(output).With().Timestamp().Logger()

	if !debug.Debug && strings.HasSuffix(os.Args[0], ".test") {
		logger = zerolog.Nop()
	}

	if lvl := os.Getenv("PLONKISH_LOG_LEVEL"); lvl != "" {
		if l, err := zerolog.ParseLevel(lvl); err == nil {
			logger = logger.Level(l)
		}
	}
}

// SetOutput changes the output of the global logger.
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

// Set allows a user to override the global logger.
func Set(l zerolog.Logger) {
	logger = l
}

// Disable disables logging.
func Disable() {
	logger = zerolog.Nop()
}

// Logger returns the global logger.
func Logger() zerolog.Logger {
	return logger
}
