// Package logging builds the hclog loggers shared by the CLI, the HTTP
// server and the plugin executor.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// LevelFor maps the CLI verbosity flags to a log level. Quiet wins over verbose.
func LevelFor(verbose, quiet bool) hclog.Level {
	switch {
	case quiet:
		return hclog.Off
	case verbose:
		return hclog.Debug
	default:
		return hclog.Info
	}
}

// New returns a named logger writing to out (stderr when nil).
// Verbose loggers emit debug output.
func New(name string, out io.Writer, verbose bool) hclog.Logger {
	return NewWithLevel(name, out, LevelFor(verbose, false))
}

// NewWithLevel is New with an explicit level.
func NewWithLevel(name string, out io.Writer, level hclog.Level) hclog.Logger {
	if out == nil {
		out = os.Stderr
	}
	if level == hclog.Off {
		out = io.Discard
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Output: out,
		Level:  level,
	})
}

// Discard returns a logger that drops everything.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}
