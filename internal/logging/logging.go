// Package logging builds the zerolog logger used across commitwiz.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Options selects where logs go. File takes precedence over Console; with
// neither set, logs are discarded so the TUI owns the terminal.
type Options struct {
	Level   string
	File    string
	Console io.Writer
}

// New returns a logger and a closer for any file it opened.
//
// The level can be one of: trace, debug, info, warn, error, fatal, panic.
func New(opts Options) (zerolog.Logger, func(), error) {
	closer := func() {}

	level := opts.Level
	if level == "" {
		level = "info"
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), closer, fmt.Errorf("parse log level: %w", err)
	}

	var writer io.Writer
	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("create logs dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("open log file: %w", err)
		}
		closer = func() { _ = f.Close() }
		writer = f
	case opts.Console != nil:
		writer = zerolog.ConsoleWriter{Out: opts.Console, TimeFormat: time.Kitchen}
	default:
		return zerolog.Nop(), closer, nil
	}

	l := zerolog.New(writer).
		With().
		Timestamp().
		Logger().
		Level(lvl)

	return l, closer, nil
}
