package reflow

import (
	"io"
	"log/slog"
	"os"
)

// getLogger returns the appropriate io.Writer to use for logging
// based on the options, defaulting to os.Stdout if nil.
func getLogger(opts Options) io.Writer {
	if opts.Logger == nil {
		return os.Stdout
	}
	return opts.Logger
}

// newLogger builds the structured logger of one conversion. Warnings are
// dropped unless LogWarnings is set; Debug adds per-page summaries.
func newLogger(opts Options) *slog.Logger {
	if !opts.LogWarnings && !opts.Debug {
		return slog.New(slog.DiscardHandler)
	}
	level := slog.LevelWarn
	if opts.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(getLogger(opts), &slog.HandlerOptions{Level: level}))
}
