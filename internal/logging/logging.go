// Package logging constructs the CLI logger: a console handler on stderr
// fanned out with a DEBUG-level rotating file handler. Console output on
// stderr keeps stdout clean for tables and panels.
package logging

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction.
type Options struct {
	// Verbose lowers the console level from INFO to DEBUG.
	Verbose bool

	// FilePath is the rotating log destination. Empty disables the file sink.
	FilePath string
}

// New returns a logger writing INFO-and-above to stderr (DEBUG with Verbose)
// and everything to a rotating file capped at 10 MB per file, 10 days of
// retention and 5 backups. The closer releases the file sink.
//
// The logger is handed to components explicitly; nothing here touches
// slog.SetDefault.
func New(opts Options) (*slog.Logger, io.Closer) {
	consoleLevel := slog.LevelInfo
	if opts.Verbose {
		consoleLevel = slog.LevelDebug
	}
	console := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: consoleLevel})

	if opts.FilePath == "" {
		return slog.New(console), nopCloser{}
	}

	rotating := &lumberjack.Logger{
		Filename:   opts.FilePath,
		MaxSize:    10,
		MaxAge:     10,
		MaxBackups: 5,
	}
	file := slog.NewTextHandler(rotating, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(slogmulti.Fanout(console, file)), rotating
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
