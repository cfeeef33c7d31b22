// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Configures the default logger for the CLI (stderr) or the TUI (debug log file).

package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options controls the default logger.
type Options struct {
	Level  string // debug, info, warn, error (default: info)
	Format string // text, json (default: text)
}

// Init configures the default slog logger to write to w.
func Init(opts Options, w io.Writer) {
	handlerOpts := &slog.HandlerOptions{
		Level: ParseLevel(opts.Level),
	}

	var handler slog.Handler
	if strings.ToLower(opts.Format) == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	slog.SetDefault(slog.New(handler))
}

// InitFile points the default logger at debug.log inside dir so that log
// lines never draw over a full-screen terminal UI.
// If dir is empty, logging is discarded.
// The returned closer must be called on exit.
func InitFile(opts Options, dir string) (io.Closer, error) {
	if dir == "" {
		Init(opts, io.Discard)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		Init(opts, io.Discard)
		return nopCloser{}, err
	}

	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		Init(opts, io.Discard)
		return nopCloser{}, err
	}

	Init(opts, f)
	return f, nil
}

// ParseLevel converts a string log level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
