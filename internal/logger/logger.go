// Package logger builds the zerolog logger used by the CLI.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	// Level is a zerolog level name (trace, debug, info, warn, error).
	Level string
	// File, when set, additionally writes JSON logs to a rotated file.
	File string
	// Console receives human-readable output; defaults to os.Stderr.
	Console io.Writer
	// NoColor disables ANSI colors on the console.
	NoColor bool
}

// New returns a logger writing to the console and optionally to a
// rotated log file. The returned closer flushes the file sink.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	var writer io.Writer = zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.DateTime,
		NoColor:    opts.NoColor,
	}
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("failed to create log directory: %w", err)
		}
		fileLogger := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxAge:     3,
			MaxBackups: 3,
		}
		writer = zerolog.MultiLevelWriter(writer, fileLogger)
		closer = fileLogger
	}

	log := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()

	return log, closer, nil
}

// ParseLevel maps a level name to a zerolog level. Empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	if s == "warning" {
		s = "warn"
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", s)
	}
	if level == zerolog.NoLevel {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
