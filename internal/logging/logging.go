// Package logging builds the logrus logger shared by the CLI and storage
// backends.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Config selects level, format and destination.
type Config struct {
	// Level is a logrus level name: trace, debug, info, warn, error.
	Level string

	// Format is "text" or "json".
	Format string

	// Output is "stdout", "stderr" or a file path opened for appending.
	Output string
}

// DefaultConfig logs warnings and above as text to stderr.
func DefaultConfig() Config {
	return Config{Level: "warn", Format: "text", Output: "stderr"}
}

// New returns a logger for cfg and a cleanup func that closes any file it
// opened. Empty fields take their DefaultConfig value.
func New(cfg Config) (*logrus.Logger, func(), error) {
	def := DefaultConfig()
	if cfg.Level == "" {
		cfg.Level = def.Level
	}
	if cfg.Format == "" {
		cfg.Format = def.Format
	}
	if cfg.Output == "" {
		cfg.Output = def.Output
	}

	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, errors.Wrap(err, "invalid log level")
	}
	l.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, nil, errors.Errorf("invalid log format %q (want text or json)", cfg.Format)
	}

	out, cleanup, err := openOutput(cfg.Output)
	if err != nil {
		return nil, nil, err
	}
	l.SetOutput(out)
	return l, cleanup, nil
}

func openOutput(output string) (io.Writer, func(), error) {
	switch output {
	case "stdout":
		return os.Stdout, func() {}, nil
	case "stderr":
		return os.Stderr, func() {}, nil
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open log file")
	}
	return f, func() { f.Close() }, nil
}

// Discard returns a logger that drops every entry.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
