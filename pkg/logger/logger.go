package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger printf-style logger on top of zerolog.
// Writes JSON lines to stdout or appends them to a file.
type Logger struct {
	zl     zerolog.Logger
	closer io.Closer
}

// Option tweaks the logger at construction
type Option func(*options)

type options struct {
	console bool
	fields  map[string]string
}

// WithConsoleFormat switches the output to human readable console lines
func WithConsoleFormat() Option {
	return func(o *options) {
		o.console = true
	}
}

// WithField adds a static field to every line
func WithField(key, value string) Option {
	return func(o *options) {
		if o.fields == nil {
			o.fields = make(map[string]string)
		}
		o.fields[key] = value
	}
}

// New creates a logger. An empty filePath means stdout.
// Unknown levels fall back to info.
func New(filePath, level string, opts ...Option) (*Logger, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	output := io.Writer(os.Stdout)
	var closer io.Closer

	if strings.TrimSpace(filePath) != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		output = file
		closer = file
	}

	return newWithWriter(output, closer, level, o), nil
}

// NewWithWriter creates a logger writing to w. Used by tests.
func NewWithWriter(w io.Writer, level string, opts ...Option) *Logger {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return newWithWriter(w, nil, level, o)
}

func newWithWriter(w io.Writer, closer io.Closer, level string, o options) *Logger {
	if o.console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: closer != nil}
	}

	ctx := zerolog.New(w).Level(ParseLevel(level)).With().Timestamp()
	for k, v := range o.fields {
		ctx = ctx.Str(k, v)
	}

	return &Logger{zl: ctx.Logger(), closer: closer}
}

// ParseLevel maps a config level to zerolog, defaulting to info
func ParseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return parsed
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.zl.Debug().Msgf(format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.zl.Info().Msgf(format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.zl.Warn().Msgf(format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.zl.Error().Msgf(format, v...)
}

// Fatal logs and exits the process with status 1
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.zl.WithLevel(zerolog.FatalLevel).Msgf(format, v...)
	_ = l.Close()
	os.Exit(1)
}

// Zerolog exposes the underlying logger for components that log structured fields
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zl
}

// Close closes the log file if one was opened
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}
