// Package logging provides structured field-based logging for the
// now-playing service, backed by zerolog. Components obtain a scoped
// logger via WithFields and attach per-event fields to each call.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Fields is a map of structured log fields attached to a log event
type Fields map[string]any

// Logger is the logging interface used throughout the pipeline
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(msg string, fields ...Fields)
	WithFields(fields Fields) Logger
}

type zerologLogger struct {
	zl zerolog.Logger
}

var (
	defaultLogger Logger = &zerologLogger{zl: newZerolog(os.Stderr, zerolog.InfoLevel, true)}
	defaultMu     sync.RWMutex
)

func newZerolog(w io.Writer, level zerolog.Level, console bool) zerolog.Logger {
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Configure replaces the default logger. Level is one of
// debug, info, warn, error; console enables human-readable output.
func Configure(level string, console bool) {
	zl := zerolog.InfoLevel
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		zl = zerolog.DebugLevel
	case "warn", "warning":
		zl = zerolog.WarnLevel
	case "error":
		zl = zerolog.ErrorLevel
	}

	defaultMu.Lock()
	defaultLogger = &zerologLogger{zl: newZerolog(os.Stderr, zl, console)}
	defaultMu.Unlock()
}

// Default returns the process-wide default logger
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// WithFields returns a logger scoped with the given fields
func WithFields(fields Fields) Logger {
	return Default().WithFields(fields)
}

// NewTestLogger returns a logger that discards all output, for tests
func NewTestLogger() Logger {
	return &zerologLogger{zl: zerolog.New(io.Discard)}
}

func (l *zerologLogger) event(e *zerolog.Event, msg string, fields []Fields) {
	for _, f := range fields {
		for k, v := range f {
			e = e.Interface(k, v)
		}
	}
	e.Msg(msg)
}

func (l *zerologLogger) Debug(msg string, fields ...Fields) {
	l.event(l.zl.Debug(), msg, fields)
}

func (l *zerologLogger) Info(msg string, fields ...Fields) {
	l.event(l.zl.Info(), msg, fields)
}

func (l *zerologLogger) Warn(msg string, fields ...Fields) {
	l.event(l.zl.Warn(), msg, fields)
}

func (l *zerologLogger) Error(msg string, fields ...Fields) {
	l.event(l.zl.Error(), msg, fields)
}

func (l *zerologLogger) WithFields(fields Fields) Logger {
	ctx := l.zl.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &zerologLogger{zl: ctx.Logger()}
}
