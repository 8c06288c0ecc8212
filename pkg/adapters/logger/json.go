package logger

import (
	"io"
	"os"

	"github.com/ideamans/go-l10n"
	"github.com/rs/zerolog"

	"github.com/user/webpkit/pkg/ports"
)

// JSONLogger writes one structured JSON object per message.
// Messages are translated the same way as ConsoleLogger output.
type JSONLogger struct {
	level ports.LogLevel
	zl    zerolog.Logger
}

// NewJSON creates a JSON logger writing to stderr.
func NewJSON(level ports.LogLevel) *JSONLogger {
	return NewJSONWriter(os.Stderr, level)
}

// NewJSONWriter creates a JSON logger writing to w.
func NewJSONWriter(w io.Writer, level ports.LogLevel) *JSONLogger {
	return &JSONLogger{
		level: level,
		zl:    zerolog.New(w).With().Timestamp().Logger().Level(zerologLevel(level)),
	}
}

func zerologLevel(level ports.LogLevel) zerolog.Level {
	switch level {
	case ports.LevelDebug:
		return zerolog.DebugLevel
	case ports.LevelInfo:
		return zerolog.InfoLevel
	case ports.LevelWarn:
		return zerolog.WarnLevel
	case ports.LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.Disabled
	}
}

// Debug logs a debug message.
func (l *JSONLogger) Debug(msg string, args ...interface{}) {
	l.zl.Debug().Msg(l10n.F(msg, args...))
}

// Info logs an informational message.
func (l *JSONLogger) Info(msg string, args ...interface{}) {
	l.zl.Info().Msg(l10n.F(msg, args...))
}

// Warn logs a warning message.
func (l *JSONLogger) Warn(msg string, args ...interface{}) {
	l.zl.Warn().Msg(l10n.F(msg, args...))
}

// Error logs an error message.
func (l *JSONLogger) Error(msg string, args ...interface{}) {
	l.zl.Error().Msg(l10n.F(msg, args...))
}

// WithComponent returns a logger that adds a component field.
func (l *JSONLogger) WithComponent(component string) ports.Logger {
	return &JSONLogger{
		level: l.level,
		zl:    l.zl.With().Str("component", component).Logger(),
	}
}

// Ensure JSONLogger implements ports.Logger
var _ ports.Logger = (*JSONLogger)(nil)
