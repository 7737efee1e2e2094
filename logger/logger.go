package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ZeroLogger wraps zerolog.Logger to implement the Logger interface.
type ZeroLogger struct {
	zlog *zerolog.Logger
}

// Ensure ZeroLogger implements the interface
var _ Logger = (*ZeroLogger)(nil)

// New creates a ZeroLogger writing to stdout at the given level.
// If pretty is true, output is formatted for human readability.
func New(level string, pretty bool) *ZeroLogger {
	var out io.Writer = os.Stdout
	if pretty {
		out = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}
	return NewWithWriter(level, out)
}

// NewWithWriter creates a ZeroLogger writing to w. Unknown levels fall back
// to info.
func NewWithWriter(level string, w io.Writer) *ZeroLogger {
	zLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		zLevel = zerolog.InfoLevel
	}
	l := zerolog.New(w).With().Timestamp().Logger().Level(zLevel)
	return &ZeroLogger{zlog: &l}
}

// WithFields returns a logger with additional fields attached to all entries.
func (l *ZeroLogger) WithFields(fields map[string]any) Logger {
	log := l.zlog.With().Fields(fields).Logger()
	return &ZeroLogger{zlog: &log}
}

// Debug creates a debug-level log event
func (l *ZeroLogger) Debug() LogEvent {
	return &logEvent{event: l.zlog.Debug()}
}

// Info creates an info-level log event
func (l *ZeroLogger) Info() LogEvent {
	return &logEvent{event: l.zlog.Info()}
}

// Warn creates a warning-level log event
func (l *ZeroLogger) Warn() LogEvent {
	return &logEvent{event: l.zlog.Warn()}
}

// Error creates an error-level log event
func (l *ZeroLogger) Error() LogEvent {
	return &logEvent{event: l.zlog.Error()}
}

// logEvent adapts zerolog events to the LogEvent interface.
type logEvent struct {
	event *zerolog.Event
}

// Msg logs the message
func (e *logEvent) Msg(msg string) {
	e.event.Msg(msg)
}

// Msgf logs a formatted message
func (e *logEvent) Msgf(format string, args ...any) {
	e.event.Msgf(format, args...)
}

// Err adds an error to the log event
func (e *logEvent) Err(err error) LogEvent {
	return &logEvent{event: e.event.Err(err)}
}

// Str adds a string field to the log event
func (e *logEvent) Str(key, value string) LogEvent {
	return &logEvent{event: e.event.Str(key, value)}
}

// Int adds an integer field to the log event
func (e *logEvent) Int(key string, value int) LogEvent {
	return &logEvent{event: e.event.Int(key, value)}
}

// Int64 adds an int64 field to the log event
func (e *logEvent) Int64(key string, value int64) LogEvent {
	return &logEvent{event: e.event.Int64(key, value)}
}

// Dur adds a duration field to the log event
func (e *logEvent) Dur(key string, d time.Duration) LogEvent {
	return &logEvent{event: e.event.Dur(key, d)}
}

// Bytes adds a byte slice field to the log event
func (e *logEvent) Bytes(key string, val []byte) LogEvent {
	return &logEvent{event: e.event.Bytes(key, val)}
}

// Interface adds an arbitrary field to the log event
func (e *logEvent) Interface(key string, i any) LogEvent {
	return &logEvent{event: e.event.Interface(key, i)}
}
