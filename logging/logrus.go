package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// LogrusAdapter implements Logger on top of a logrus entry. Key/value pairs
// are attached as logrus fields.
type LogrusAdapter struct {
	entry *logrus.Entry
}

// NewLogrusAdapter wraps a logrus logger. A nil logger uses logrus.StandardLogger().
func NewLogrusAdapter(l *logrus.Logger) *LogrusAdapter {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &LogrusAdapter{entry: logrus.NewEntry(l)}
}

// NewLogrusLogger builds a logrus backed Logger with the given level and
// format ("json" or "text").
func NewLogrusLogger(level LogLevel, format string) *LogrusAdapter {
	l := logrus.New()
	l.SetLevel(logrusLevel(level))
	if format == "text" {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	return NewLogrusAdapter(l)
}

// SetOutput redirects the underlying logrus logger.
func (a *LogrusAdapter) SetOutput(w io.Writer) { a.entry.Logger.SetOutput(w) }

func logrusLevel(l LogLevel) logrus.Level {
	switch l {
	case LogLevelDebug:
		return logrus.DebugLevel
	case LogLevelWarn:
		return logrus.WarnLevel
	case LogLevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func (a *LogrusAdapter) with(args []any) *logrus.Entry {
	if len(args) == 0 {
		return a.entry
	}
	fields := logrus.Fields{}
	for _, attr := range argsToAttrs(args) {
		fields[attr.Key] = attr.Value.Any()
	}
	return a.entry.WithFields(fields)
}

// Debug logs a debug message.
func (a *LogrusAdapter) Debug(msg string, args ...any) { a.with(args).Debug(msg) }

// Info logs an informational message.
func (a *LogrusAdapter) Info(msg string, args ...any) { a.with(args).Info(msg) }

// Warn logs a warning message.
func (a *LogrusAdapter) Warn(msg string, args ...any) { a.with(args).Warn(msg) }

// Error logs an error message.
func (a *LogrusAdapter) Error(msg string, args ...any) { a.with(args).Error(msg) }
