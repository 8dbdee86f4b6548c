package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// clone returns a shallow copy sharing formatter/outputs but with its own
// slog.Logger, so With* derivations do not mutate the parent.
func (l *BaseLogger) clone(sl *slog.Logger) *BaseLogger {
	nl := &BaseLogger{
		level:     l.level,
		fields:    l.fields,
		formatter: l.formatter,
		outputs:   l.outputs,
	}
	nl.slogLogger = sl
	return nl
}

func (l *BaseLogger) log(level Level, msg string, fields []Field) {
	if level < l.level {
		return
	}
	attrs := attrsFromFieldSlice(fields)
	l.slogLogger.LogAttrs(context.Background(), toSlogLevel(level), msg, attrs...)
}

func (l *BaseLogger) logf(level Level, format string, args []interface{}) {
	if level < l.level {
		return
	}
	l.slogLogger.LogAttrs(context.Background(), toSlogLevel(level), fmt.Sprintf(format, args...))
}

// Debug logs at debug level with structured fields.
func (l *BaseLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }

// Info logs at info level with structured fields.
func (l *BaseLogger) Info(msg string, fields ...Field) { l.log(InfoLevel, msg, fields) }

// Warn logs at warn level with structured fields.
func (l *BaseLogger) Warn(msg string, fields ...Field) { l.log(WarnLevel, msg, fields) }

// Error logs at error level with structured fields.
func (l *BaseLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

// Fatal logs at fatal level and exits the process.
func (l *BaseLogger) Fatal(msg string, fields ...Field) {
	l.log(FatalLevel, msg, fields)
	os.Exit(1)
}

// Debugf logs a formatted message at debug level.
func (l *BaseLogger) Debugf(msg string, args ...interface{}) { l.logf(DebugLevel, msg, args) }

// Infof logs a formatted message at info level.
func (l *BaseLogger) Infof(msg string, args ...interface{}) { l.logf(InfoLevel, msg, args) }

// Warnf logs a formatted message at warn level.
func (l *BaseLogger) Warnf(msg string, args ...interface{}) { l.logf(WarnLevel, msg, args) }

// Errorf logs a formatted message at error level.
func (l *BaseLogger) Errorf(msg string, args ...interface{}) { l.logf(ErrorLevel, msg, args) }

// Fatalf logs a formatted message at fatal level and exits the process.
func (l *BaseLogger) Fatalf(msg string, args ...interface{}) {
	l.logf(FatalLevel, msg, args)
	os.Exit(1)
}

// With returns a logger that includes the given fields on every entry.
func (l *BaseLogger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	return l.clone(l.slogLogger.With(attrsToAny(attrsFromFieldSlice(fields))...))
}

// WithField returns a logger with a single additional field.
func (l *BaseLogger) WithField(key string, value interface{}) Logger {
	return l.With(Any(key, value))
}

// WithFields returns a logger with the given field map attached.
func (l *BaseLogger) WithFields(fields Fields) Logger {
	if len(fields) == 0 {
		return l
	}
	return l.clone(l.slogLogger.With(attrsToAny(attrsFromMap(fields))...))
}

// WithError returns a logger with the error attached under "error".
func (l *BaseLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return l.With(Err(err))
}

// WithContext returns a logger carrying the standard context values.
func (l *BaseLogger) WithContext(ctx context.Context) Logger {
	fields := ContextExtractor(ctx)
	if len(fields) == 0 {
		return l
	}
	return l.WithFields(fields)
}

// WithComponent tags the logger with a component name.
func (l *BaseLogger) WithComponent(component string) Logger {
	return l.With(Component(component))
}

// SetLevel sets the minimum log level.
func (l *BaseLogger) SetLevel(level Level) { l.level = level }

// GetLevel returns the current minimum log level.
func (l *BaseLogger) GetLevel() Level { return l.level }
