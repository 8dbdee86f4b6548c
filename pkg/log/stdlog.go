package log

import (
	"bytes"
	stdlog "log"
)

// stdLogWriter adapts a Logger to an io.Writer so stdlib log output (pebble,
// net/http) flows through the structured pipeline.
type stdLogWriter struct {
	logger Logger
	level  Level
}

func (w *stdLogWriter) Write(p []byte) (int, error) {
	msg := string(bytes.TrimRight(p, "\n"))
	switch w.level {
	case DebugLevel:
		w.logger.Debug(msg)
	case WarnLevel:
		w.logger.Warn(msg)
	case ErrorLevel:
		w.logger.Error(msg)
	default:
		w.logger.Info(msg)
	}
	return len(p), nil
}

// ToStdLogger returns a *log.Logger that forwards to the given Logger at the
// given level.
func ToStdLogger(logger Logger, level Level) *stdlog.Logger {
	return stdlog.New(&stdLogWriter{logger: logger, level: level}, "", 0)
}

// RedirectStdLog reroutes the default stdlib logger through the given Logger.
func RedirectStdLog(logger Logger) {
	stdlog.SetFlags(0)
	stdlog.SetPrefix("")
	stdlog.SetOutput(&stdLogWriter{logger: logger.WithComponent("stdlog"), level: InfoLevel})
}
