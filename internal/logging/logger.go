package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

type Fields map[string]interface{}

var logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	if lvl, err := zerolog.ParseLevel(os.Getenv("RPLCS_LOG_LEVEL")); err == nil && lvl != zerolog.NoLevel {
		logger = logger.Level(lvl)
	}
}

func emit(ev *zerolog.Event, msg string, fields Fields) {
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

// Debug logs a debug message with optional fields.
func Debug(msg string, fields Fields) {
	emit(logger.Debug(), msg, fields)
}

// Info logs an informational message with optional fields.
func Info(msg string, fields Fields) {
	emit(logger.Info(), msg, fields)
}

// Warn logs a warning message with optional fields.
func Warn(msg string, fields Fields) {
	emit(logger.Warn(), msg, fields)
}

// Error logs an error message and includes the error text in the fields.
func Error(msg string, err error, fields Fields) {
	ev := logger.Error()
	if err != nil {
		ev = ev.Err(err)
	}
	emit(ev, msg, fields)
}

// Fatal logs a fatal error and exits the process.
func Fatal(msg string, err error, fields Fields) {
	ev := logger.Fatal()
	if err != nil {
		ev = ev.Err(err)
	}
	emit(ev, msg, fields)
}
