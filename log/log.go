// Package log provides the global structured logger for the trustledger
// node. It wraps zerolog with a small API of leveled, formatted and
// key-value helpers so the rest of the codebase never imports zerolog
// directly.
package log

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	RFC3339Milli = "2006-01-02T15:04:05.000Z07:00" // like time.RFC3339Nano but with 3 fixed-width decimals
)

var (
	log   zerolog.Logger
	logMu sync.RWMutex
)

func init() {
	// Allow overriding the default log level via $LOG_LEVEL, so that the
	// environment variable can be set globally even when running tests.
	// Always initializing the logger is also useful to avoid panics when
	// logging if the logger is nil.
	Init(cmp.Or(os.Getenv("LOG_LEVEL"), "error"), "stderr")
}

// Logger provides access to the global logger (zerolog).
func Logger() *zerolog.Logger {
	logger := getLogger()
	return &logger
}

func getLogger() zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return log
}

func setLogger(logger zerolog.Logger) {
	logMu.Lock()
	log = logger
	logMu.Unlock()
}

// Init initializes the global logger with the given level and output.
// The output can be "stdout", "stderr" or a file path.
func Init(level, output string) {
	var out io.Writer
	switch output {
	case "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			panic(fmt.Sprintf("cannot create log output: %v", err))
		}
		out = f
	}
	out = zerolog.ConsoleWriter{Out: out, TimeFormat: RFC3339Milli}
	logger := zerolog.New(out).With().Timestamp().Caller().Logger()
	switch strings.ToLower(level) {
	case LogLevelDebug:
		logger = logger.Level(zerolog.DebugLevel)
	case LogLevelInfo:
		logger = logger.Level(zerolog.InfoLevel)
	case LogLevelWarn:
		logger = logger.Level(zerolog.WarnLevel)
	case LogLevelError:
		logger = logger.Level(zerolog.ErrorLevel)
	default:
		panic(fmt.Sprintf("invalid log level: %q", level))
	}
	zerolog.TimeFieldFormat = RFC3339Milli
	zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
		// keep only the two last path components of the caller
		parts := strings.Split(file, "/")
		if len(parts) > 2 {
			parts = parts[len(parts)-2:]
		}
		return fmt.Sprintf("%s:%d", strings.Join(parts, "/"), line)
	}
	setLogger(logger)
}

// Level returns the current log level string.
func Level() string {
	switch Logger().GetLevel() {
	case zerolog.DebugLevel:
		return LogLevelDebug
	case zerolog.InfoLevel:
		return LogLevelInfo
	case zerolog.WarnLevel:
		return LogLevelWarn
	case zerolog.ErrorLevel:
		return LogLevelError
	default:
		return ""
	}
}

// withFields adds the given key-value pairs to the event. Keys must be
// strings; values go through zerolog's generic field encoder.
func withFields(ev *zerolog.Event, keyvalues ...any) *zerolog.Event {
	for i := 0; i+1 < len(keyvalues); i += 2 {
		key, ok := keyvalues[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", keyvalues[i])
		}
		switch v := keyvalues[i+1].(type) {
		case error:
			ev = ev.AnErr(key, v)
		case time.Time:
			ev = ev.Time(key, v)
		case fmt.Stringer:
			ev = ev.Stringer(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	return ev
}

// Debug logs a message at debug level.
func Debug(msg string) { Logger().Debug().Msg(msg) }

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...any) { Logger().Debug().Msgf(format, args...) }

// Debugw logs a message at debug level with key-value fields.
func Debugw(msg string, keyvalues ...any) {
	withFields(Logger().Debug(), keyvalues...).Msg(msg)
}

// Info logs a message at info level.
func Info(msg string) { Logger().Info().Msg(msg) }

// Infof logs a formatted message at info level.
func Infof(format string, args ...any) { Logger().Info().Msgf(format, args...) }

// Infow logs a message at info level with key-value fields.
func Infow(msg string, keyvalues ...any) {
	withFields(Logger().Info(), keyvalues...).Msg(msg)
}

// Warn logs a message at warn level.
func Warn(msg string) { Logger().Warn().Msg(msg) }

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...any) { Logger().Warn().Msgf(format, args...) }

// Warnw logs a message at warn level with key-value fields.
func Warnw(msg string, keyvalues ...any) {
	withFields(Logger().Warn(), keyvalues...).Msg(msg)
}

// Error logs a message at error level.
func Error(msg string) { Logger().Error().Msg(msg) }

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...any) { Logger().Error().Msgf(format, args...) }

// Errorw logs an error with a message at error level.
func Errorw(err error, msg string) { Logger().Error().Err(err).Msg(msg) }

// Fatalf logs a formatted message at fatal level and exits.
func Fatalf(format string, args ...any) { Logger().Fatal().Msgf(format, args...) }
