// Package logging configures zerolog for the observer.
package logging

import (
	"io"
	stdLog "log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var logWriter io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}

func init() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	log.Logger = zerolog.New(logWriter).With().Timestamp().Logger()
}

// ParseLevel converts a level name to a zerolog level. An empty string
// means warn.
func ParseLevel(levelStr string) (zerolog.Level, error) {
	if levelStr == "" {
		return zerolog.WarnLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(levelStr))
}

// ConfigureGlobal sets the global level and rebuilds the global logger.
// Caller information is added at debug and below.
func ConfigureGlobal(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)

	ctx := zerolog.New(logWriter).With().Timestamp()
	if level <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger().Level(level)
	zerolog.DefaultContextLogger = &log.Logger
}

// SetLogWriter replaces the writer used by ConfigureGlobal. Logs go to
// stderr by default so they never mix with records on stdout.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// NewLogger returns a logger tagged with a component name.
func NewLogger(component string, level zerolog.Level) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger().Level(level)
}

// NewLoggerWithWriter is NewLogger writing JSON to w.
func NewLoggerWithWriter(component string, level zerolog.Level, w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Str("component", component).Logger().Level(level)
}

// stdLogWriter forwards lines written through the standard library
// logger, as used by client libraries, into zerolog at debug level.
type stdLogWriter struct {
	logger zerolog.Logger
}

func (w stdLogWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")
	if msg != "" {
		w.logger.Debug().Msg(msg)
	}
	return len(p), nil
}

// StdLogger returns a standard library logger that writes into logger.
func StdLogger(logger zerolog.Logger) *stdLog.Logger {
	return stdLog.New(stdLogWriter{logger: logger}, "", 0)
}
