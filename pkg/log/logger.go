package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

type Logger = zerolog.Logger

type Fields map[string]interface{}

// New builds the service logger. Local runs get a human readable console writer.
func New(env string) Logger {
	return NewWithWriter(env, os.Stdout)
}

func NewWithWriter(env string, w io.Writer) Logger {
	out := w
	if env == "local" {
		out = zerolog.ConsoleWriter{Out: w}
	}
	level := zerolog.InfoLevel
	if env == "local" || env == "test" {
		level = zerolog.DebugLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "parkease").Logger()
}

func With(logger Logger, fields Fields) Logger {
	ctx := logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return ctx.Logger()
}

// Nop discards everything; used by tests and optional collaborators.
func Nop() Logger {
	return zerolog.Nop()
}
