package logger

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

// Zerolog implements ports.Logger on rs/zerolog, emitting either JSON or
// human-readable console output.
type Zerolog struct {
	zl zerolog.Logger
}

// NewZerolog creates a zerolog-backed logger. Console selects the pretty
// writer; otherwise structured JSON goes to stderr.
func NewZerolog(level LogLevel, console bool) *Zerolog {
	var out zerolog.Logger
	if console {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	} else {
		out = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return &Zerolog{zl: out.Level(toZerologLevel(level))}
}

func toZerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func withFields(ev *zerolog.Event, fields []map[string]interface{}) *zerolog.Event {
	for _, f := range fields {
		ev = ev.Fields(f)
	}
	return ev
}

func (z *Zerolog) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {
	withFields(z.zl.Debug(), fields).Msg(msg)
}

func (z *Zerolog) Info(ctx context.Context, msg string, fields ...map[string]interface{}) {
	withFields(z.zl.Info(), fields).Msg(msg)
}

func (z *Zerolog) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {
	withFields(z.zl.Warn(), fields).Msg(msg)
}

func (z *Zerolog) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	withFields(z.zl.Error().Err(err), fields).Msg(msg)
}
