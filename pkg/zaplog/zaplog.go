// Package zaplog exposes a *zap.Logger as a valuestore.Logger.
package zaplog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	valuestore "github.com/goliatone/go-valuestore"
	"github.com/goliatone/go-valuestore/layering"
)

type logger struct {
	base *zap.Logger
}

// New wraps base. Successful operations log at debug level and failures at
// warn level. A nil base yields a no-op logger.
func New(base *zap.Logger) valuestore.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	return &logger{base: base.Named("valuestore")}
}

func (l *logger) LogOperation(event valuestore.OperationEvent) {
	level := zapcore.DebugLevel
	if event.Err != nil {
		level = zapcore.WarnLevel
	}
	ce := l.base.Check(level, "valuestore."+string(event.Op))
	if ce == nil {
		return
	}
	ce.Write(fields(event)...)
}

func fields(event valuestore.OperationEvent) []zap.Field {
	out := make([]zap.Field, 0, 8)
	if event.Component != "" {
		out = append(out, zap.String("component", event.Component))
	}
	if event.Path != "" {
		out = append(out, zap.String("path", event.Path))
	}
	if event.Layer != layering.LayerNone {
		out = append(out, zap.Stringer("layer", event.Layer))
	}
	out = append(out, zap.Int("count", event.Count))
	if event.Changed {
		out = append(out, zap.Bool("changed", true))
	}
	if event.Engine != "" {
		out = append(out, zap.String("engine", event.Engine), zap.String("expr", event.Expr))
	}
	if event.Duration > 0 {
		out = append(out, zap.Duration("duration", event.Duration))
	}
	if event.Err != nil {
		out = append(out, zap.Error(event.Err))
	}
	return out
}
