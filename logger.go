package valuestore

import (
	"time"

	"github.com/goliatone/go-valuestore/layering"
)

// Operation names a store operation reported to a Logger.
type Operation string

const (
	OpSet                  Operation = "set"
	OpFlush                Operation = "flush"
	OpRequeue              Operation = "requeue"
	OpReinitializeAll      Operation = "reinitialize_all"
	OpReinitializeProvided Operation = "reinitialize_provided"
	OpEvaluate             Operation = "evaluate"
	OpActivity             Operation = "activity"
	OpRequest              Operation = "request"
)

// OperationEvent describes a store operation for logging.
type OperationEvent struct {
	Op        Operation
	Component string
	Path      string
	// Layer is the layer that answered Path before the operation ran.
	Layer    layering.Layer
	Count    int
	Changed  bool
	Engine   string
	Expr     string
	Duration time.Duration
	Err      error
}

// Logger records store operations.
type Logger interface {
	LogOperation(OperationEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(OperationEvent)

// LogOperation implements Logger.
func (f LoggerFunc) LogOperation(event OperationEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogOperation(OperationEvent) {}

// NoopLogger returns a Logger that discards every event.
func NoopLogger() Logger {
	return noopLogger{}
}

// WithLogger attaches an operation logger to the Store.
func WithLogger(logger Logger) Option {
	return func(cfg *storeConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

func (s *Store) logger() Logger {
	if s.cfg.logger != nil {
		return s.cfg.logger
	}
	return noopLogger{}
}

func (s *Store) logOperation(event OperationEvent) {
	if event.Component == "" {
		event.Component = s.cfg.component
	}
	s.logger().LogOperation(event)
}
