package valuestore

import (
	"errors"
	"fmt"
)

// EvalPhase tells whether an expression failed to compile or failed while
// running against store state.
type EvalPhase string

const (
	PhaseCompile EvalPhase = "compile"
	PhaseRun     EvalPhase = "run"
)

// EvaluationError reports a failed expression together with the engine, the
// phase it failed in and the component whose props it ran against.
type EvaluationError struct {
	Engine    string
	Phase     EvalPhase
	Expr      string
	Component string
	Err       error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	component := e.Component
	if component == "" {
		component = "<anonymous>"
	}
	phase := e.Phase
	if phase == "" {
		phase = PhaseRun
	}
	return fmt.Sprintf("valuestore: %s %s failed component=%s expr=%q: %v", e.Engine, phase, component, e.Expr, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsCompileError reports whether err comes from an expression that does not
// compile, as opposed to one that failed against the current props.
func IsCompileError(err error) bool {
	var evalErr *EvaluationError
	return errors.As(err, &evalErr) && evalErr.Phase == PhaseCompile
}

// evaluationError wraps err with evaluation metadata. An error that already
// carries an EvaluationError keeps its values; only empty fields are filled,
// so the store can add the component to an error raised by a rule compiled
// without one.
func evaluationError(engine string, phase EvalPhase, expr, component string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		return &EvaluationError{
			Engine:    engine,
			Phase:     phase,
			Expr:      expr,
			Component: component,
			Err:       err,
		}
	}
	if evalErr.Engine == "" {
		evalErr.Engine = engine
	}
	if evalErr.Phase == "" {
		evalErr.Phase = phase
	}
	if evalErr.Expr == "" {
		evalErr.Expr = expr
	}
	if evalErr.Component == "" {
		evalErr.Component = component
	}
	return err
}
