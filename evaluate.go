package valuestore

import (
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-valuestore/layering"
)

var (
	// ErrNoEvaluator indicates no evaluator could be resolved.
	ErrNoEvaluator = errors.New("valuestore: evaluator not configured")
	// ErrEmptyExpression indicates an empty expression was supplied.
	ErrEmptyExpression = errors.New("valuestore: expression must not be empty")
)

// Evaluator executes expressions against an evaluation context.
type Evaluator interface {
	Evaluate(ctx EvalContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx EvalContext) (any, error)
}

// EvalContext carries the data an expression can see. Every top-level field
// of Snapshot is bound by name; the reserved names below shadow props with
// the same name:
//
//	props      the effective snapshot
//	original   the canonical tree
//	dirty      flat dot-path map of unsent edits
//	pending    flat dot-path map of in-flight edits
//	args       caller supplied arguments
//	now        evaluation timestamp
//	component  component name
//
// Nested is not bound; it backs Value and the valueAt helper.
type EvalContext struct {
	Snapshot  map[string]any
	Original  map[string]any
	Nested    map[string]any
	Dirty     map[string]any
	Pending   map[string]any
	Args      map[string]any
	Now       *time.Time
	Component string
}

func (ctx EvalContext) withDefaults() EvalContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Snapshot == nil {
		ctx.Snapshot = map[string]any{}
	}
	if ctx.Original == nil {
		ctx.Original = map[string]any{}
	}
	if ctx.Nested == nil {
		ctx.Nested = map[string]any{}
	}
	if ctx.Dirty == nil {
		ctx.Dirty = map[string]any{}
	}
	if ctx.Pending == nil {
		ctx.Pending = map[string]any{}
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	return ctx
}

// Value resolves path against the context layers in Store.Get order: exact
// dirty key, exact pending key, Original walk, then Nested when the walk is
// blocked by a scalar.
func (ctx EvalContext) Value(path string) (any, bool) {
	value, layer := lookup(ctx.Dirty, ctx.Pending, ctx.Original, ctx.Nested, NormalizePath(path))
	return value, layer != layering.LayerNone
}

func (ctx EvalContext) variables() map[string]any {
	vars := make(map[string]any, len(ctx.Snapshot)+7)
	for key, value := range ctx.Snapshot {
		vars[key] = value
	}
	vars["props"] = ctx.Snapshot
	vars["original"] = ctx.Original
	vars["dirty"] = ctx.Dirty
	vars["pending"] = ctx.Pending
	vars["args"] = ctx.Args
	vars["now"] = *ctx.Now
	vars["component"] = ctx.Component
	return vars
}

// helpers returns the functions the expr and JS engines expose. They shadow
// props with the same name.
func (ctx EvalContext) helpers() map[string]any {
	return map[string]any{
		"isDirty": func(path string) bool {
			_, ok := ctx.Dirty[NormalizePath(path)]
			return ok
		},
		"isPending": func(path string) bool {
			_, ok := ctx.Pending[NormalizePath(path)]
			return ok
		},
		"valueAt": func(path string) any {
			value, _ := ctx.Value(path)
			return value
		},
	}
}

// functions merges helpers with registry functions bound to ctx.
func (ctx EvalContext) functions(registry *FunctionRegistry) map[string]any {
	out := ctx.helpers()
	for name, fn := range registry.Bind(ctx) {
		out[name] = fn
	}
	return out
}

// EvalContext builds an evaluation context from the current store state.
func (s *Store) EvalContext() EvalContext {
	return EvalContext{
		Snapshot:  s.Snapshot(),
		Original:  s.OriginalProps(),
		Nested:    s.NestedProps(),
		Dirty:     s.DirtyProps(),
		Pending:   s.PendingProps(),
		Component: s.cfg.component,
	}.withDefaults()
}

// Evaluate runs expr against the current store state using the configured
// evaluator, falling back to the expr-lang engine.
func (s *Store) Evaluate(expr string) (any, error) {
	return s.EvaluateWith(EvalContext{}, expr)
}

// EvaluateWith runs expr against ctx. Zero fields of ctx are filled from the
// current store state.
func (s *Store) EvaluateWith(ctx EvalContext, expr string) (any, error) {
	if expr == "" {
		return nil, ErrEmptyExpression
	}
	evaluator, err := s.resolveEvaluator()
	if err != nil {
		return nil, err
	}

	ctx = s.fillContext(ctx)
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	evalErr = evaluationError(engine, PhaseRun, expr, s.cfg.component, evalErr)
	s.logOperation(OperationEvent{
		Op:       OpEvaluate,
		Engine:   engine,
		Expr:     expr,
		Duration: time.Since(start),
		Err:      evalErr,
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return value, nil
}

// Compile prepares expr with the configured evaluator for repeated use.
func (s *Store) Compile(expr string) (CompiledRule, error) {
	if expr == "" {
		return nil, ErrEmptyExpression
	}
	evaluator, err := s.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	rule, err := evaluator.Compile(expr)
	if err != nil {
		return nil, evaluationError(evaluatorEngineName(evaluator), PhaseCompile, expr, s.cfg.component, err)
	}
	return rule, nil
}

func (s *Store) fillContext(ctx EvalContext) EvalContext {
	if ctx.Snapshot == nil {
		ctx.Snapshot = s.Snapshot()
	}
	if ctx.Original == nil {
		ctx.Original = s.OriginalProps()
	}
	if ctx.Nested == nil {
		ctx.Nested = s.NestedProps()
	}
	if ctx.Dirty == nil {
		ctx.Dirty = s.DirtyProps()
	}
	if ctx.Pending == nil {
		ctx.Pending = s.PendingProps()
	}
	if ctx.Component == "" {
		ctx.Component = s.cfg.component
	}
	return ctx.withDefaults()
}

func (s *Store) resolveEvaluator() (Evaluator, error) {
	if len(s.cfg.functionErrs) > 0 {
		return nil, fmt.Errorf("valuestore: custom functions: %w", errors.Join(s.cfg.functionErrs...))
	}
	if s.cfg.evaluator != nil {
		return s.cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if s.cfg.programCache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(s.cfg.programCache))
	}
	if s.cfg.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(s.cfg.functions))
	}
	evaluator := NewExprEvaluator(exprOpts...)
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	s.cfg.evaluator = evaluator
	return evaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	default:
		if name := jsEngineName(e); name != "" {
			return name
		}
		return fmt.Sprintf("custom(%T)", e)
	}
}
