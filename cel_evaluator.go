package valuestore

import (
	"sort"
	"strings"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
)

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache wires a ProgramCache into the CEL evaluator.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry exposes registry functions through
// call(name) and call(name, [args...]).
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

type celEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELEvaluator constructs an Evaluator backed by cel-go.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) Evaluate(ctx EvalContext, expression string) (any, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	ctx = ctx.withDefaults()
	vars := ctx.variables()
	names := celVariableNames(vars)
	program, err := e.program(expression, names, ctx)
	if err != nil {
		return nil, evaluationError("cel", PhaseCompile, expression, ctx.Component, err)
	}
	out, _, err := program.Eval(vars)
	if err != nil {
		return nil, evaluationError("cel", PhaseRun, expression, ctx.Component, err)
	}
	return out.Value(), nil
}

// Compile defers compilation to evaluation time because CEL declarations
// depend on which props exist.
func (e *celEvaluator) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	return &celCompiledRule{evaluator: e, expression: expression}, nil
}

// celCompiled is the cached form of an expression. The checked AST is kept so
// registry bindings can be re-planned against each evaluation context.
type celCompiled struct {
	ast     *celgo.Ast
	program celgo.Program
}

// program returns the cached program, or a program whose call() binding sees
// ctx when a registry is configured.
func (e *celEvaluator) program(expression string, names []string, ctx EvalContext) (celgo.Program, error) {
	compiled, err := e.loadOrCompile(expression, names)
	if err != nil {
		return nil, err
	}
	if e.registry == nil {
		return compiled.program, nil
	}
	env, err := e.buildEnv(names, ctx)
	if err != nil {
		return nil, err
	}
	return env.Program(compiled.ast)
}

func (e *celEvaluator) loadOrCompile(expression string, names []string) (*celCompiled, error) {
	key := "cel:" + strings.Join(names, ",") + ":" + expression
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if compiled, ok := cached.(*celCompiled); ok {
				return compiled, nil
			}
		}
	}

	env, err := e.buildEnv(names, EvalContext{})
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	compiled := &celCompiled{ast: ast, program: program}
	if e.cache != nil {
		e.cache.Set(key, compiled)
	}
	return compiled, nil
}

// celVariableNames drops names CEL cannot declare from vars and returns the
// rest sorted.
func celVariableNames(vars map[string]any) []string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		if !celIdentifier(name) {
			delete(vars, name)
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *celEvaluator) buildEnv(names []string, ctx EvalContext) (*celgo.Env, error) {
	opts := make([]celgo.EnvOption, 0, len(names)+1)
	for _, name := range names {
		if name == "now" {
			opts = append(opts, celgo.Variable(name, celgo.TimestampType))
			continue
		}
		opts = append(opts, celgo.Variable(name, celgo.DynType))
	}
	if e.registry != nil {
		opts = append(opts, celgo.Function("call",
			celgo.Overload("call_string",
				[]*celgo.Type{celgo.StringType}, celgo.DynType,
				celgo.UnaryBinding(func(name ref.Val) ref.Val {
					return e.call(ctx, name, nil)
				}),
			),
			celgo.Overload("call_string_list",
				[]*celgo.Type{celgo.StringType, celgo.ListType(celgo.DynType)}, celgo.DynType,
				celgo.BinaryBinding(func(name, args ref.Val) ref.Val {
					return e.call(ctx, name, args)
				}),
			),
		))
	}
	return celgo.NewEnv(opts...)
}

func (e *celEvaluator) call(ctx EvalContext, name, args ref.Val) ref.Val {
	fn, ok := name.Value().(string)
	if !ok {
		return types.NewErr("valuestore: call name must be string")
	}
	var arguments []any
	if lister, ok := args.(traits.Lister); ok {
		size, _ := lister.Size().Value().(int64)
		arguments = make([]any, 0, size)
		for i := int64(0); i < size; i++ {
			arguments = append(arguments, lister.Get(types.Int(i)).Value())
		}
	}
	result, err := e.registry.Call(ctx, fn, arguments...)
	if err != nil {
		return types.NewErr("%s", err.Error())
	}
	if result == nil {
		return types.NullValue
	}
	return types.DefaultTypeAdapter.NativeToValue(result)
}

var celReserved = map[string]struct{}{
	"true": {}, "false": {}, "null": {}, "in": {}, "as": {}, "break": {},
	"const": {}, "continue": {}, "else": {}, "for": {}, "function": {},
	"if": {}, "import": {}, "let": {}, "loop": {}, "package": {},
	"namespace": {}, "return": {}, "var": {}, "void": {}, "while": {},
}

// celIdentifier reports whether a prop name can be declared as a CEL
// variable. Other props stay reachable through props["name"].
func celIdentifier(name string) bool {
	if name == "" {
		return false
	}
	if _, reserved := celReserved[name]; reserved {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

type celCompiledRule struct {
	evaluator  *celEvaluator
	expression string
}

func (r *celCompiledRule) Evaluate(ctx EvalContext) (any, error) {
	return r.evaluator.Evaluate(ctx, r.expression)
}
