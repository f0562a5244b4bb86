package valuestore

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Call is a single invocation of a registered function from an expression.
type Call struct {
	Name    string
	Args    []any
	Context EvalContext
}

// Arg returns the i-th argument, or nil when the expression passed fewer.
func (c Call) Arg(i int) any {
	if i < 0 || i >= len(c.Args) {
		return nil
	}
	return c.Args[i]
}

// Value resolves path against the store state the expression runs under,
// with the same lookup order as Store.Get.
func (c Call) Value(path string) (any, bool) {
	return c.Context.Value(path)
}

// Function is a callable exposed to expressions. It sees the evaluation
// context, so it can read props, edits and nested overrides by path.
type Function func(call Call) (any, error)

// FunctionRegistry holds functions keyed by lower-cased name.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{functions: make(map[string]Function)}
}

// Register adds fn under name. Names are case-insensitive and may only be
// registered once.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return fmt.Errorf("valuestore: function name must not be empty")
	case fn == nil:
		return fmt.Errorf("valuestore: function %q is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]Function)
	}
	key := strings.ToLower(name)
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("valuestore: function %q already registered", name)
	}
	r.functions[key] = fn
	return nil
}

func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := NewFunctionRegistry()
	for name, fn := range r.functions {
		clone.functions[name] = fn
	}
	return clone
}

// Call runs the function registered for name against ctx.
func (r *FunctionRegistry) Call(ctx EvalContext, name string, args ...any) (any, error) {
	fn := r.lookup(name)
	if fn == nil {
		return nil, fmt.Errorf("valuestore: function %q not registered", name)
	}
	return fn(Call{Name: strings.ToLower(name), Args: args, Context: ctx})
}

// Bind returns every registered function as a plain variadic callable with
// ctx already applied, ready to hand to an expression engine.
func (r *FunctionRegistry) Bind(ctx EvalContext) map[string]func(args ...any) (any, error) {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	bound := make(map[string]func(args ...any) (any, error), len(r.functions))
	for name, fn := range r.functions {
		name, fn := name, fn
		bound[name] = func(args ...any) (any, error) {
			return fn(Call{Name: name, Args: args, Context: ctx})
		}
	}
	return bound
}

// Names returns registered function names sorted alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *FunctionRegistry) lookup(name string) Function {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.functions[strings.ToLower(name)]
}

// WithFunctionRegistry exposes a copy of registry to the default evaluator.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *storeConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers fn for the default evaluator. A duplicate or
// invalid registration is reported by Evaluate.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *storeConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		if err := cfg.functions.Register(name, fn); err != nil {
			cfg.functionErrs = append(cfg.functionErrs, err)
		}
	}
}
