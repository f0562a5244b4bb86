package valuestore

import "time"

// jsEvaluator fields live outside the js_eval build tag so options compile in
// every build.
type jsEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
	timeout  time.Duration
}

// JSEvaluatorOption configures the JS evaluator.
type JSEvaluatorOption func(*jsEvaluator)

// JSWithProgramCache stores compiled scripts in cache.
func JSWithProgramCache(cache ProgramCache) JSEvaluatorOption {
	return func(e *jsEvaluator) {
		e.cache = cache
	}
}

// JSWithFunctionRegistry exposes a copy of registry as global functions.
func JSWithFunctionRegistry(registry *FunctionRegistry) JSEvaluatorOption {
	return func(e *jsEvaluator) {
		if registry != nil {
			e.registry = registry.Clone()
		}
	}
}

// JSWithTimeout interrupts an evaluation that runs longer than d.
func JSWithTimeout(d time.Duration) JSEvaluatorOption {
	return func(e *jsEvaluator) {
		if d > 0 {
			e.timeout = d
		}
	}
}

func newJSEvaluator(opts []JSEvaluatorOption) *jsEvaluator {
	e := &jsEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}
