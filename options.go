package valuestore

import "github.com/goliatone/go-valuestore/pkg/activity"

// Option configures a Store.
type Option func(*storeConfig)

type storeConfig struct {
	component    string
	logger       Logger
	evaluator    Evaluator
	programCache ProgramCache
	functions    *FunctionRegistry
	functionErrs []error
	emitter      *activity.Emitter
	hooks        activity.Hooks
	activity     activity.Config
	identity     activity.Identity
}

func applyOptions(opts []Option) storeConfig {
	cfg := storeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if len(cfg.hooks) > 0 {
		cfg.emitter = activity.NewEmitter(cfg.hooks, cfg.activity)
	}
	return cfg
}

// WithComponent names the component instance the store belongs to. The name
// becomes the object id of emitted activity events and is exposed to
// expressions as "component".
func WithComponent(name string) Option {
	return func(cfg *storeConfig) {
		cfg.component = name
	}
}

// WithEvaluator configures the expression evaluator used by Evaluate.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *storeConfig) {
		cfg.evaluator = e
	}
}

// WithProgramCache registers a compiled program cache used by the default
// evaluator.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *storeConfig) {
		cfg.programCache = cache
	}
}

// WithActivityHooks attaches activity hooks. Nil entries are dropped and
// emission is enabled unless WithActivityConfig later disables it.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *storeConfig) {
		cfg.hooks = normalized
		cfg.activity.Enabled = len(normalized) > 0
	}
}

// WithActivityConfig overrides the activity emission defaults.
func WithActivityConfig(config activity.Config) Option {
	return func(cfg *storeConfig) {
		cfg.activity = config
	}
}

// WithActivityIdentity sets the actor, user and tenant stamped on emitted
// activity events.
func WithActivityIdentity(identity activity.Identity) Option {
	return func(cfg *storeConfig) {
		cfg.identity = identity
	}
}

// ActivityHooks returns a copy of the configured activity hooks.
func (s *Store) ActivityHooks() activity.Hooks {
	if s == nil {
		return nil
	}
	return cloneActivityHooks(s.cfg.hooks)
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
