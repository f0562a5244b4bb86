package activity

import (
	"context"
	"strings"
)

// DefaultChannel labels props events emitted without a channel.
const DefaultChannel = "live_component"

// Config controls which props events a store emits.
type Config struct {
	Enabled bool
	Channel string
	// Verbs limits emission to the listed props verbs, for example to skip
	// per-keystroke props.set events. Empty emits every verb.
	Verbs []string
}

// Emitter stamps the default channel on props events and hands the ones its
// config allows to the hooks.
type Emitter struct {
	hooks   Hooks
	enabled bool
	channel string
	verbs   map[string]struct{}
}

func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = DefaultChannel
	}
	live := make(Hooks, 0, len(hooks))
	for _, hook := range hooks {
		if hook != nil {
			live = append(live, hook)
		}
	}
	var verbs map[string]struct{}
	for _, verb := range cfg.Verbs {
		if verb = strings.TrimSpace(verb); verb != "" {
			if verbs == nil {
				verbs = make(map[string]struct{}, len(cfg.Verbs))
			}
			verbs[verb] = struct{}{}
		}
	}
	return &Emitter{
		hooks:   live,
		enabled: cfg.Enabled && len(live) > 0,
		channel: channel,
		verbs:   verbs,
	}
}

func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled
}

// Emits reports whether an event with verb would reach the hooks, so callers
// can skip building it.
func (e *Emitter) Emits(verb string) bool {
	if !e.Enabled() {
		return false
	}
	if e.verbs == nil {
		return true
	}
	_, ok := e.verbs[strings.TrimSpace(verb)]
	return ok
}

func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Emits(event.Verb) {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	return e.hooks.Notify(ctx, event)
}
