package activity

import (
	"context"
	"errors"
	"strings"
)

// ActivityHook receives normalized props events.
type ActivityHook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc adapts a plain function to ActivityHook.
type HookFunc func(ctx context.Context, event Event) error

func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, event)
}

// Hooks fans a props event out to every hook in order.
type Hooks []ActivityHook

func (h Hooks) Enabled() bool {
	return len(h) > 0
}

// Notify normalizes event once and hands the same copy to each hook. Events
// without a verb, object type or object id are dropped. Hook errors are
// joined; one failing hook does not stop the rest.
func (h Hooks) Notify(ctx context.Context, event Event) error {
	if len(h) == 0 {
		return nil
	}
	normalized := NormalizeEvent(event)
	if !normalized.Valid() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var errs []error
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, normalized); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PathHook forwards only the props events that touch one of Paths, such as a
// widget bound to "user" that wants edits to "user.firstName" but not to
// "settings". Reinitialized events always pass because a wholesale
// replacement can drop keys it does not list.
type PathHook struct {
	Hook  ActivityHook
	Paths []string
}

func (h PathHook) Notify(ctx context.Context, event Event) error {
	if h.Hook == nil {
		return nil
	}
	if event.Verb == VerbPropsReinitialized || len(h.Paths) == 0 {
		return h.Hook.Notify(ctx, event)
	}
	for _, path := range h.Paths {
		if Touches(event, path) {
			return h.Hook.Notify(ctx, event)
		}
	}
	return nil
}

// EventPaths returns the dot paths a props event carries in its "path" and
// "paths" metadata.
func EventPaths(event Event) []string {
	var out []string
	if path, ok := event.Metadata["path"].(string); ok && path != "" {
		out = append(out, path)
	}
	if paths, ok := event.Metadata["paths"].([]string); ok {
		out = append(out, paths...)
	}
	return out
}

// Touches reports whether event names path, one of its ancestors or one of
// its descendants.
func Touches(event Event, path string) bool {
	path = strings.TrimSpace(path)
	if path == "" {
		return false
	}
	for _, candidate := range EventPaths(event) {
		if overlaps(candidate, path) {
			return true
		}
	}
	return false
}

func overlaps(a, b string) bool {
	return a == b || strings.HasPrefix(a, b+".") || strings.HasPrefix(b, a+".")
}
