package activity

import (
	"context"
	"sync"
)

// CaptureHook keeps every props event it receives, normalized, so tests and
// examples can inspect what a store emitted. Err is returned from Notify.
type CaptureHook struct {
	Events []Event
	Err    error
	mu     sync.Mutex
}

func (h *CaptureHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = append(h.Events, NormalizeEvent(event))
	return h.Err
}

// Verbs lists captured verbs in arrival order.
func (h *CaptureHook) Verbs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	verbs := make([]string, len(h.Events))
	for i, event := range h.Events {
		verbs[i] = event.Verb
	}
	return verbs
}

// Paths lists the dot paths of captured events with verb, in arrival order.
func (h *CaptureHook) Paths(verb string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var paths []string
	for _, event := range h.Events {
		if event.Verb == verb {
			paths = append(paths, EventPaths(event)...)
		}
	}
	return paths
}

// Reset drops captured events.
func (h *CaptureHook) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = nil
}
