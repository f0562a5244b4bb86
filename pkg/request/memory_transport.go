package request

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-valuestore/layering"
)

// MemoryTransport is an in-memory server used by tests and examples. It
// applies request updates onto its own props by dot path.
type MemoryTransport struct {
	mu       sync.Mutex
	props    map[string]any
	nested   map[string]any
	failures []error
	requests []Request

	// Transform rewrites each update before it is applied, standing in for
	// server-side normalisation.
	Transform func(path string, value any) any
	// Partial makes responses carry only the top-level fields touched by the
	// request.
	Partial bool
	// Latency delays each response; the delay honours context cancellation.
	Latency time.Duration
}

// NewMemoryTransport returns a transport serving the given props.
func NewMemoryTransport(props, nestedProps map[string]any) *MemoryTransport {
	return &MemoryTransport{
		props:  layering.CloneMap(props),
		nested: layering.CloneMap(nestedProps),
	}
}

// FailNext makes the next Send return err without applying updates.
func (t *MemoryTransport) FailNext(err error) {
	t.mu.Lock()
	t.failures = append(t.failures, err)
	t.mu.Unlock()
}

// Seed replaces the server props, simulating a change made by another client.
func (t *MemoryTransport) Seed(props, nestedProps map[string]any) {
	t.mu.Lock()
	t.props = layering.CloneMap(props)
	t.nested = layering.CloneMap(nestedProps)
	t.mu.Unlock()
}

// Props returns a copy of the server props.
func (t *MemoryTransport) Props() map[string]any {
	t.mu.Lock()
	defer t.mu.Unlock()
	return layering.CloneMap(t.props)
}

// Requests returns the requests received so far, including failed ones.
func (t *MemoryTransport) Requests() []Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Request, len(t.requests))
	copy(out, t.requests)
	return out
}

// Send implements Transport.
func (t *MemoryTransport) Send(ctx context.Context, req Request) (Response, error) {
	if t.Latency > 0 {
		timer := time.NewTimer(t.Latency)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Response{}, ctx.Err()
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.requests = append(t.requests, req)
	if len(t.failures) > 0 {
		err := t.failures[0]
		t.failures = t.failures[1:]
		return Response{}, err
	}

	current, err := Fingerprint(t.props)
	if err != nil {
		return Response{}, err
	}
	if req.Fingerprint != "" && req.Fingerprint != current {
		return Response{}, fmt.Errorf("%w: request %s", ErrFingerprintMismatch, req.ID)
	}

	paths := make([]string, 0, len(req.Updates))
	for path := range req.Updates {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	touched := map[string]struct{}{}
	for _, path := range paths {
		value := layering.Clone(req.Updates[path])
		if t.Transform != nil {
			value = t.Transform(path, value)
		}
		layering.SetPath(t.props, path, value)
		if segments := layering.SplitPath(path); len(segments) > 0 {
			touched[segments[0]] = struct{}{}
		}
	}

	fingerprint, err := Fingerprint(t.props)
	if err != nil {
		return Response{}, err
	}
	resp := Response{
		NestedProps: layering.CloneMap(t.nested),
		Fingerprint: fingerprint,
		Partial:     t.Partial,
	}
	if t.Partial {
		resp.Props = make(map[string]any, len(touched))
		for key := range touched {
			resp.Props[key] = layering.Clone(t.props[key])
		}
	} else {
		resp.Props = layering.CloneMap(t.props)
	}
	return resp, nil
}
