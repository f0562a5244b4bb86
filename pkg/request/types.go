package request

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	valuestore "github.com/goliatone/go-valuestore"
	"github.com/goliatone/go-valuestore/layering"
)

// ErrTransportRequired indicates a Runner was used without a Transport.
var ErrTransportRequired = errors.New("request: transport is required")

// ErrFingerprintMismatch indicates the request was built against props the
// server no longer holds.
var ErrFingerprintMismatch = errors.New("request: fingerprint mismatch")

// Request is the payload sent for one cycle.
type Request struct {
	ID string `json:"id"`
	// Updates holds the flushed dirty edits keyed by dot path.
	Updates map[string]any `json:"updates"`
	// Props is the canonical tree the edits were made against.
	Props       map[string]any `json:"props"`
	Fingerprint string         `json:"fingerprint,omitempty"`
}

// Response is the server's answer to a Request.
type Response struct {
	Props       map[string]any `json:"props"`
	NestedProps map[string]any `json:"nested_props,omitempty"`
	// Partial marks Props as carrying only the top-level fields that changed.
	Partial     bool   `json:"partial,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// Transport sends a request and waits for its response.
type Transport interface {
	Send(ctx context.Context, req Request) (Response, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req Request) (Response, error)

// Send implements Transport.
func (f TransportFunc) Send(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// Store is the part of valuestore.Store a cycle drives.
type Store interface {
	HasDirty() bool
	DirtyProps() map[string]any
	OriginalProps() map[string]any
	NestedProps() map[string]any
	FlushDirtyPropsToPending()
	PushPendingPropsBackToDirty()
	ReinitializeAllProps(props, nestedProps map[string]any)
	ReinitializeProvidedProps(props map[string]any) bool
}

var _ Store = (*valuestore.Store)(nil)

// Result describes a finished cycle.
type Result struct {
	RequestID string
	// Skipped is set when there was nothing to send.
	Skipped bool
	// Changed reports whether the canonical props differ after the cycle.
	Changed     bool
	Updates     map[string]any
	Fingerprint string
}

// Runner runs request cycles.
type Runner struct {
	Transport Transport
	Logger    valuestore.Logger
	// Component is stamped on log events.
	Component string
	// Force sends a request even when nothing is dirty.
	Force bool
}

// Cycle sends the store's dirty edits and settles the store with the
// outcome. On any send error, including context cancellation, the edits are
// requeued as dirty and the error is returned wrapped.
func (r Runner) Cycle(ctx context.Context, store Store) (Result, error) {
	if r.Transport == nil {
		return Result{}, ErrTransportRequired
	}
	if store == nil {
		return Result{}, fmt.Errorf("request: store is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if !store.HasDirty() && !r.Force {
		r.log(valuestore.OperationEvent{Op: valuestore.OpRequest})
		return Result{Skipped: true}, nil
	}

	original := store.OriginalProps()
	fingerprint, err := Fingerprint(original)
	if err != nil {
		return Result{}, err
	}
	req := Request{
		ID:          uuid.NewString(),
		Updates:     store.DirtyProps(),
		Props:       original,
		Fingerprint: fingerprint,
	}
	result := Result{RequestID: req.ID, Updates: req.Updates}

	store.FlushDirtyPropsToPending()

	start := time.Now()
	resp, err := r.Transport.Send(ctx, req)
	if err != nil {
		store.PushPendingPropsBackToDirty()
		err = fmt.Errorf("request: send %s: %w", req.ID, err)
		r.log(valuestore.OperationEvent{
			Op:       valuestore.OpRequest,
			Path:     req.ID,
			Count:    len(req.Updates),
			Duration: time.Since(start),
			Err:      err,
		})
		return result, err
	}

	nested := resp.NestedProps
	if resp.Partial {
		result.Changed = store.ReinitializeProvidedProps(resp.Props)
		if nested == nil {
			nested = store.NestedProps()
		}
		// Settle the request so the pending layer stops shadowing the
		// merged canonical props.
		store.ReinitializeAllProps(store.OriginalProps(), nested)
	} else {
		result.Changed = !layering.Equal(original, layering.CloneMap(resp.Props))
		store.ReinitializeAllProps(resp.Props, nested)
	}

	result.Fingerprint = resp.Fingerprint
	if result.Fingerprint == "" {
		if result.Fingerprint, err = Fingerprint(store.OriginalProps()); err != nil {
			return result, err
		}
	}

	r.log(valuestore.OperationEvent{
		Op:       valuestore.OpRequest,
		Path:     req.ID,
		Count:    len(req.Updates),
		Changed:  result.Changed,
		Duration: time.Since(start),
	})
	return result, nil
}

func (r Runner) log(event valuestore.OperationEvent) {
	if r.Logger == nil {
		return
	}
	event.Component = r.Component
	r.Logger.LogOperation(event)
}
