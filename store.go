package valuestore

import (
	"sort"

	"github.com/goliatone/go-valuestore/layering"
	"github.com/goliatone/go-valuestore/pkg/activity"
)

// Store reconciles a component's server-confirmed props with local edits.
//
// It keeps three independent containers: the canonical tree last confirmed by
// the server (plus its flat nested-prop overrides), the dirty layer of edits
// not sent yet, and the pending layer of edits sent in a request that has not
// settled. Dirty and pending are flat maps keyed by the full dot path.
//
// A Store is meant to be driven from a single event loop and performs no
// locking.
type Store struct {
	props   map[string]any
	nested  map[string]any
	dirty   map[string]any
	pending map[string]any

	cfg storeConfig
}

// New constructs a Store from the initial canonical props and nested-prop
// overrides. Both maps are deep copied; nil maps are treated as empty.
func New(props, nestedProps map[string]any, opts ...Option) *Store {
	return &Store{
		props:   layering.CloneMap(props),
		nested:  layering.CloneMap(nestedProps),
		dirty:   map[string]any{},
		pending: map[string]any{},
		cfg:     applyOptions(opts),
	}
}

// Get returns the most authoritative value known for path. The second return
// is false when no layer holds the path. A stored nil is reported as present.
func (s *Store) Get(path string) (any, bool) {
	value, layer := s.resolve(NormalizePath(path))
	if layer == layering.LayerNone {
		return nil, false
	}
	return layering.Clone(value), true
}

// Has reports whether any layer resolves path, including to an explicit nil.
func (s *Store) Has(path string) bool {
	_, layer := s.resolve(NormalizePath(path))
	return layer != layering.LayerNone
}

// resolve applies the lookup order dirty, pending, canonical walk and, only
// when the walk is blocked by a non-traversable ancestor, the nested-prop
// overrides keyed by the full path.
func (s *Store) resolve(path string) (any, layering.Layer) {
	return lookup(s.dirty, s.pending, s.props, s.nested, path)
}

// lookup is the read order shared by the store and evaluation contexts.
func lookup(dirty, pending, props, nested map[string]any, path string) (any, layering.Layer) {
	if value, ok := dirty[path]; ok {
		return value, layering.LayerDirty
	}
	if value, ok := pending[path]; ok {
		return value, layering.LayerPending
	}

	walk := layering.Walk(props, path)
	if walk.Found {
		return walk.Value, layering.LayerCanonical
	}
	if walk.Blocked {
		if value, ok := nested[path]; ok {
			return value, layering.LayerNested
		}
	}
	return nil, layering.LayerNone
}

// Set records a local edit for path in the dirty layer, replacing any earlier
// dirty edit for the same path. The canonical tree and the pending layer are
// left alone.
func (s *Store) Set(path string, value any) {
	path = NormalizePath(path)
	previous, previousLayer := s.resolve(path)

	s.dirty[path] = layering.Clone(value)

	s.logOperation(OperationEvent{Op: OpSet, Path: path, Layer: previousLayer, Count: 1})
	if s.emitting(activity.VerbPropsSet) {
		s.emit(activity.BuildPropsSetEvent(s.eventInput(activity.PropsEventInput{
			Path:     path,
			OldValue: layering.Clone(previous),
			NewValue: layering.Clone(value),
			Layer:    previousLayer.String(),
		})))
	}
}

// IsDirty reports whether path has an unsent local edit.
func (s *Store) IsDirty(path string) bool {
	_, ok := s.dirty[NormalizePath(path)]
	return ok
}

// IsPending reports whether path has an edit in flight.
func (s *Store) IsPending(path string) bool {
	_, ok := s.pending[NormalizePath(path)]
	return ok
}

// HasDirty reports whether any local edit is waiting to be sent.
func (s *Store) HasDirty() bool {
	return len(s.dirty) > 0
}

// HasPending reports whether any edit is in flight.
func (s *Store) HasPending() bool {
	return len(s.pending) > 0
}

// DirtyProps returns a copy of the dirty layer keyed by dot path.
func (s *Store) DirtyProps() map[string]any {
	return layering.CloneMap(s.dirty)
}

// PendingProps returns a copy of the pending layer keyed by dot path.
func (s *Store) PendingProps() map[string]any {
	return layering.CloneMap(s.pending)
}

// FlushDirtyPropsToPending moves every dirty edit into the pending layer,
// overwriting pending entries for the same path, and empties the dirty layer.
func (s *Store) FlushDirtyPropsToPending() {
	paths := sortedKeys(s.dirty)
	for path, value := range s.dirty {
		s.pending[path] = value
	}
	s.dirty = map[string]any{}

	s.logOperation(OperationEvent{Op: OpFlush, Count: len(paths)})
	if len(paths) > 0 {
		s.emit(activity.BuildPropsFlushedEvent(s.eventInput(activity.PropsEventInput{Paths: paths})))
	}
}

// PushPendingPropsBackToDirty requeues in-flight edits after a failed
// request. A dirty edit made after the flush wins over the requeued pending
// edit for the same path. The pending layer is emptied.
func (s *Store) PushPendingPropsBackToDirty() {
	requeued := make([]string, 0, len(s.pending))
	for path, value := range s.pending {
		if _, ok := s.dirty[path]; ok {
			continue
		}
		s.dirty[path] = value
		requeued = append(requeued, path)
	}
	sort.Strings(requeued)
	s.pending = map[string]any{}

	s.logOperation(OperationEvent{Op: OpRequeue, Count: len(requeued)})
	if len(requeued) > 0 {
		s.emit(activity.BuildPropsRequeuedEvent(s.eventInput(activity.PropsEventInput{Paths: requeued})))
	}
}

// ReinitializeAllProps replaces the canonical tree and nested-prop overrides
// after a request settles successfully. The pending layer is dropped because
// the request that produced the new state has resolved; dirty edits survive.
func (s *Store) ReinitializeAllProps(props, nestedProps map[string]any) {
	s.props = layering.CloneMap(props)
	s.nested = layering.CloneMap(nestedProps)
	s.pending = map[string]any{}

	s.logOperation(OperationEvent{Op: OpReinitializeAll, Count: len(s.props)})
	s.emit(activity.BuildPropsReinitializedEvent(s.eventInput(activity.PropsEventInput{Paths: sortedKeys(s.props)})))
}

// ReinitializeProvidedProps overwrites each top-level canonical field present
// in props whose value differs by deep comparison. Fields absent from props,
// the nested-prop overrides and both edit layers are untouched. It reports
// whether any field changed.
func (s *Store) ReinitializeProvidedProps(props map[string]any) bool {
	changed := make([]string, 0, len(props))
	for key, value := range props {
		current, exists := s.props[key]
		if exists && layering.Equal(current, value) {
			continue
		}
		s.props[key] = layering.Clone(value)
		changed = append(changed, key)
	}
	sort.Strings(changed)

	s.logOperation(OperationEvent{Op: OpReinitializeProvided, Count: len(changed), Changed: len(changed) > 0})
	if len(changed) > 0 {
		s.emit(activity.BuildPropsUpdatedEvent(s.eventInput(activity.PropsEventInput{Paths: changed})))
	}
	return len(changed) > 0
}

// OriginalProps returns a copy of the canonical tree, unaffected by dirty or
// pending edits.
func (s *Store) OriginalProps() map[string]any {
	return layering.CloneMap(s.props)
}

// NestedProps returns a copy of the nested-prop overrides.
func (s *Store) NestedProps() map[string]any {
	return layering.CloneMap(s.nested)
}

// Snapshot composes the effective tree: the canonical tree with pending and
// then dirty edits written at their paths. An exact dirty key replaces its
// whole subtree, so a Set("user", ...) hides pending edits beneath "user".
// It is a convenience view for templates and expressions and can differ from
// Get in one case: a dirty key beneath an exact pending key refines the
// snapshot object, while Get of the ancestor returns the pending value as
// stored. Nested-prop overrides are not part of the snapshot.
func (s *Store) Snapshot() map[string]any {
	return layering.Compose(s.props, s.pending, s.dirty)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
