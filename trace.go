package valuestore

import (
	"encoding/json"

	"github.com/goliatone/go-valuestore/layering"
)

// Trace captures how each layer answered a path lookup and which one won.
type Trace struct {
	Path   string         `json:"path"`
	Source layering.Layer `json:"source"`
	Layers []Provenance   `json:"layers"`
}

// Provenance details how a single layer contributed to a traced path.
type Provenance struct {
	Layer layering.Layer `json:"layer"`
	Value any            `json:"value,omitempty"`
	Found bool           `json:"found"`
	// Blocked is set on the canonical entry when the walk stopped on a
	// non-traversable ancestor, which is what enables the nested fallback.
	Blocked bool `json:"blocked,omitempty"`
}

// ResolveWithTrace returns the value Get would return for path together with
// a per-layer account of the lookup, strongest layer first.
func (s *Store) ResolveWithTrace(path string) (any, Trace) {
	path = NormalizePath(path)
	value, source := s.resolve(path)

	trace := Trace{Path: path, Source: source}
	for _, layer := range layering.Precedence() {
		entry := Provenance{Layer: layer}
		switch layer {
		case layering.LayerDirty:
			entry.Value, entry.Found = s.dirty[path]
		case layering.LayerPending:
			entry.Value, entry.Found = s.pending[path]
		case layering.LayerCanonical:
			walk := layering.Walk(s.props, path)
			entry.Value, entry.Found, entry.Blocked = walk.Value, walk.Found, walk.Blocked
		case layering.LayerNested:
			entry.Value, entry.Found = s.nested[path]
		}
		entry.Value = layering.Clone(entry.Value)
		trace.Layers = append(trace.Layers, entry)
	}

	return layering.Clone(value), trace
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
