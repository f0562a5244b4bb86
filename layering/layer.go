package layering

// Layer identifies which data source answered a path lookup. Layers are
// ordered by precedence: a higher value wins over a lower one.
type Layer int

const (
	// LayerNone marks a lookup that no layer could answer.
	LayerNone Layer = iota
	// LayerNested is the flat dot-path fallback consulted when the canonical
	// walk stops on a non-traversable value.
	LayerNested
	// LayerCanonical is the last tree confirmed by the server.
	LayerCanonical
	// LayerPending holds edits sent in a request that has not settled.
	LayerPending
	// LayerDirty holds local edits not sent yet.
	LayerDirty
)

func (l Layer) String() string {
	switch l {
	case LayerNested:
		return "nested"
	case LayerCanonical:
		return "canonical"
	case LayerPending:
		return "pending"
	case LayerDirty:
		return "dirty"
	default:
		return "none"
	}
}

// ParseLayer converts a string representation into the corresponding Layer.
// Returns LayerNone for unrecognised values.
func ParseLayer(value string) Layer {
	switch value {
	case "nested", "NESTED":
		return LayerNested
	case "canonical", "CANONICAL":
		return LayerCanonical
	case "pending", "PENDING":
		return LayerPending
	case "dirty", "DIRTY":
		return LayerDirty
	default:
		return LayerNone
	}
}

// MarshalText implements encoding.TextMarshaler so traces serialise layers by
// name.
func (l Layer) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Layer) UnmarshalText(text []byte) error {
	*l = ParseLayer(string(text))
	return nil
}

// Precedence returns the lookup order from strongest to weakest. The nested
// layer is last because it is only a fallback for blocked canonical walks.
func Precedence() []Layer {
	return []Layer{LayerDirty, LayerPending, LayerCanonical, LayerNested}
}

// Outranks reports whether l wins over other when both hold a value.
func (l Layer) Outranks(other Layer) bool {
	return l > other
}
