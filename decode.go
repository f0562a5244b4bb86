package valuestore

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-valuestore/internal/hydrate"
	"github.com/goliatone/go-valuestore/layering"
)

// ErrPathNotFound indicates Decode was asked for a path no layer resolves.
var ErrPathNotFound = errors.New("valuestore: path not found")

// DecodeOption configures Decode.
type DecodeOption[T any] func(*decodeConfig[T])

type decodeConfig[T any] struct {
	options []hydrate.DecoderOption[T]
}

// DecodeStrict rejects object fields that T does not declare.
func DecodeStrict[T any]() DecodeOption[T] {
	return func(cfg *decodeConfig[T]) {
		cfg.options = append(cfg.options, hydrate.WithDisallowUnknownFields[T]())
	}
}

// DecodeUseNumber decodes numbers held in interface values as json.Number.
func DecodeUseNumber[T any]() DecodeOption[T] {
	return func(cfg *decodeConfig[T]) {
		cfg.options = append(cfg.options, hydrate.WithUseNumber[T]())
	}
}

// DecodeWithTransform rewrites the resolved value before decoding.
func DecodeWithTransform[T any](fn func(path string, value any) (any, error)) DecodeOption[T] {
	return func(cfg *decodeConfig[T]) {
		if fn == nil {
			return
		}
		cfg.options = append(cfg.options, hydrate.WithPreHook[T](func(ctx hydrate.Context, value any) (any, error) {
			return fn(ctx.Path, value)
		}))
	}
}

// DecodeWithValidator runs fn against the decoded value.
func DecodeWithValidator[T any](fn func(T) error) DecodeOption[T] {
	return func(cfg *decodeConfig[T]) {
		if fn == nil {
			return
		}
		cfg.options = append(cfg.options, hydrate.WithPostHook[T](func(_ hydrate.Context, value *T) error {
			return fn(*value)
		}))
	}
}

// Decode resolves path and decodes the value into T. An empty path decodes
// the effective snapshot.
func Decode[T any](s *Store, path string, opts ...DecodeOption[T]) (T, error) {
	var zero T
	if s == nil {
		return zero, fmt.Errorf("valuestore: store is nil")
	}

	cfg := &decodeConfig[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	var (
		value any
		ctx   hydrate.Context
	)
	path = NormalizePath(path)
	if path == "" {
		value = s.Snapshot()
		ctx = hydrate.Context{Layer: "snapshot"}
	} else {
		resolved, layer := s.resolve(path)
		if layer == layering.LayerNone {
			return zero, fmt.Errorf("%w: %q", ErrPathNotFound, path)
		}
		value = resolved
		ctx = hydrate.Context{Path: path, Layer: layer.String()}
	}

	return hydrate.NewDecoder(cfg.options...).Decode(ctx, value)
}
