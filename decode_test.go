package valuestore

import (
	"errors"
	"strings"
	"testing"
)

type profileProps struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Tags      []string `json:"tags"`
}

func TestDecodeResolvedSubtree(t *testing.T) {
	store := New(map[string]any{
		"user": map[string]any{"firstName": "Ryan", "lastName": "Weaver"},
	}, nil)
	store.Set("user", map[string]any{"firstName": "Kevin", "lastName": "Bond", "tags": []any{"admin"}})

	got, err := Decode[profileProps](store, "user")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.FirstName != "Kevin" || got.LastName != "Bond" || len(got.Tags) != 1 {
		t.Fatalf("unexpected decode %+v", got)
	}
}

func TestDecodeSnapshot(t *testing.T) {
	store := New(map[string]any{"firstName": "Ryan", "lastName": "Weaver"}, nil)
	store.Set("firstName", "Kevin")

	got, err := Decode[profileProps](store, "")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.FirstName != "Kevin" || got.LastName != "Weaver" {
		t.Fatalf("unexpected decode %+v", got)
	}
}

func TestDecodeScalarAndNested(t *testing.T) {
	store := New(map[string]any{"user": 5, "count": 3}, map[string]any{"user.firstName": "Ryan"})

	name, err := Decode[string](store, "user[firstName]")
	if err != nil || name != "Ryan" {
		t.Fatalf("expected Ryan, got %q (err=%v)", name, err)
	}
	count, err := Decode[int](store, "count")
	if err != nil || count != 3 {
		t.Fatalf("expected 3, got %d (err=%v)", count, err)
	}
}

func TestDecodeErrors(t *testing.T) {
	store := New(map[string]any{"user": map[string]any{"firstName": "Ryan", "nickname": "ry"}}, nil)

	if _, err := Decode[profileProps](store, "user.lastName"); !errors.Is(err, ErrPathNotFound) {
		t.Fatalf("expected ErrPathNotFound, got %v", err)
	}
	if _, err := Decode[profileProps](store, "user", DecodeStrict[profileProps]()); err == nil || !strings.Contains(err.Error(), "unknown field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}

	required := errors.New("lastName required")
	_, err := Decode[profileProps](store, "user", DecodeWithValidator(func(p profileProps) error {
		if p.LastName == "" {
			return required
		}
		return nil
	}))
	if !errors.Is(err, required) {
		t.Fatalf("expected validator error, got %v", err)
	}
	if _, err := Decode[profileProps](nil, "user"); err == nil {
		t.Fatalf("expected error for nil store")
	}
}

func TestDecodeWithTransform(t *testing.T) {
	store := New(map[string]any{"user": 5}, nil)

	got, err := Decode[profileProps](store, "user", DecodeWithTransform[profileProps](func(path string, value any) (any, error) {
		if _, ok := value.(map[string]any); ok {
			return value, nil
		}
		return map[string]any{"firstName": path}, nil
	}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.FirstName != "user" {
		t.Fatalf("expected transform to run, got %+v", got)
	}
}
