package valuestore

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFieldsDescribeEffectiveSnapshot(t *testing.T) {
	store := New(map[string]any{
		"firstName": "Ryan",
		"age":       30,
		"active":    true,
		"middle":    nil,
		"tags":      []any{"a"},
		"user":      map[string]any{"address": map[string]any{"city": "Boston"}, "meta": map[string]any{}},
	}, nil)
	store.Set("user.address.zip", "02101")
	store.Set("nickname", "ry")

	want := []FieldDescriptor{
		{Path: "active", Type: "bool"},
		{Path: "age", Type: "number"},
		{Path: "firstName", Type: "string"},
		{Path: "middle", Type: "null"},
		{Path: "nickname", Type: "string", Dirty: true},
		{Path: "tags", Type: "[]string"},
		{Path: "user.address.city", Type: "string"},
		{Path: "user.address.zip", Type: "string", Dirty: true},
		{Path: "user.meta", Type: "object"},
	}
	if diff := cmp.Diff(want, store.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldsMarkDescendantsOfDirtyObjects(t *testing.T) {
	store := New(map[string]any{"user": map[string]any{"firstName": "Ryan"}}, nil)
	store.Set("user", map[string]any{"firstName": "Kevin", "lastName": "Bond"})

	for _, field := range store.Fields() {
		if !field.Dirty {
			t.Fatalf("expected %q to be dirty", field.Path)
		}
	}
}

func TestFieldsEmptyStore(t *testing.T) {
	fields := New(nil, nil).Fields()
	if fields == nil || len(fields) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", fields)
	}
}
