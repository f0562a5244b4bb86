package valuestore

import "testing"

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"firstName":              "firstName",
		"user.firstName":         "user.firstName",
		"user[firstName]":        "user.firstName",
		"items[0][name]":         "items.0.name",
		"tags[]":                 "tags",
		"  user[address][city] ": "user.address.city",
		"":                       "",
	}
	for input, want := range cases {
		if got := NormalizePath(input); got != want {
			t.Fatalf("NormalizePath(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestBracketPathsShareDirtyKeys(t *testing.T) {
	store := New(map[string]any{"user": map[string]any{"firstName": "Ryan"}}, nil)
	store.Set("user[firstName]", "Kevin")

	if !store.IsDirty("user.firstName") {
		t.Fatalf("expected dot path to see bracket edit")
	}
	if got, _ := store.Get("user.firstName"); got != "Kevin" {
		t.Fatalf("expected Kevin, got %v", got)
	}
}
