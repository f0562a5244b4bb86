package layering

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComposeFromFixture(t *testing.T) {
	fx := loadLayeringFixture(t, "layering_merge.json")

	for _, tc := range fx.Cases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			overlays := make([]map[string]any, len(tc.Overlays))
			for i := range tc.Overlays {
				overlays[i] = tc.Overlays[i].Flat
			}

			got := Compose(tc.Tree, overlays...)
			if diff := cmp.Diff(tc.Expect, got); diff != "" {
				t.Errorf("composed tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComposeNilTree(t *testing.T) {
	got := Compose(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil map, got %#v", got)
	}
}

func TestComposeDoesNotAliasInputs(t *testing.T) {
	tree := map[string]any{"user": map[string]any{"lastName": "Bond"}, "tags": []any{"a"}}
	dirty := map[string]any{"user.firstName": "Kevin", "profile": map[string]any{"city": "Grand Rapids"}}

	composed := Compose(tree, dirty)
	composed["user"].(map[string]any)["lastName"] = "changed"
	composed["tags"].([]any)[0] = "changed"
	composed["profile"].(map[string]any)["city"] = "changed"

	if _, ok := tree["user"].(map[string]any)["firstName"]; ok {
		t.Fatalf("tree received overlay keys: %#v", tree)
	}
	if tree["user"].(map[string]any)["lastName"] != "Bond" || tree["tags"].([]any)[0] != "a" {
		t.Fatalf("tree mutated: %#v", tree)
	}
	if dirty["profile"].(map[string]any)["city"] != "Grand Rapids" {
		t.Fatalf("overlay mutated: %#v", dirty)
	}
}

func TestCloneDetachesNestedValues(t *testing.T) {
	type labelled struct {
		Labels []string
	}
	original := map[string]any{
		"items":   []any{map[string]any{"id": 1}},
		"typed":   map[string]int{"a": 1},
		"struct":  labelled{Labels: []string{"x"}},
		"pointer": &labelled{Labels: []string{"y"}},
	}

	cloned := Clone(original).(map[string]any)
	cloned["items"].([]any)[0].(map[string]any)["id"] = 2
	cloned["typed"].(map[string]int)["a"] = 2
	cloned["struct"].(labelled).Labels[0] = "changed"
	cloned["pointer"].(*labelled).Labels[0] = "changed"

	if original["items"].([]any)[0].(map[string]any)["id"] != 1 {
		t.Fatalf("items aliased")
	}
	if original["typed"].(map[string]int)["a"] != 1 {
		t.Fatalf("typed map aliased")
	}
	if original["struct"].(labelled).Labels[0] != "x" {
		t.Fatalf("struct slice aliased")
	}
	if original["pointer"].(*labelled).Labels[0] != "y" {
		t.Fatalf("pointer aliased")
	}
}

type layeringFixture struct {
	Description string                `json:"description"`
	Cases       []layeringFixtureCase `json:"cases"`
}

type layeringFixtureCase struct {
	Name     string                   `json:"name"`
	Tree     map[string]any           `json:"tree"`
	Overlays []layeringFixtureOverlay `json:"overlays"`
	Expect   map[string]any           `json:"expect"`
}

type layeringFixtureOverlay struct {
	Layer string         `json:"layer"`
	Flat  map[string]any `json:"flat"`
}

func loadLayeringFixture(t *testing.T, name string) layeringFixture {
	t.Helper()
	path := filepath.Join("testdata", name)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read layering fixture %q: %v", name, err)
	}
	var fx layeringFixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		t.Fatalf("failed to unmarshal layering fixture %q: %v", name, err)
	}
	return fx
}
