package valuestore

import (
	"fmt"
	"testing"
)

func benchmarkStore() *Store {
	items := make([]any, 50)
	for i := range items {
		items[i] = map[string]any{
			"name":   fmt.Sprintf("item_%d", i),
			"limits": map[string]any{"daily": 100 - i, "weekly": 700 - (i * 10)},
		}
	}
	store := New(map[string]any{"items": items, "user": 42}, map[string]any{"user.firstName": "Ryan"})
	for i := 0; i < 20; i++ {
		store.Set(fmt.Sprintf("items.%d.name", i), fmt.Sprintf("edited_%d", i))
	}
	store.FlushDirtyPropsToPending()
	store.Set("items.0.name", "latest")
	return store
}

func BenchmarkGetCanonical(b *testing.B) {
	store := benchmarkStore()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := store.Get("items.49.limits.weekly"); !ok {
			b.Fatalf("expected value")
		}
	}
}

func BenchmarkGetNestedFallback(b *testing.B) {
	store := benchmarkStore()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := store.Get("user.firstName"); !ok {
			b.Fatalf("expected value")
		}
	}
}

func BenchmarkResolveWithTrace(b *testing.B) {
	store := benchmarkStore()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, trace := store.ResolveWithTrace("items.10.name"); trace.Source == 0 {
			b.Fatalf("expected resolved trace")
		}
	}
}

func BenchmarkSnapshot(b *testing.B) {
	store := benchmarkStore()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Snapshot()
	}
}
