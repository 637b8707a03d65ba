package cache

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

// isolateEntries points the entries gauges at a fresh registry for the test.
func isolateEntries(t *testing.T) *prometheus.Registry {
	t.Helper()
	reg := prometheus.NewRegistry()
	entries.mu.Lock()
	previous := entries.reg
	entries.reg = reg
	entries.mu.Unlock()
	t.Cleanup(func() {
		entries.mu.Lock()
		entries.reg = previous
		entries.mu.Unlock()
	})
	return reg
}

func newGroupCache(t *testing.T, group string, size int) Cache {
	t.Helper()
	c, err := New("memory", ProviderConfig{Size: size, TTL: time.Hour, Group: group})
	if err != nil {
		t.Fatalf("New(%q): %v", group, err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func entriesOf(t *testing.T, reg *prometheus.Registry, group string) (float64, bool) {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != "page_cache_entries" {
			continue
		}
		for _, metric := range family.GetMetric() {
			if hasLabel(metric, "cache", group) {
				return metric.GetGauge().GetValue(), true
			}
		}
	}
	return 0, false
}

func hasLabel(metric *dto.Metric, name, value string) bool {
	for _, pair := range metric.GetLabel() {
		if pair.GetName() == name && pair.GetValue() == value {
			return true
		}
	}
	return false
}

func TestInstrumentedCache_HitsAndMisses(t *testing.T) {
	isolateEntries(t)
	c := newGroupCache(t, "test-pages", 10)

	hits := promtest.ToFloat64(HitsTotal.WithLabelValues("test-pages"))
	misses := promtest.ToFloat64(MissesTotal.WithLabelValues("test-pages"))

	_, _ = c.Get(pageKey)
	c.Set(pageKey, []byte("<html></html>"))
	_, _ = c.Get(pageKey)

	if got := promtest.ToFloat64(HitsTotal.WithLabelValues("test-pages")) - hits; got != 1 {
		t.Errorf("hits grew by %.0f, want 1", got)
	}
	if got := promtest.ToFloat64(MissesTotal.WithLabelValues("test-pages")) - misses; got != 1 {
		t.Errorf("misses grew by %.0f, want 1", got)
	}
}

func TestInstrumentedCache_Evictions(t *testing.T) {
	isolateEntries(t)
	c := newGroupCache(t, "test-evict", 1)

	before := promtest.ToFloat64(EvictionsTotal.WithLabelValues("test-evict"))
	c.Set("https://s.to/a", []byte("a"))
	c.Set("https://s.to/b", []byte("b"))

	if got := promtest.ToFloat64(EvictionsTotal.WithLabelValues("test-evict")) - before; got != 1 {
		t.Errorf("evictions grew by %.0f, want 1", got)
	}
}

func TestInstrumentedCache_Entries(t *testing.T) {
	reg := isolateEntries(t)
	c := newGroupCache(t, "test-entries", 10)

	if v, ok := entriesOf(t, reg, "test-entries"); !ok || v != 0 {
		t.Fatalf("page_cache_entries = %.0f (present %v), want 0", v, ok)
	}

	c.Set("https://s.to/x", []byte("1"))
	c.Set("https://s.to/y", []byte("2"))

	if v, _ := entriesOf(t, reg, "test-entries"); v != 2 {
		t.Errorf("page_cache_entries = %.0f, want 2", v)
	}
}

func TestInstrumentedCache_CloseUntracksEntries(t *testing.T) {
	reg := isolateEntries(t)
	c, err := New("memory", ProviderConfig{Size: 10, TTL: time.Hour, Group: "test-close"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !entries.tracked("test-close") {
		t.Fatal("Expected entries gauge after New")
	}

	_ = c.Close()

	if entries.tracked("test-close") {
		t.Error("Expected entries gauge to be removed by Close")
	}
	if _, ok := entriesOf(t, reg, "test-close"); ok {
		t.Error("Expected page_cache_entries to disappear from the registry")
	}
}
