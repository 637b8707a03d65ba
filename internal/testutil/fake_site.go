package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// FakeSite serves a fixed set of catalog pages keyed by request path and
// answers 404 for everything else. It records how often each path was requested.
type FakeSite struct {
	*httptest.Server

	mu    sync.Mutex
	pages map[string]string
	hits  map[string]int
}

// NewFakeSite starts a FakeSite closed automatically at the end of the test.
func NewFakeSite(t *testing.T, pages map[string]string) *FakeSite {
	t.Helper()
	site := &FakeSite{pages: pages, hits: make(map[string]int)}
	site.Server = httptest.NewServer(http.HandlerFunc(site.serve))
	t.Cleanup(site.Close)
	return site
}

func (s *FakeSite) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	body, ok := s.pages[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

// Hits returns how many times path was requested.
func (s *FakeSite) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}
