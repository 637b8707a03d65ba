package cache

import (
	"bytes"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

func init() {
	Register("memory", newMemoryCache)
}

// memoryCache holds page bodies in an expiring LRU keyed by PageKey(url).
// Stored bodies are private copies, so callers may reuse their buffers.
type memoryCache struct {
	pages *lru.LRU[string, []byte]
}

func newMemoryCache(cfg ProviderConfig) (Cache, error) {
	var onEvict lru.EvictCallback[string, []byte]
	if notify := cfg.OnEvict; notify != nil {
		onEvict = func(key string, page []byte) { notify(key, page) }
	}
	return &memoryCache{pages: lru.NewLRU[string, []byte](cfg.Size, onEvict, cfg.TTL)}, nil
}

func (m *memoryCache) Get(url string) ([]byte, bool) {
	return m.pages.Get(PageKey(url))
}

func (m *memoryCache) Set(url string, page []byte) {
	m.pages.Add(PageKey(url), bytes.Clone(page))
}

func (m *memoryCache) Contains(url string) bool {
	return m.pages.Contains(PageKey(url))
}

func (m *memoryCache) Len() int { return m.pages.Len() }

func (m *memoryCache) Close() error { return nil }
