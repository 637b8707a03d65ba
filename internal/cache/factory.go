package cache

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"
)

const defaultPageCacheSize = 512

// ProviderConfig configures one page cache instance.
type ProviderConfig struct {
	// Size bounds the memory provider; zero falls back to defaultPageCacheSize.
	Size int
	TTL  time.Duration

	// OnEvict only fires for the memory provider.
	OnEvict EvictCallback
	Logger  Logger

	RedisAddress  string
	RedisPassword string
	RedisDB       int
	// KeyPrefix namespaces redis keys, defaultKeyPrefix when empty.
	KeyPrefix string

	// Group turns on instrumentation and becomes the "cache" label of the page_cache_* metrics.
	Group string
}

// Provider builds a Cache for a backend.
type Provider func(cfg ProviderConfig) (Cache, error)

type registry struct {
	sync.RWMutex
	byName map[string]Provider
}

var backends = &registry{byName: make(map[string]Provider)}

// Register makes a backend available to New. Registering a nil provider or a name twice panics.
func Register(name string, p Provider) {
	backends.Lock()
	defer backends.Unlock()

	switch {
	case p == nil:
		panic(fmt.Sprintf("cache: nil provider for %q", name))
	case backends.byName[name] != nil:
		panic(fmt.Sprintf("cache: provider %q already registered", name))
	}
	backends.byName[name] = p
}

func lookup(name string) (Provider, bool) {
	backends.RLock()
	defer backends.RUnlock()
	p, ok := backends.byName[name]
	return p, ok
}

// New builds a page cache with the named backend, wrapping it with metrics when cfg.Group is set.
func New(name string, cfg ProviderConfig) (Cache, error) {
	build, ok := lookup(name)
	if !ok {
		return nil, fmt.Errorf("cache: unknown provider %q (registered: %v)", name, RegisteredProviders())
	}
	if cfg.Size <= 0 {
		cfg.Size = defaultPageCacheSize
	}
	if cfg.Group == "" {
		return build(cfg)
	}

	group, next := cfg.Group, cfg.OnEvict
	cfg.OnEvict = func(url string, page []byte) {
		EvictionsTotal.WithLabelValues(group).Inc()
		if next != nil {
			next(url, page)
		}
	}

	pages, err := build(cfg)
	if err != nil {
		return nil, err
	}
	return newInstrumentedCache(pages, group), nil
}

// RegisteredProviders lists backend names in sorted order.
func RegisteredProviders() []string {
	backends.RLock()
	defer backends.RUnlock()
	return slices.Sorted(maps.Keys(backends.byName))
}
