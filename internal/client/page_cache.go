package client

import (
	"fmt"
	"time"

	"github.com/Belphemur/SeriesDumpster/internal/cache"
	"github.com/Belphemur/SeriesDumpster/internal/config"
)

// pageCacheGroup labels the page cache metrics.
const pageCacheGroup = "pages"

// NewPageCache builds the configured page cache, or returns nil when caching is disabled.
func NewPageCache(cfg *config.Config) (cache.Cache, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}

	provider := cfg.Cache.Provider
	if provider == "" {
		provider = "memory"
	}

	pageCache, err := cache.New(provider, cache.ProviderConfig{
		Size:          cfg.Cache.Size,
		TTL:           config.ParseDuration("cache.ttl", cfg.Cache.TTL, 10*time.Minute),
		Logger:        cache.NewZerologLogger(config.GetLogger()),
		RedisAddress:  cfg.Cache.Redis.Address,
		RedisPassword: cfg.Cache.Redis.Password,
		RedisDB:       cfg.Cache.Redis.DB,
		Group:         pageCacheGroup,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s page cache: %w", provider, err)
	}
	return pageCache, nil
}
