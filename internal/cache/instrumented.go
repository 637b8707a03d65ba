package cache

// instrumentedCache counts hits and misses of a page cache and exposes its size.
type instrumentedCache struct {
	Cache
	group string
}

func newInstrumentedCache(pages Cache, group string) *instrumentedCache {
	entries.track(group, pages.Len)
	return &instrumentedCache{Cache: pages, group: group}
}

func (c *instrumentedCache) Get(url string) ([]byte, bool) {
	page, ok := c.Cache.Get(url)
	counter := MissesTotal
	if ok {
		counter = HitsTotal
	}
	counter.WithLabelValues(c.group).Inc()
	return page, ok
}

func (c *instrumentedCache) Close() error {
	entries.untrack(c.group)
	return c.Cache.Close()
}
