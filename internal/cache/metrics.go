package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Page cache counters; the "cache" label carries ProviderConfig.Group.
var (
	HitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "page_cache_hits_total",
		Help: "Pages served from the cache.",
	}, []string{"cache"})

	MissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "page_cache_misses_total",
		Help: "Page lookups that had to go to the network.",
	}, []string{"cache"})

	EvictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "page_cache_evictions_total",
		Help: "Pages dropped by the memory cache to stay within its size.",
	}, []string{"cache"})
)

// entriesGauges tracks one page_cache_entries gauge per group. The gauge calls Len at
// scrape time so redis TTL expiry is reflected without bookkeeping.
type entriesGauges struct {
	mu      sync.Mutex
	reg     prometheus.Registerer
	byGroup map[string]prometheus.GaugeFunc
}

var entries = &entriesGauges{
	reg:     prometheus.DefaultRegisterer,
	byGroup: make(map[string]prometheus.GaugeFunc),
}

// track registers the gauge of group, replacing a gauge left by an earlier cache of the same group.
func (e *entriesGauges) track(group string, count func() int) {
	gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "page_cache_entries",
		Help:        "Pages currently held by the cache.",
		ConstLabels: prometheus.Labels{"cache": group},
	}, func() float64 { return float64(count()) })

	e.mu.Lock()
	defer e.mu.Unlock()
	if old, ok := e.byGroup[group]; ok {
		e.reg.Unregister(old)
	}
	e.byGroup[group] = gauge
	_ = e.reg.Register(gauge)
}

func (e *entriesGauges) untrack(group string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gauge, ok := e.byGroup[group]; ok {
		e.reg.Unregister(gauge)
		delete(e.byGroup, group)
	}
}

func (e *entriesGauges) tracked(group string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.byGroup[group]
	return ok
}
