package providers

import "hobbyd/internal/structures"

// instrumentedCache counts hits and misses of the response cache.
type instrumentedCache struct {
	CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c *instrumentedCache) Get(key string) ([]byte, bool) {
	val, ok := c.CacheProviderInterface.Get(key)
	if ok {
		c.metrics.IncCacheHits()
	} else {
		c.metrics.IncCacheMisses()
	}
	return val, ok
}

// NewInstrumentedCacheProvider wraps the response cache with hit/miss
// counters. A disabled cache or disabled metrics yields the bare cache so
// no phantom misses are recorded.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	inner := NewCacheProvider(conf, logger)
	if _, disabled := inner.(*noopCache); disabled {
		return inner
	}
	if _, disabled := metrics.(*noopMetrics); disabled {
		return inner
	}
	return &instrumentedCache{CacheProviderInterface: inner, metrics: metrics}
}
