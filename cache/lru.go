// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"

	"github.com/provenet/ledger/log"
	"github.com/provenet/ledger/metrics"
)

// stats are reported once every reportInterval lookups.
const reportInterval = 2000

var (
	logger             = log.WithContext("pkg", "cache")
	metricCacheHitMiss = metrics.LazyLoadGaugeVec("cache_hit_miss_count", []string{"type", "event"})
)

// LRU is a typed LRU cache over golang-lru that keeps hit/miss stats.
type LRU[K comparable, V any] struct {
	name  string
	cache *lru.Cache
	stats Stats
}

// NewLRU create a LRU cache instance. The name labels its stats.
// maxSize should be > 0, or an error returned.
func NewLRU[K comparable, V any](name string, maxSize int) (*LRU[K, V], error) {
	c, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{name: name, cache: c}, nil
}

// Get looks up the key and records a hit or miss.
func (l *LRU[K, V]) Get(key K) (V, bool) {
	v, ok := l.cache.Get(key)
	var n int64
	if ok {
		n = l.stats.hit.Add(1)
	} else {
		n = l.stats.miss.Add(1)
	}
	if n%reportInterval == 0 {
		l.report()
	}
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

func (l *LRU[K, V]) report() {
	changed, hit, miss := l.stats.Stats()
	if changed {
		logger.Debug("cache stats", "type", l.name, "hit", hit, "miss", miss, "rate", hitRate(hit, miss))
	}
	metricCacheHitMiss().SetWithLabel(hit, map[string]string{"type": l.name, "event": "hit"})
	metricCacheHitMiss().SetWithLabel(miss, map[string]string{"type": l.name, "event": "miss"})
}

// Add adds a value, evicting the oldest entry if full.
func (l *LRU[K, V]) Add(key K, val V) {
	l.cache.Add(key, val)
}

// Len returns the number of cached entries.
func (l *LRU[K, V]) Len() int {
	return l.cache.Len()
}

// GetOrLoad first try to get from cache, do load if missed.
// Failed loads are not cached.
func (l *LRU[K, V]) GetOrLoad(key K, loader func(K) (V, error)) (V, error) {
	if v, ok := l.Get(key); ok {
		return v, nil
	}
	v, err := loader(key)
	if err != nil {
		var zero V
		return zero, err
	}
	l.cache.Add(key, v)
	return v, nil
}

// Stats returns the accumulated hit/miss counters.
func (l *LRU[K, V]) Stats() *Stats {
	return &l.stats
}

// Stats is a utility for collecting cache hit/miss.
type Stats struct {
	hit, miss atomic.Int64
	flag      atomic.Int32
}

// Stats returns the number of hits and misses and whether
// the hit rate was changed comparing to the last call.
func (cs *Stats) Stats() (bool, int64, int64) {
	hit := cs.hit.Load()
	miss := cs.miss.Load()
	flag := int32(hitRate(hit, miss) * 1000)

	return cs.flag.Swap(flag) != flag, hit, miss
}

func hitRate(hit, miss int64) float64 {
	if lookups := hit + miss; lookups > 0 {
		return float64(hit) / float64(lookups)
	}
	return 0
}
