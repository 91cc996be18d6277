// Package store provides a fast membership index over media ids, backed by a
// Bloom filter with an LRU cache bounding memory.
package store

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	lru "github.com/hashicorp/golang-lru/v2"
)

// MediaIndex answers "has this media id been seen" without scanning the
// collections that own the tracks. The Bloom filter short-circuits the
// common miss case; the definitive answer comes from the id set. When the
// set outgrows its capacity the least recently touched ids are evicted.
type MediaIndex struct {
	mu       sync.RWMutex
	ids      map[string]struct{}
	filter   *bloom.BloomFilter
	recency  *lru.Cache[string, struct{}]
	capacity int
	fpRate   float64
}

// NewMediaIndex creates an index sized for capacity ids with the given Bloom
// false positive rate.
func NewMediaIndex(capacity int, fpRate float64) *MediaIndex {
	if capacity <= 0 {
		capacity = 1
	}
	recency, _ := lru.New[string, struct{}](capacity)

	return &MediaIndex{
		ids:      make(map[string]struct{}),
		filter:   bloom.NewWithEstimates(uint(capacity), fpRate),
		recency:  recency,
		capacity: capacity,
		fpRate:   fpRate,
	}
}

// Has reports whether mediaID is present.
func (m *MediaIndex) Has(mediaID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.filter.TestString(mediaID) {
		return false
	}
	_, ok := m.ids[mediaID]
	return ok
}

// Add records mediaID, evicting the oldest entry when over capacity.
func (m *MediaIndex) Add(mediaID string) {
	if mediaID == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.ids[mediaID]; ok {
		m.recency.Add(mediaID, struct{}{})
		return
	}

	m.ids[mediaID] = struct{}{}
	m.filter.AddString(mediaID)
	m.recency.Add(mediaID, struct{}{})

	if len(m.ids) > m.capacity {
		m.evictOldest()
	}
}

// Remove forgets mediaID. The Bloom filter cannot unlearn, so a removed id
// may still cost a map lookup on the next Has.
func (m *MediaIndex) Remove(mediaID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.ids[mediaID]; !ok {
		return
	}
	delete(m.ids, mediaID)
	m.recency.Remove(mediaID)
}

// Reset replaces the index contents with the given ids.
func (m *MediaIndex) Reset(mediaIDs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ids = make(map[string]struct{})
	m.filter = bloom.NewWithEstimates(uint(m.capacity), m.fpRate)
	m.recency.Purge()

	for _, id := range mediaIDs {
		if id == "" {
			continue
		}
		m.ids[id] = struct{}{}
		m.filter.AddString(id)
		m.recency.Add(id, struct{}{})
	}

	for len(m.ids) > m.capacity {
		m.evictOldest()
	}
}

// Size returns the number of indexed ids.
func (m *MediaIndex) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ids)
}

func (m *MediaIndex) evictOldest() {
	oldest, _, ok := m.recency.GetOldest()
	if !ok {
		return
	}
	delete(m.ids, oldest)
	m.recency.Remove(oldest)
}
