package cmap

import (
	"sync"

	"github.com/spaolacci/murmur3"
)

// DefaultShardCount is the default number of shards.
const DefaultShardCount = 16

// HashFunc maps a key to its shard hash.
type HashFunc[K comparable] func(K) uint64

// Map is a concurrent-safe sharded map.
type Map[K comparable, V any] struct {
	shards    []*shard[K, V]
	shardMask uint64
	hash      HashFunc[K]
}

type shard[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

type config struct {
	shards int
}

// Option configures a Map.
type Option func(*config)

// WithShardCount sets the number of shards. Values that are not a power
// of two fall back to DefaultShardCount.
func WithShardCount(n int) Option {
	return func(c *config) {
		c.shards = n
	}
}

// New creates a map that routes keys with hash.
func New[K comparable, V any](hash HashFunc[K], opts ...Option) *Map[K, V] {
	cfg := config{shards: DefaultShardCount}
	for _, opt := range opts {
		opt(&cfg)
	}
	n := cfg.shards
	if n <= 0 || n&(n-1) != 0 {
		n = DefaultShardCount
	}

	m := &Map[K, V]{
		shards:    make([]*shard[K, V], n),
		shardMask: uint64(n - 1),
		hash:      hash,
	}
	for i := range m.shards {
		m.shards[i] = &shard[K, V]{items: make(map[K]V)}
	}
	return m
}

// StringHash hashes string keys with murmur3.
func StringHash(s string) uint64 {
	return murmur3.Sum64([]byte(s))
}

// Array32Hash hashes 32-byte array keys with murmur3.
func Array32Hash(k [32]byte) uint64 {
	return murmur3.Sum64(k[:])
}

func (m *Map[K, V]) shardFor(key K) *shard[K, V] {
	return m.shards[m.hash(key)&m.shardMask]
}

// Get retrieves a value by key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	s := m.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

// Set stores a key-value pair.
func (m *Map[K, V]) Set(key K, value V) {
	s := m.shardFor(key)
	s.mu.Lock()
	s.items[key] = value
	s.mu.Unlock()
}

// SetIfAbsent stores value only when key is not present and reports
// whether it did.
func (m *Map[K, V]) SetIfAbsent(key K, value V) bool {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key]; ok {
		return false
	}
	s.items[key] = value
	return true
}

// Delete removes a key.
func (m *Map[K, V]) Delete(key K) {
	s := m.shardFor(key)
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

// Pop removes a key and returns the value it held.
func (m *Map[K, V]) Pop(key K) (V, bool) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	if ok {
		delete(s.items, key)
	}
	return v, ok
}

// Has checks if a key exists.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Count returns the total number of items.
func (m *Map[K, V]) Count() int {
	n := 0
	for _, s := range m.shards {
		s.mu.RLock()
		n += len(s.items)
		s.mu.RUnlock()
	}
	return n
}

// Range calls fn for every pair until fn returns false.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	for _, s := range m.shards {
		s.mu.RLock()
		for k, v := range s.items {
			if !fn(k, v) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}

// Keys returns all keys.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.Count())
	m.Range(func(k K, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Clear removes all items.
func (m *Map[K, V]) Clear() {
	for _, s := range m.shards {
		s.mu.Lock()
		s.items = make(map[K]V)
		s.mu.Unlock()
	}
}

// ShardCount returns the number of shards.
func (m *Map[K, V]) ShardCount() int {
	return len(m.shards)
}

// ShardSizes returns the item count of each shard.
func (m *Map[K, V]) ShardSizes() []int {
	sizes := make([]int, len(m.shards))
	for i, s := range m.shards {
		s.mu.RLock()
		sizes[i] = len(s.items)
		s.mu.RUnlock()
	}
	return sizes
}
