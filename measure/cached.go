package measure

import (
	"hash/fnv"
	"math"
	"sync"
	"sync/atomic"

	sprotty "github.com/tortmayr/sprotty-1"
)

const (
	// cacheShards is the number of shards. Power of 2 so the shard
	// index is a bitwise AND of the key hash.
	cacheShards = 16

	// DefaultCacheCapacity is the number of entries each shard retains
	// when NewCached is given no explicit capacity.
	DefaultCacheCapacity = 256
)

// Cached wraps a Measurer with a sharded LRU cache. Model updates
// re-measure the same label texts over and over, so even a small cache
// absorbs almost all shaping work. Safe for concurrent use when the
// wrapped Measurer is.
type Cached struct {
	inner    Measurer
	capacity int
	shards   [cacheShards]*cacheShard

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// cacheKey identifies one measurement. The size is keyed by bit pattern
// so lookups match exactly without floating-point comparison concerns.
type cacheKey struct {
	text     string
	sizeBits uint64
}

// cacheShard holds the entries whose text hashes to this shard. Each
// shard has its own mutex for reduced contention.
type cacheShard struct {
	mu      sync.Mutex
	entries map[cacheKey]*cacheEntry
	lru     lruList
}

type cacheEntry struct {
	size sprotty.Size
	node *lruNode
}

// NewCached wraps m with a cache holding capacity entries per shard.
// A capacity <= 0 selects DefaultCacheCapacity.
func NewCached(m Measurer, capacity int) *Cached {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	c := &Cached{inner: m, capacity: capacity}
	for i := range c.shards {
		c.shards[i] = &cacheShard{entries: make(map[cacheKey]*cacheEntry)}
	}
	return c
}

// Measure implements the Measurer interface. Results are cached by text
// and size. Errors are returned without being cached, so a transient
// failure does not poison the entry.
//
// The wrapped measurer runs outside the shard lock: concurrent misses on
// the same key may measure twice, and the first stored result wins.
func (c *Cached) Measure(text string, size float64) (sprotty.Size, error) {
	key := cacheKey{text: text, sizeBits: math.Float64bits(size)}
	shard := c.shards[shardIndex(text)]

	shard.mu.Lock()
	if entry, ok := shard.entries[key]; ok {
		shard.lru.moveToFront(entry.node)
		sz := entry.size
		shard.mu.Unlock()
		c.hits.Add(1)
		return sz, nil
	}
	shard.mu.Unlock()
	c.misses.Add(1)

	sz, err := c.inner.Measure(text, size)
	if err != nil {
		return sprotty.Size{}, err
	}

	shard.mu.Lock()
	defer shard.mu.Unlock()
	if entry, ok := shard.entries[key]; ok {
		// Another goroutine measured the same text in the meantime.
		shard.lru.moveToFront(entry.node)
		return entry.size, nil
	}
	for shard.lru.len >= c.capacity {
		oldest, ok := shard.lru.removeOldest()
		if !ok {
			break
		}
		delete(shard.entries, oldest)
		c.evictions.Add(1)
	}
	shard.entries[key] = &cacheEntry{size: sz, node: shard.lru.pushFront(key)}
	return sz, nil
}

// Len returns the number of cached measurements across all shards.
func (c *Cached) Len() int {
	total := 0
	for _, shard := range c.shards {
		shard.mu.Lock()
		total += len(shard.entries)
		shard.mu.Unlock()
	}
	return total
}

// Clear drops every cached measurement. The counters keep counting.
func (c *Cached) Clear() {
	for _, shard := range c.shards {
		shard.mu.Lock()
		shard.entries = make(map[cacheKey]*cacheEntry)
		shard.lru = lruList{}
		shard.mu.Unlock()
	}
}

// Stats is a point-in-time snapshot of the cache effectiveness counters.
type Stats struct {
	Len       int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Stats returns the current counters. Len walks all shards and is the
// only part that takes locks.
func (c *Cached) Stats() Stats {
	return Stats{
		Len:       c.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// shardIndex selects the shard for a text. Hashing only the text keeps
// all sizes of one label in the same shard.
func shardIndex(text string) int {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	return int(h.Sum64() & (cacheShards - 1))
}

// lruNode is a link in the recency list. Nodes carry their key so
// eviction can delete the map entry in O(1).
type lruNode struct {
	key  cacheKey
	prev *lruNode
	next *lruNode
}

// lruList is a doubly-linked recency list: head is the most recently
// used entry, tail the next to evict. Callers synchronize access.
type lruList struct {
	head *lruNode
	tail *lruNode
	len  int
}

func (l *lruList) pushFront(key cacheKey) *lruNode {
	node := &lruNode{key: key}
	if l.head == nil {
		l.tail = node
	} else {
		node.next = l.head
		l.head.prev = node
	}
	l.head = node
	l.len++
	return node
}

func (l *lruList) moveToFront(node *lruNode) {
	if node == nil || node == l.head {
		return
	}
	l.unlink(node)
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
	l.len++
}

func (l *lruList) removeOldest() (cacheKey, bool) {
	if l.tail == nil {
		return cacheKey{}, false
	}
	node := l.tail
	l.unlink(node)
	return node.key, true
}

func (l *lruList) unlink(node *lruNode) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
	l.len--
}
