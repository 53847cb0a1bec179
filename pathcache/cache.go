// SPDX-License-Identifier: MIT

package pathcache

import (
	"fmt"
	"sync"

	"github.com/katalvlaran/citysim/network"
	"github.com/katalvlaran/citysim/pathfind"
)

// Cache is a bucketed approximate-LRU route cache.
type Cache struct {
	mu    sync.Mutex
	opts  Options
	slots []slot // bucket k occupies slots[k*BucketSize : (k+1)*BucketSize]

	hits        uint64
	reverseHits uint64
	misses      uint64
	inserts     uint64
	evictions   uint64
	entries     int
}

// New allocates a cache.
func New(opts ...Option) (*Cache, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Buckets <= 0 || cfg.BucketSize <= 0 {
		return nil, fmt.Errorf("%w: %d×%d", ErrBadGeometry, cfg.Buckets, cfg.BucketSize)
	}

	return &Cache{opts: cfg, slots: make([]slot, cfg.Buckets*cfg.BucketSize)}, nil
}

// Get returns the route from a to b. A route stored as (b, a) is returned
// reversed. Negative ids always miss.
func (c *Cache) Get(a, b network.StationID) (pathfind.Path, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if a < 0 || b < 0 {
		c.misses++
		return nil, false
	}
	bucket := c.bucket(a, b)
	k, reversed := find(bucket, a, b)
	if k < 0 {
		c.misses++
		touch(bucket, -1)
		return nil, false
	}
	touch(bucket, k)
	c.hits++
	if reversed {
		c.reverseHits++
		return bucket[k].path.Reversed(), true
	}

	return bucket[k].path.Clone(), true
}

// Put stores p as the route from a to b and reports whether a prior entry
// was evicted to make room. Negative ids, empty or oversized paths, and paths
// whose endpoints are not (a, b), are rejected. An existing entry for either
// orientation is kept.
//
// Steps:
//  1. Reject malformed input.
//  2. If (a, b) or (b, a) is present, touch it and return false.
//  3. Use the first free slot, else evict the most idle one.
//  4. Store a private copy and touch the slot.
func (c *Cache) Put(a, b network.StationID, p pathfind.Path) bool {
	// 1) Validate
	if a < 0 || b < 0 || len(p) < 2 || len(p) > pathfind.MaxPathLen || p.Start() != a || p.End() != b {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	bucket := c.bucket(a, b)

	// 2) First writer wins
	if k, _ := find(bucket, a, b); k >= 0 {
		touch(bucket, k)
		return false
	}

	// 3) Choose slot
	k, evicted := -1, false
	for i := range bucket {
		if !bucket[i].used {
			k = i
			break
		}
	}
	if k < 0 {
		k = victim(bucket)
		evicted = true
		c.evictions++
	} else {
		c.entries++
	}

	// 4) Store
	bucket[k] = slot{used: true, a: a, b: b, path: p.Clone()}
	touch(bucket, k)
	c.inserts++

	return evicted
}

// Len returns the number of stored routes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.entries
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:        c.hits,
		ReverseHits: c.reverseHits,
		Misses:      c.misses,
		Inserts:     c.inserts,
		Evictions:   c.evictions,
		Entries:     c.entries,
		Capacity:    len(c.slots),
	}
}

func (c *Cache) bucket(a, b network.StationID) []slot {
	k := (int(a) + int(b)) % c.opts.Buckets
	size := c.opts.BucketSize

	return c.slots[k*size : (k+1)*size : (k+1)*size]
}

// find locates (a, b) verbatim first, then (b, a).
func find(bucket []slot, a, b network.StationID) (int, bool) {
	for i := range bucket {
		if bucket[i].used && bucket[i].a == a && bucket[i].b == b {
			return i, false
		}
	}
	for i := range bucket {
		if bucket[i].used && bucket[i].a == b && bucket[i].b == a {
			return i, true
		}
	}

	return -1, false
}

// touch resets slot k and ages every other occupied slot. k < 0 ages all.
func touch(bucket []slot, k int) {
	for i := range bucket {
		if !bucket[i].used {
			continue
		}
		if i == k {
			bucket[i].idle = 0
		} else {
			bucket[i].idle++
		}
	}
}

// victim returns the most idle slot, lowest index on ties.
func victim(bucket []slot) int {
	best := 0
	for i := 1; i < len(bucket); i++ {
		if bucket[i].idle > bucket[best].idle {
			best = i
		}
	}

	return best
}
