// SPDX-License-Identifier: MIT

package sim

import (
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/katalvlaran/citysim/network"
	"github.com/katalvlaran/citysim/pathcache"
	"github.com/katalvlaran/citysim/pathfind"
)

// Router answers spawn-time route requests: cache first, then a search.
// Concurrent misses for the same ordered pair share one search.
type Router struct {
	cache         *pathcache.Cache
	finder        *pathfind.Finder
	bidirectional bool
	group         singleflight.Group

	found  atomic.Uint64
	failed atomic.Uint64
	shared atomic.Uint64
}

// NewRouter wires a cache to a finder.
func NewRouter(cache *pathcache.Cache, finder *pathfind.Finder, bidirectional bool) *Router {
	return &Router{cache: cache, finder: finder, bidirectional: bidirectional}
}

// Route returns a private copy of the route from a to b.
func (r *Router) Route(a, b network.StationID) (pathfind.Path, error) {
	if p, ok := r.cache.Get(a, b); ok {
		r.found.Add(1)
		return p, nil
	}

	key := strconv.Itoa(int(a)) + ">" + strconv.Itoa(int(b))
	v, err, shared := r.group.Do(key, func() (any, error) {
		p, err := r.Search(a, b)
		if err != nil {
			return nil, err
		}
		r.cache.Put(a, b, p)

		return p, nil
	})
	if shared {
		r.shared.Add(1)
	}
	if err != nil {
		r.failed.Add(1)
		return nil, err
	}
	r.found.Add(1)

	return v.(pathfind.Path).Clone(), nil
}

// Search runs the configured search without touching the cache.
func (r *Router) Search(a, b network.StationID) (pathfind.Path, error) {
	if r.bidirectional {
		return r.finder.FindBidirectional(a, b)
	}

	return r.finder.Find(a, b)
}

// RouterStats counts route outcomes.
type RouterStats struct {
	Found  uint64
	Failed uint64
	Shared uint64 // requests that joined an in-flight search
	Cache  pathcache.Stats
}

// Stats returns a snapshot of the counters.
func (r *Router) Stats() RouterStats {
	return RouterStats{
		Found:  r.found.Load(),
		Failed: r.failed.Load(),
		Shared: r.shared.Load(),
		Cache:  r.cache.Stats(),
	}
}
