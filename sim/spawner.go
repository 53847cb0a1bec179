// SPDX-License-Identifier: MIT

package sim

import (
	"errors"
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/katalvlaran/citysim/network"
	"github.com/katalvlaran/citysim/pathfind"
)

// sampler draws stations in proportion to ridership.
type sampler struct {
	mu      sync.Mutex
	w       sampleuv.Weighted
	weights []float64
	usable  int // stations with positive weight
}

func newSampler(n *network.Network, seed uint64) *sampler {
	weights := make([]float64, n.StationCount())
	usable := 0
	for i := range weights {
		weights[i] = float64(n.Station(network.StationID(i)).Ridership)
		if weights[i] > 0 {
			usable++
		}
	}
	// A city with no ridership data samples uniformly.
	if usable == 0 {
		for i := range weights {
			weights[i] = 1
		}
		usable = len(weights)
	}
	src := rand.NewPCG(seed, seed^0xda3e39cb94b95bdb)

	return &sampler{
		w:       sampleuv.NewWeighted(weights, src),
		weights: weights,
		usable:  usable,
	}
}

// pair draws two distinct stations.
func (s *sampler) pair() (network.StationID, network.StationID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usable < 2 {
		return network.NoStation, network.NoStation, false
	}
	a, _ := s.w.Take()
	b, _ := s.w.Take()
	s.w.Reweight(a, s.weights[a])
	s.w.Reweight(b, s.weights[b])

	return network.StationID(a), network.StationID(b), true
}

// destination draws a station other than from.
func (s *sampler) destination(from network.StationID) (network.StationID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w.Reweight(int(from), 0)
	defer s.w.Reweight(int(from), s.weights[from])
	b, ok := s.w.Take()
	if !ok {
		return network.NoStation, false
	}
	s.w.Reweight(b, s.weights[b])

	return network.StationID(b), true
}

// spawnRandom spawns up to n citizens between sampled stations, retrying each
// up to SpawnTries times. It returns how many were queued.
func (e *Engine) spawnRandom(n int) int {
	spawned := 0
	for i := 0; i < n; i++ {
		for try := 0; try < e.opts.SpawnTries; try++ {
			a, b, ok := e.sampler.pair()
			if !ok {
				return spawned
			}
			_, err := e.spawn(a, b)
			if err == nil {
				spawned++
				break
			}
			if errors.Is(err, ErrPoolExhausted) {
				return spawned
			}
		}
	}

	return spawned
}

// spawnBurst spawns n citizens at station heading to sampled destinations.
func (e *Engine) spawnBurst(station network.StationID, n int) int {
	spawned := 0
	for i := 0; i < n; i++ {
		for try := 0; try < e.opts.SpawnTries; try++ {
			b, ok := e.sampler.destination(station)
			if !ok {
				return spawned
			}
			_, err := e.spawn(station, b)
			if err == nil {
				spawned++
				break
			}
			if errors.Is(err, ErrPoolExhausted) {
				return spawned
			}
		}
	}

	return spawned
}

// spawn claims a slot, routes, and queues the citizen. Pairs in different
// components fail without a search.
func (e *Engine) spawn(a, b network.StationID) (Handle, error) {
	slot, ok := e.pool.claim()
	if !ok {
		e.stats.poolFull.Add(1)
		e.metrics.IncrementCounter(MetricSpawns, map[string]string{"result": "pool_full"})
		return Handle{}, ErrPoolExhausted
	}

	var (
		p   pathfind.Path
		err error
	)
	if !e.comps.Same(a, b) {
		err = pathfind.ErrPathNotFound
	} else {
		p, err = e.router.Route(a, b)
	}
	if err != nil {
		e.pool.unclaim(slot)
		e.stats.noRoute.Add(1)
		e.metrics.IncrementCounter(MetricSpawns, map[string]string{"result": "no_route"})
		e.log.Debug("spawn failed", "from", a, "to", b, "err", err)
		return Handle{}, err
	}

	h := e.pool.install(slot, p)
	e.stats.spawned.Add(1)
	e.stats.pathSteps.Add(uint64(len(p)))
	e.metrics.IncrementCounter(MetricSpawns, map[string]string{"result": "ok"})

	return h, nil
}
