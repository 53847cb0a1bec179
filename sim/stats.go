// SPDX-License-Identifier: MIT

package sim

import (
	"sync"
	"sync/atomic"

	"github.com/samber/lo"
)

// counters are bumped from every thread; samples only by the tick thread.
type counters struct {
	spawned      atomic.Uint64
	pathSteps    atomic.Uint64
	poolFull     atomic.Uint64
	noRoute      atomic.Uint64
	arrived      atomic.Uint64
	culled       atomic.Uint64
	killed       atomic.Uint64
	trainRetries atomic.Uint64

	mu      sync.Mutex
	samples []int64
}

func (c *counters) sample(active int64) {
	c.mu.Lock()
	c.samples = append(c.samples, active)
	c.mu.Unlock()
}

func (c *counters) average() (float64, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.samples) == 0 {
		return 0, 0
	}

	return float64(lo.Sum(c.samples)) / float64(len(c.samples)), len(c.samples)
}

// Stats summarizes a run.
type Stats struct {
	Ticks uint64

	Active  int
	Pending int
	Free    int

	// HandledCitizens counts successful spawns; HandledPathSteps sums the
	// length of their routes.
	HandledCitizens  uint64
	HandledPathSteps uint64

	PoolFull uint64
	NoRoute  uint64
	Arrived  uint64
	Culled   uint64
	Killed   uint64

	TrainRetries uint64

	// AverageActive is the mean of the active counts sampled every
	// StatEvery ticks.
	AverageActive float64
	Samples       int

	Routes RouterStats
}

// Despawned returns the total despawns for any reason.
func (s Stats) Despawned() uint64 { return s.Arrived + s.Culled + s.Killed }

// Stats returns the current counters. Safe to call from any goroutine.
func (e *Engine) Stats() Stats {
	avg, n := e.stats.average()
	active := int(e.pool.activeCount.Load())
	free := e.pool.freeCount()

	return Stats{
		Ticks:            e.tick.Load(),
		Active:           active,
		Pending:          max(len(e.pool.slots)-active-free, 0),
		Free:             free,
		HandledCitizens:  e.stats.spawned.Load(),
		HandledPathSteps: e.stats.pathSteps.Load(),
		PoolFull:         e.stats.poolFull.Load(),
		NoRoute:          e.stats.noRoute.Load(),
		Arrived:          e.stats.arrived.Load(),
		Culled:           e.stats.culled.Load(),
		Killed:           e.stats.killed.Load(),
		TrainRetries:     e.stats.trainRetries.Load(),
		AverageActive:    avg,
		Samples:          n,
		Routes:           e.router.Stats(),
	}
}
