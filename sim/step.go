// SPDX-License-Identifier: MIT

package sim

import (
	"time"

	"github.com/katalvlaran/citysim/network"
)

// Step advances the simulation by one tick on the calling goroutine. It must
// not be mixed with a concurrent Run.
func (e *Engine) Step() error {
	e.stepMu.Lock()
	defer e.stepMu.Unlock()
	if e.closed.Load() {
		return ErrClosed
	}
	e.step()

	return nil
}

// step runs one tick.
//
// Steps:
//  1. Activate queued spawns and apply queued despawns.
//  2. Move every train.
//  3. Fan the active citizens out to the workers; on cull ticks, citizens
//     past the despawn threshold are removed instead of updated.
//  4. Recycle despawned slots.
//  5. Advance the tick counter and run the periodic duties.
func (e *Engine) step() {
	start := time.Now()

	// 1) Activate and kill
	for _, h := range e.pool.drain() {
		if !e.pool.valid(h) {
			continue
		}
		if c := &e.pool.slots[h.Slot]; c.state != StateDespawned {
			e.despawn(c, reasonManual)
		}
	}

	speed := e.TickSpeed()

	// 2) Trains before citizens
	for _, t := range e.trains {
		e.updateTrain(t, e.opts.TrainSpeed*speed)
	}

	// 3) Citizens
	cull := (e.tick.Load()+1)%uint64(e.opts.CullEvery) == 0
	dist := e.opts.CitizenSpeed * speed
	active := e.pool.active
	e.workers.run(len(active), func(lo, hi int, scratch []network.TrainID) {
		for _, slot := range active[lo:hi] {
			c := &e.pool.slots[slot]
			if c.state == StateDespawned {
				continue
			}
			if cull && c.timer > e.opts.DespawnThreshold {
				e.despawn(c, reasonCulled)
				continue
			}
			e.updateCitizen(c, dist, scratch)
		}
	})

	// 4) Recycle
	e.pool.compact()

	// 5) Periodic duties
	tick := e.tick.Add(1)
	live := e.pool.activeCount.Load()
	if tick%uint64(e.opts.SpawnEvery) == 0 && e.spawning.Load() {
		e.signalSpawn()
	}
	if tick%uint64(e.opts.StatEvery) == 0 {
		e.stats.sample(live)
		e.log.Debug("tick", "tick", tick, "active", live, "waiting", e.net.TotalLoad())
	}
	if tick%uint64(e.opts.SnapshotEvery) == 0 {
		e.publish()
	}
	e.metrics.RecordDuration(MetricTickDuration, time.Since(start), nil)
	e.metrics.RecordValue(MetricActiveCitizens, float64(live), nil)
	e.metrics.RecordValue(MetricWaiting, float64(e.net.TotalLoad()), nil)
}
