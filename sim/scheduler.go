// SPDX-License-Identifier: MIT

package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/citysim/network"
)

// Run drives the tick thread and the spawn thread until Shutdown, ctx
// cancellation, or TickLimit. The worker pool is owned by the engine and
// outlives Run; call Close to release it. An engine runs at most once.
func (e *Engine) Run(ctx context.Context) error {
	if e.closed.Load() || e.stopped() {
		return ErrClosed
	}
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer e.running.Store(false)

	stop := context.AfterFunc(ctx, e.Shutdown)
	defer stop()

	e.log.Info("simulation started",
		"tick", e.tick.Load(),
		"speed", e.TickSpeed(),
		"interval", e.opts.TickInterval,
		"limit", e.opts.TickLimit,
	)
	begin := time.Now()

	var g errgroup.Group
	g.Go(e.tickLoop)
	g.Go(e.spawnLoop)
	err := g.Wait()

	s := e.Stats()
	e.log.Info("simulation stopped",
		"ticks", s.Ticks,
		"elapsed", time.Since(begin).Round(time.Millisecond),
		"avg_active", s.AverageActive,
		"spawned", s.HandledCitizens,
		"arrived", s.Arrived,
		"culled", s.Culled,
		"cache_hits", s.Routes.Cache.Hits,
		"cache_misses", s.Routes.Cache.Misses,
	)
	if err != nil {
		return err
	}

	return context.Cause(ctx)
}

// tickLoop is the tick thread. It shuts the engine down on exit so the spawn
// thread follows.
func (e *Engine) tickLoop() error {
	defer e.Shutdown()
	for {
		if !e.waitRunnable() {
			return nil
		}
		if err := e.Step(); err != nil {
			return err
		}
		if e.opts.TickLimit > 0 && e.tick.Load() >= e.opts.TickLimit {
			e.log.Info("tick limit reached", "limit", e.opts.TickLimit)
			return nil
		}
		if e.opts.TickInterval > 0 {
			select {
			case <-e.done:
				return nil
			case <-time.After(e.opts.TickInterval):
			}
		}
	}
}

// waitRunnable blocks while paused and reports false once shutdown began.
func (e *Engine) waitRunnable() bool {
	e.ctl.Lock()
	defer e.ctl.Unlock()
	for e.paused && !e.stopping {
		e.pauseCond.Wait()
	}

	return !e.stopping
}

// spawnLoop is the spawn thread. It sleeps until the tick thread signals a
// periodic batch, a burst is requested, or shutdown.
func (e *Engine) spawnLoop() error {
	for {
		e.spawnMu.Lock()
		for !e.spawnDue && len(e.bursts) == 0 && !e.spawnStop {
			e.spawnCond.Wait()
		}
		if e.spawnStop {
			e.spawnMu.Unlock()
			return nil
		}
		due := e.spawnDue
		bursts := e.bursts
		e.spawnDue = false
		e.bursts = nil
		e.spawnMu.Unlock()

		for _, b := range bursts {
			got := e.spawnBurst(b.station, b.n)
			e.log.Debug("burst spawned", "station", b.station, "requested", b.n, "spawned", got)
		}
		if due && e.spawning.Load() {
			got := e.spawnRandom(e.opts.SpawnBatch)
			e.log.Debug("batch spawned", "requested", e.opts.SpawnBatch, "spawned", got)
		}
	}
}

func (e *Engine) signalSpawn() {
	e.spawnMu.Lock()
	e.spawnDue = true
	e.spawnCond.Signal()
	e.spawnMu.Unlock()
}

// Pause suspends the tick thread at its next loop boundary.
func (e *Engine) Pause() {
	e.ctl.Lock()
	e.paused = true
	e.ctl.Unlock()
}

// Resume wakes a paused tick thread.
func (e *Engine) Resume() {
	e.ctl.Lock()
	e.paused = false
	e.pauseCond.Broadcast()
	e.ctl.Unlock()
}

// Paused reports whether the engine is paused.
func (e *Engine) Paused() bool {
	e.ctl.Lock()
	defer e.ctl.Unlock()

	return e.paused
}

func (e *Engine) stopped() bool {
	e.ctl.Lock()
	defer e.ctl.Unlock()

	return e.stopping
}

// TickSpeed returns the movement multiplier.
func (e *Engine) TickSpeed() float64 {
	return math.Float64frombits(e.speed.Load())
}

// SetTickSpeed clamps s to [MinTickSpeed, MaxTickSpeed], applies it from the
// next tick and returns the applied value.
func (e *Engine) SetTickSpeed(s float64) float64 {
	s = lo.Clamp(s, MinTickSpeed, MaxTickSpeed)
	e.speed.Store(math.Float64bits(s))

	return s
}

// NudgeTickSpeed moves the tick speed by steps multiples of TickSpeedStep.
func (e *Engine) NudgeTickSpeed(steps int) float64 {
	return e.SetTickSpeed(e.TickSpeed() + float64(steps)*TickSpeedStep)
}

// SetSpawning toggles the periodic background spawn batches. Bursts are
// unaffected.
func (e *Engine) SetSpawning(on bool) {
	e.spawning.Store(on)
}

// Spawning reports whether periodic spawning is on.
func (e *Engine) Spawning() bool { return e.spawning.Load() }

// RequestBurst asks the spawn thread to spawn n citizens at station with
// sampled destinations. n <= 0 uses BurstSize. Bursts are served while Run
// is active.
func (e *Engine) RequestBurst(station network.StationID, n int) error {
	if e.closed.Load() || e.stopped() {
		return ErrClosed
	}
	if e.net.Station(station) == nil {
		return fmt.Errorf("%w: %d", ErrUnknownStation, station)
	}
	if n <= 0 {
		n = e.opts.BurstSize
	}
	e.spawnMu.Lock()
	e.bursts = append(e.bursts, burst{station: station, n: n})
	e.spawnCond.Signal()
	e.spawnMu.Unlock()

	return nil
}

// Shutdown sets the shutdown flag and wakes every waiter. It is idempotent and
// safe to call from any goroutine.
func (e *Engine) Shutdown() {
	e.ctl.Lock()
	e.stopping = true
	e.pauseCond.Broadcast()
	e.ctl.Unlock()

	e.spawnMu.Lock()
	e.spawnStop = true
	e.spawnCond.Broadcast()
	e.spawnMu.Unlock()

	e.doneOnce.Do(func() { close(e.done) })
}

// Running reports whether Run is active.
func (e *Engine) Running() bool { return e.running.Load() }

// Done is closed once Shutdown has been called.
func (e *Engine) Done() <-chan struct{} { return e.done }
