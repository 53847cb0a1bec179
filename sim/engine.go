// SPDX-License-Identifier: MIT

package sim

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/katalvlaran/citysim/network"
	"github.com/katalvlaran/citysim/pathcache"
	"github.com/katalvlaran/citysim/pathfind"
	"github.com/katalvlaran/citysim/reach"
)

// Engine is the simulation context. See package doc for the threading model.
type Engine struct {
	opts    Options
	net     *network.Network
	log     *slog.Logger
	metrics MetricsCollector
	runID   uuid.UUID

	router  *Router
	comps   *reach.Components
	sampler *sampler
	trains  []*Train
	pool    *pool
	workers *workerPool

	stepMu sync.Mutex
	tick   atomic.Uint64
	speed  atomic.Uint64 // math.Float64bits of the tick speed
	stats  counters
	snap   atomic.Pointer[Snapshot]

	ctl       sync.Mutex
	pauseCond *sync.Cond
	paused    bool
	stopping  bool

	spawnMu   sync.Mutex
	spawnCond *sync.Cond
	spawnDue  bool
	spawnStop bool
	bursts    []burst
	spawning  atomic.Bool

	running  atomic.Bool
	closed   atomic.Bool
	done     chan struct{}
	doneOnce sync.Once
}

type burst struct {
	station network.StationID
	n       int
}

// New builds an engine over a sealed network and starts its worker pool.
//
// Steps:
//  1. Validate the network and options.
//  2. Build the finder, cache and router.
//  3. Label components, build the spawn sampler, place trains.
//  4. Allocate the citizen pool and worker pool; publish an initial snapshot.
func New(n *network.Network, opts ...Option) (*Engine, error) {
	// 1) Validate
	if n == nil || !n.Sealed() {
		return nil, ErrNetworkNotSealed
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	if o.Seed == 0 {
		o.Seed = rand.Uint64()
	}

	// 2) Routing
	finder, err := pathfind.NewFinder(n, pathfind.WithTransferPenalty(o.TransferPenalty))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadOption, err)
	}
	cache, err := pathcache.New(pathcache.WithBuckets(o.CacheBuckets), pathcache.WithBucketSize(o.CacheBucketSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadOption, err)
	}

	// 3) Topology-derived state
	comps, err := reach.LabelComponents(n)
	if err != nil {
		return nil, err
	}

	runID := uuid.New()
	e := &Engine{
		opts:    o,
		net:     n,
		log:     o.Logger.With("run_id", runID.String()),
		metrics: o.Metrics,
		runID:   runID,
		router:  NewRouter(cache, finder, o.Bidirectional),
		comps:   comps,
		sampler: newSampler(n, o.Seed),
		trains:  placeTrains(n, o.TrainSpacing, o.TrainCapacity),
		done:    make(chan struct{}),
	}
	e.pauseCond = sync.NewCond(&e.ctl)
	e.spawnCond = sync.NewCond(&e.spawnMu)
	e.speed.Store(math.Float64bits(o.TickSpeed))
	e.spawning.Store(true)

	// 4) Agents
	e.pool = newPool(o.MaxCitizens)
	e.workers = newWorkerPool(o.Workers)
	e.publish()

	e.log.Info("engine ready",
		"stations", n.StationCount(),
		"lines", n.LineCount()-1,
		"trains", len(e.trains),
		"components", comps.Count(),
		"pool", o.MaxCitizens,
		"workers", o.Workers,
		"seed", o.Seed,
	)

	return e, nil
}

// RunID identifies this engine instance in logs.
func (e *Engine) RunID() uuid.UUID { return e.runID }

// Network returns the network the engine runs on.
func (e *Engine) Network() *network.Network { return e.net }

// Trains returns the trains. Their movement state is only stable between
// ticks.
func (e *Engine) Trains() []*Train { return e.trains }

// Router exposes the spawn-time router.
func (e *Engine) Router() *Router { return e.router }

// Seed spawns n citizens between ridership-sampled stations. They become
// active on the next tick. It returns the number queued.
func (e *Engine) Seed(n int) int {
	if e.closed.Load() {
		return 0
	}
	got := e.spawnRandom(n)
	e.log.Info("initial population", "requested", n, "spawned", got)

	return got
}

// Spawn queues one citizen travelling from start to end.
func (e *Engine) Spawn(start, end network.StationID) (Handle, error) {
	if e.closed.Load() {
		return Handle{}, ErrClosed
	}
	if e.net.Station(start) == nil || e.net.Station(end) == nil {
		return Handle{}, fmt.Errorf("%w: %d→%d", ErrUnknownStation, start, end)
	}

	return e.spawn(start, end)
}

// Despawn asks the tick thread to remove the citizen on its next tick.
// Despawning an already despawned citizen is a no-op.
func (e *Engine) Despawn(h Handle) error {
	if !e.pool.valid(h) {
		return ErrStaleHandle
	}
	e.pool.requestKill(h)

	return nil
}

// QueryPath computes a route synchronously. It neither reads nor fills the
// cache and changes no simulation state.
func (e *Engine) QueryPath(start, end network.StationID) (pathfind.Path, error) {
	if e.net.Station(start) == nil || e.net.Station(end) == nil {
		return nil, fmt.Errorf("%w: %d→%d", ErrUnknownStation, start, end)
	}

	return e.router.Search(start, end)
}

// CitizenView is a copy of one citizen's state.
type CitizenView struct {
	Handle  Handle
	State   CitizenState
	Path    pathfind.Path
	Cursor  int
	Station network.StationID
	Train   network.TrainID
}

// Citizen returns the state of the citizen named by h. It must not be called
// while Run is active; use Snapshot instead.
func (e *Engine) Citizen(h Handle) (CitizenView, error) {
	if !e.pool.valid(h) {
		return CitizenView{}, ErrStaleHandle
	}
	c := &e.pool.slots[h.Slot]
	v := CitizenView{Handle: h, State: c.state, Path: c.path.Clone(), Cursor: c.cursor, Station: network.NoStation, Train: c.train}
	if len(c.path) > 0 {
		v.Station = c.station()
	}

	return v, nil
}

// Close shuts down the loops and the worker pool. It is idempotent.
func (e *Engine) Close() {
	e.Shutdown()
	e.stepMu.Lock()
	defer e.stepMu.Unlock()
	if e.closed.CompareAndSwap(false, true) {
		e.workers.close()
		e.log.Info("engine closed", "ticks", e.tick.Load())
	}
}
