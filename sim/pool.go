// SPDX-License-Identifier: MIT

package sim

import (
	"sync"
	"sync/atomic"

	"github.com/katalvlaran/citysim/network"
	"github.com/katalvlaran/citysim/pathfind"
)

// citizen is one slot of the arena. A slot belongs to exactly one of: the
// free list, a spawner that claimed it, the pending queue, or the active list.
type citizen struct {
	gen   atomic.Uint32
	state CitizenState

	path   pathfind.Path
	cursor int
	timer  float64

	forward     bool // direction wanted on the current line
	justBoarded bool

	// Resources held; exactly one of these is set while waiting or riding.
	waitingAt network.StationID
	train     network.TrainID
}

func (c *citizen) reset() {
	c.state = StateDespawned
	c.path = nil
	c.cursor = 0
	c.timer = 0
	c.forward = false
	c.justBoarded = false
	c.waitingAt = network.NoStation
	c.train = network.NoTrain
}

func (c *citizen) station() network.StationID { return c.path[c.cursor].Station }

func (c *citizen) next() pathfind.Step { return c.path[c.cursor+1] }

func (c *citizen) atEnd() bool { return c.cursor >= len(c.path)-1 }

// pool is the fixed-capacity citizen arena.
type pool struct {
	slots []citizen

	freeMu sync.Mutex
	free   []uint32 // LIFO stack of inactive slots

	pendMu  sync.Mutex
	pending []uint32
	kills   []Handle

	active      []uint32 // owned by the tick thread
	activeCount atomic.Int64
}

func newPool(capacity int) *pool {
	p := &pool{
		slots: make([]citizen, capacity),
		free:  make([]uint32, capacity),
	}
	for i := range p.slots {
		p.slots[i].reset()
		p.free[i] = uint32(capacity - 1 - i)
	}

	return p
}

// claim pops a free slot.
func (p *pool) claim() (uint32, bool) {
	p.freeMu.Lock()
	defer p.freeMu.Unlock()
	if len(p.free) == 0 {
		return 0, false
	}
	slot := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]

	return slot, true
}

// unclaim returns a slot that was claimed but never activated.
func (p *pool) unclaim(slot uint32) {
	p.freeMu.Lock()
	p.free = append(p.free, slot)
	p.freeMu.Unlock()
}

// release recycles a despawned slot and invalidates outstanding handles.
func (p *pool) release(slot uint32) {
	c := &p.slots[slot]
	c.reset()
	c.gen.Add(1)
	p.unclaim(slot)
}

// install prepares a claimed slot and queues it for activation.
func (p *pool) install(slot uint32, path pathfind.Path) Handle {
	c := &p.slots[slot]
	c.reset()
	c.state = StateSpawned
	c.path = path
	h := Handle{Slot: slot, Gen: c.gen.Load()}

	p.pendMu.Lock()
	p.pending = append(p.pending, slot)
	p.pendMu.Unlock()

	return h
}

// requestKill queues a despawn for the next tick.
func (p *pool) requestKill(h Handle) {
	p.pendMu.Lock()
	p.kills = append(p.kills, h)
	p.pendMu.Unlock()
}

// drain moves pending slots into the active list and returns queued kills.
// Tick thread only.
func (p *pool) drain() []Handle {
	p.pendMu.Lock()
	p.active = append(p.active, p.pending...)
	p.pending = p.pending[:0]
	kills := p.kills
	p.kills = nil
	p.pendMu.Unlock()
	p.activeCount.Store(int64(len(p.active)))

	return kills
}

// compact drops despawned citizens from the active list and frees their slots.
// Tick thread only.
func (p *pool) compact() int {
	kept := p.active[:0]
	freed := 0
	for _, slot := range p.active {
		if p.slots[slot].state == StateDespawned {
			p.release(slot)
			freed++
			continue
		}
		kept = append(kept, slot)
	}
	p.active = kept
	p.activeCount.Store(int64(len(kept)))

	return freed
}

// valid reports whether h still names its slot's current occupant.
func (p *pool) valid(h Handle) bool {
	return int(h.Slot) < len(p.slots) && p.slots[h.Slot].gen.Load() == h.Gen
}

// freeCount returns the number of slots on the free list.
func (p *pool) freeCount() int {
	p.freeMu.Lock()
	defer p.freeMu.Unlock()

	return len(p.free)
}
