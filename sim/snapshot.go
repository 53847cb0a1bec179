// SPDX-License-Identifier: MIT

package sim

import (
	"github.com/katalvlaran/citysim/network"
)

// StationView is the presentation-facing state of one station.
type StationView struct {
	ID     network.StationID
	Code   int
	Pos    network.Point
	Load   int64
	Docked int
}

// TrainView is the presentation-facing state of one train.
type TrainView struct {
	ID        network.TrainID
	Line      string
	State     TrainState
	Forward   bool
	Stop      network.StationID
	Pos       network.Point
	Occupancy int32
}

// Snapshot is an immutable copy of the simulation taken between ticks.
type Snapshot struct {
	Tick     uint64
	Paused   bool
	Speed    float64
	Spawning bool

	Stations []StationView
	Trains   []TrainView
	States   [numCitizenStates]int
	Active   int
	Inactive int

	Routes RouterStats
}

// Waiting returns the number of citizens queued at platforms.
func (s *Snapshot) Waiting() int64 {
	var sum int64
	for _, st := range s.Stations {
		sum += st.Load
	}

	return sum
}

// Snapshot returns the last published snapshot. It never blocks on the tick
// thread.
func (e *Engine) Snapshot() *Snapshot { return e.snap.Load() }

// publish copies current state into a new snapshot. Tick thread only, between
// phases.
func (e *Engine) publish() {
	s := &Snapshot{
		Tick:     e.tick.Load(),
		Paused:   e.Paused(),
		Speed:    e.TickSpeed(),
		Spawning: e.spawning.Load(),
		Stations: make([]StationView, e.net.StationCount()),
		Trains:   make([]TrainView, len(e.trains)),
		Routes:   e.router.Stats(),
	}

	buf := make([]network.TrainID, 0, network.MaxDockedTrains)
	for i := range s.Stations {
		id := network.StationID(i)
		st := e.net.Station(id)
		s.Stations[i] = StationView{
			ID:     id,
			Code:   st.Code,
			Pos:    st.Pos,
			Load:   e.net.StationLoad(id),
			Docked: len(e.net.DockedTrains(id, buf[:0])),
		}
	}
	for i, t := range e.trains {
		s.Trains[i] = TrainView{
			ID:        t.ID,
			Line:      e.net.Line(t.Line).Name,
			State:     t.state,
			Forward:   t.forward,
			Stop:      t.currentStop(e.net),
			Pos:       t.position(e.net),
			Occupancy: t.Occupancy(),
		}
	}
	for _, slot := range e.pool.active {
		s.States[e.pool.slots[slot].state]++
	}
	s.Active = len(e.pool.active)
	s.Inactive = len(e.pool.slots) - s.Active

	e.snap.Store(s)
}
