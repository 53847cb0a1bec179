// SPDX-License-Identifier: MIT

package sim

import (
	"errors"
	"sync/atomic"

	"github.com/katalvlaran/citysim/network"
)

// Train shuttles along one line. Movement fields are written only by the tick
// thread during the train phase; citizen workers read them during the
// citizen phase, which never overlaps. Occupancy is shared and atomic.
type Train struct {
	ID       network.TrainID
	Line     network.LineID
	capacity int32

	state   TrainState
	index   int  // current stop (AtStop) or departure stop (InTransit)
	forward bool // direction of the next departure
	timer   float64

	occupancy atomic.Int32
}

// placeTrains puts trains every spacing stops on every line: one heading
// inward at each terminus and one each way at interior stops.
func placeTrains(n *network.Network, spacing, capacity int) []*Train {
	var trains []*Train
	add := func(l *network.Line, idx int, forward bool) {
		trains = append(trains, &Train{
			ID:       network.TrainID(len(trains)),
			Line:     l.ID,
			capacity: int32(capacity),
			state:    TrainInTransit,
			index:    idx,
			forward:  forward,
		})
	}
	for _, l := range n.Lines() {
		last := l.Len() - 1
		for k := 0; k <= last; k += spacing {
			if k < last {
				add(l, k, true)
			}
			if k > 0 {
				add(l, k, false)
			}
		}
	}

	return trains
}

// State returns the movement state.
func (t *Train) State() TrainState { return t.state }

// Forward reports the direction of the next departure.
func (t *Train) Forward() bool { return t.forward }

// Occupancy returns the number of riders.
func (t *Train) Occupancy() int32 { return t.occupancy.Load() }

// currentStop is the docked station, or the departure station in transit.
func (t *Train) currentStop(n *network.Network) network.StationID {
	return n.Line(t.Line).Stops[t.index]
}

func (t *Train) nextIndex() int {
	if t.forward {
		return t.index + 1
	}

	return t.index - 1
}

// segment returns the index used by LineDistance for the current leg.
func (t *Train) segment() int {
	return min(t.index, t.nextIndex())
}

// board takes a seat if one is free.
func (t *Train) board() bool {
	for {
		cur := t.occupancy.Load()
		if cur >= t.capacity {
			return false
		}
		if t.occupancy.CompareAndSwap(cur, cur+1) {
			return true
		}
	}
}

// alight frees a seat. The count never goes below zero.
func (t *Train) alight() {
	for {
		cur := t.occupancy.Load()
		if cur <= 0 {
			return
		}
		if t.occupancy.CompareAndSwap(cur, cur-1) {
			return
		}
	}
}

// updateTrain advances t by dist movement units.
//
// InTransit → AtStop once the timer passes the segment length and the next
// station accepts the train; the direction flips on arrival at a terminus.
// AtStop → InTransit once the timer passes dwell and the station releases the
// train. Docking failures leave the train where it is for a retry next tick.
func (e *Engine) updateTrain(t *Train, dist float64) {
	l := e.net.Line(t.Line)
	t.timer += dist

	switch t.state {
	case TrainInTransit:
		if t.timer <= l.Dist[t.segment()] {
			return
		}
		next := t.nextIndex()
		if err := e.net.DockTrain(l.Stops[next], t.ID); err != nil {
			if errors.Is(err, network.ErrTrainSlotFull) {
				e.stats.trainRetries.Add(1)
			}
			e.log.Debug("train cannot dock", "train", t.ID, "line", l.Name, "station", l.Stops[next], "err", err)
			return
		}
		t.index = next
		t.state = TrainAtStop
		t.timer = 0
		if (t.forward && t.index == l.Len()-1) || (!t.forward && t.index == 0) {
			t.forward = !t.forward
		}

	case TrainAtStop:
		if t.timer <= e.opts.TrainDwell {
			return
		}
		if err := e.net.UndockTrain(l.Stops[t.index], t.ID); err != nil {
			e.log.Debug("train cannot undock", "train", t.ID, "line", l.Name, "station", l.Stops[t.index], "err", err)
			return
		}
		t.state = TrainInTransit
		t.timer = 0
	}
}

// position interpolates the train between its current and next stop.
func (t *Train) position(n *network.Network) network.Point {
	l := n.Line(t.Line)
	here := n.Position(l.Stops[t.index])
	if t.state == TrainAtStop {
		return here
	}
	d := l.Dist[t.segment()]
	if d <= 0 {
		return here
	}

	return here.Lerp(n.Position(l.Stops[t.nextIndex()]), min(t.timer/d, 1))
}
