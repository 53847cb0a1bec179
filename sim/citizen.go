// SPDX-License-Identifier: MIT

package sim

import (
	"github.com/katalvlaran/citysim/network"
)

// Despawn reasons, used as metric labels.
const (
	reasonArrived = "arrived"
	reasonCulled  = "culled"
	reasonManual  = "manual"
)

// updateCitizen advances one citizen by one tick. dist is the citizen's
// movement for this tick. buf is worker-local scratch for docked-train scans.
func (e *Engine) updateCitizen(c *citizen, dist float64, buf []network.TrainID) {
	switch c.state {
	case StateSpawned:
		e.classify(c)

	case StateWalking:
		c.timer += dist
		if c.timer <= e.net.StationDistance(c.station(), c.next().Station) {
			return
		}
		c.cursor++
		c.timer = 0
		if c.atEnd() {
			e.despawn(c, reasonArrived)
			return
		}
		e.classify(c)

	case StateTransferring:
		c.timer += dist
		if c.timer <= e.opts.TransferThreshold {
			return
		}
		c.state = StateAtStop
		c.timer = 0
		c.forward = e.direction(c)

	case StateAtStop:
		c.timer += dist
		e.tryBoard(c, buf)

	case StateBoarded:
		c.timer += dist
		t := e.trains[c.train]
		if c.justBoarded {
			if t.state == TrainInTransit {
				c.justBoarded = false
			}
			return
		}
		if t.state != TrainAtStop || t.currentStop(e.net) != c.next().Station {
			return
		}
		c.cursor++
		c.timer = 0
		if c.atEnd() {
			e.despawn(c, reasonArrived)
			return
		}
		if c.path[c.cursor].Line != t.Line {
			e.leaveTrain(c)
			e.classify(c)
		}
	}
}

// classify starts the current path step: walking legs walk, line legs queue
// at the platform and add to the station load.
func (e *Engine) classify(c *citizen) {
	c.timer = 0
	if c.path[c.cursor].Line == network.WalkingLine {
		c.state = StateWalking
		return
	}
	c.state = StateTransferring
	c.waitingAt = c.station()
	e.net.IncrementStationLoad(c.waitingAt)
}

// direction reports whether the next leg runs toward the end of its line.
func (e *Engine) direction(c *citizen) bool {
	l := e.net.Line(c.path[c.cursor].Line)
	here, there := c.station(), c.next().Station
	for i, s := range l.Stops {
		if s != here {
			continue
		}
		if i+1 < len(l.Stops) && l.Stops[i+1] == there {
			return true
		}
		if i > 0 && l.Stops[i-1] == there {
			return false
		}
	}

	return l.IndexOf(there) > l.IndexOf(here)
}

// tryBoard looks for a docked train on the wanted line and direction with a
// free seat.
func (e *Engine) tryBoard(c *citizen, buf []network.TrainID) {
	line := c.path[c.cursor].Line
	for _, id := range e.net.DockedTrains(c.station(), buf[:0]) {
		t := e.trains[id]
		if t.Line != line || t.forward != c.forward || t.state != TrainAtStop {
			continue
		}
		if !t.board() {
			continue
		}
		e.leaveStation(c)
		c.train = id
		c.state = StateBoarded
		c.justBoarded = true
		c.timer = 0
		return
	}
}

func (e *Engine) leaveStation(c *citizen) {
	if c.waitingAt != network.NoStation {
		e.net.DecrementStationLoad(c.waitingAt)
		c.waitingAt = network.NoStation
	}
}

func (e *Engine) leaveTrain(c *citizen) {
	if c.train != network.NoTrain {
		e.trains[c.train].alight()
		c.train = network.NoTrain
	}
	c.justBoarded = false
}

// despawn releases everything c holds and marks the slot for recycling.
func (e *Engine) despawn(c *citizen, reason string) {
	e.leaveStation(c)
	e.leaveTrain(c)
	c.state = StateDespawned
	switch reason {
	case reasonArrived:
		e.stats.arrived.Add(1)
	case reasonCulled:
		e.stats.culled.Add(1)
	default:
		e.stats.killed.Add(1)
	}
	e.metrics.IncrementCounter(MetricDespawns, map[string]string{"reason": reason})
}
