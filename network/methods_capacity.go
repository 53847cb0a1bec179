// SPDX-License-Identifier: MIT
// File: methods_capacity.go
// Role: Shared per-station state touched by simulation workers: waiting load
//       and docked-train slots.
// Concurrency:
//   - Load is a lock-free atomic counter; decrement uses a CAS loop floored at 0.
//   - Docking slots are guarded by Station.muDock.

package network

import "fmt"

// IncrementStationLoad adds one waiting passenger at id and returns the new load.
func (n *Network) IncrementStationLoad(id StationID) int64 {
	if !n.validStation(id) {
		return 0
	}

	return n.stations[id].load.Add(1)
}

// DecrementStationLoad removes one waiting passenger at id. The counter never
// goes below zero. It returns the new load.
func (n *Network) DecrementStationLoad(id StationID) int64 {
	if !n.validStation(id) {
		return 0
	}
	load := &n.stations[id].load
	for {
		cur := load.Load()
		if cur <= 0 {
			return 0
		}
		if load.CompareAndSwap(cur, cur-1) {
			return cur - 1
		}
	}
}

// StationLoad returns the current waiting load at id.
func (n *Network) StationLoad(id StationID) int64 {
	if !n.validStation(id) {
		return 0
	}

	return n.stations[id].load.Load()
}

// TotalLoad sums the waiting load over every station.
func (n *Network) TotalLoad() int64 {
	var total int64
	for _, st := range n.stations {
		total += st.load.Load()
	}

	return total
}

// DockTrain registers train in the first free slot at station.
// It is a no-op if the train is already docked there.
func (n *Network) DockTrain(station StationID, train TrainID) error {
	if !n.validStation(station) || train < 0 {
		return fmt.Errorf("%w: dock train %d at %d", ErrInvalidTopologyReference, train, station)
	}
	st := n.stations[station]
	st.muDock.Lock()
	defer st.muDock.Unlock()

	free := -1
	for i, t := range st.docked {
		if t == train {
			return nil
		}
		if t == NoTrain && free < 0 {
			free = i
		}
	}
	if free < 0 {
		return fmt.Errorf("%w: station %d", ErrTrainSlotFull, station)
	}
	st.docked[free] = train

	return nil
}

// UndockTrain frees the slot held by train at station.
func (n *Network) UndockTrain(station StationID, train TrainID) error {
	if !n.validStation(station) {
		return fmt.Errorf("%w: undock at %d", ErrInvalidTopologyReference, station)
	}
	st := n.stations[station]
	st.muDock.Lock()
	defer st.muDock.Unlock()

	for i, t := range st.docked {
		if t == train {
			st.docked[i] = NoTrain
			return nil
		}
	}

	return fmt.Errorf("%w: train %d at station %d", ErrTrainNotDocked, train, station)
}

// DockedTrains appends the trains docked at station to buf and returns it.
// Order follows slot position.
func (n *Network) DockedTrains(station StationID, buf []TrainID) []TrainID {
	if !n.validStation(station) {
		return buf
	}
	st := n.stations[station]
	st.muDock.Lock()
	for _, t := range st.docked {
		if t != NoTrain {
			buf = append(buf, t)
		}
	}
	st.muDock.Unlock()

	return buf
}
