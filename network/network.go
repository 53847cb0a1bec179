// SPDX-License-Identifier: MIT
// File: network.go
// Role: Network construction: New, AddStation, AddLine, Seal, plus lookups.
// Determinism:
//   - StationID and LineID are assigned densely in insertion order.
// Concurrency:
//   - Construction methods serialize on muBuild and fail with ErrSealed after Seal.
//   - Read queries never lock; they are only safe once the network is sealed
//     or while a single goroutine is building it.

package network

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

// Network is the immutable-after-init transit graph.
type Network struct {
	opts Options

	muBuild  sync.Mutex
	sealed   atomic.Bool
	stations []*Station
	lines    []*Line

	byCode map[int]StationID
	byName map[string]LineID
}

// New creates an empty network containing only the walking pseudo-line.
func New(opts ...Option) (*Network, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.DistanceScale <= 0 || math.IsInf(cfg.DistanceScale, 0) || math.IsNaN(cfg.DistanceScale) {
		return nil, fmt.Errorf("%w: %v", ErrBadScale, cfg.DistanceScale)
	}

	n := &Network{
		opts:   cfg,
		byCode: make(map[int]StationID),
		byName: make(map[string]LineID),
	}
	n.lines = append(n.lines, &Line{ID: WalkingLine, Name: WalkingLineName})
	n.byName[WalkingLineName] = WalkingLine

	return n, nil
}

// Scale returns the distance multiplier.
func (n *Network) Scale() float64 { return n.opts.DistanceScale }

// AddStation appends a station and returns its id.
// Station codes must be unique; a repeated code is an invalid reference.
func (n *Network) AddStation(info StationInfo) (StationID, error) {
	n.muBuild.Lock()
	defer n.muBuild.Unlock()

	if n.sealed.Load() {
		return NoStation, ErrSealed
	}
	if _, dup := n.byCode[info.Code]; dup {
		return NoStation, fmt.Errorf("%w: duplicate station code %d", ErrInvalidTopologyReference, info.Code)
	}

	id := StationID(len(n.stations))
	st := &Station{StationInfo: info, ID: id, adj: make([]Edge, 0, MaxNeighbors)}
	for i := range st.docked {
		st.docked[i] = NoTrain
	}
	n.stations = append(n.stations, st)
	n.byCode[info.Code] = id

	return id, nil
}

// AddLine registers a line over existing stations and precomputes its
// inter-stop distances. It does not add edges; see AddEdge.
//
// Steps:
//  1. Reject after Seal, empty or oversized stop lists, duplicate names.
//  2. Resolve every stop.
//  3. Compute Dist[i] = StationDistance(stop i, stop i+1).
func (n *Network) AddLine(name, color string, stops []StationID) (LineID, error) {
	n.muBuild.Lock()
	defer n.muBuild.Unlock()

	// 1) Validate shape
	if n.sealed.Load() {
		return NoLine, ErrSealed
	}
	if len(stops) < 2 {
		return NoLine, fmt.Errorf("%w: line %q needs at least two stops", ErrInvalidTopologyReference, name)
	}
	if len(stops) > MaxLineStops {
		return NoLine, fmt.Errorf("%w: line %q has %d stops", ErrLineTooLong, name, len(stops))
	}
	if _, dup := n.byName[name]; dup {
		return NoLine, fmt.Errorf("%w: duplicate line name %q", ErrInvalidTopologyReference, name)
	}

	// 2) Resolve stops
	for _, s := range stops {
		if !n.validStation(s) {
			return NoLine, fmt.Errorf("%w: line %q references station %d", ErrInvalidTopologyReference, name, s)
		}
	}

	// 3) Precompute distances
	l := &Line{
		ID:    LineID(len(n.lines)),
		Name:  name,
		Color: color,
		Stops: append([]StationID(nil), stops...),
		Dist:  make([]float64, len(stops)-1),
	}
	for i := 0; i < len(stops)-1; i++ {
		l.Dist[i] = n.StationDistance(stops[i], stops[i+1])
	}
	n.lines = append(n.lines, l)
	n.byName[name] = l.ID

	return l.ID, nil
}

// Seal freezes the topology. It is idempotent.
func (n *Network) Seal() {
	n.muBuild.Lock()
	n.sealed.Store(true)
	n.muBuild.Unlock()
}

// Sealed reports whether Seal has been called.
func (n *Network) Sealed() bool { return n.sealed.Load() }

// StationCount returns the number of stations.
func (n *Network) StationCount() int { return len(n.stations) }

// LineCount returns the number of lines including WalkingLine.
func (n *Network) LineCount() int { return len(n.lines) }

// Station returns the station with the given id, or nil.
func (n *Network) Station(id StationID) *Station {
	if !n.validStation(id) {
		return nil
	}

	return n.stations[id]
}

// Line returns the line with the given id, or nil.
func (n *Network) Line(id LineID) *Line {
	if !n.validLine(id) {
		return nil
	}

	return n.lines[id]
}

// Lines returns every line except WalkingLine, in id order.
func (n *Network) Lines() []*Line {
	return n.lines[1:]
}

// StationByCode resolves a topology code.
func (n *Network) StationByCode(code int) (StationID, bool) {
	id, ok := n.byCode[code]

	return id, ok
}

// LineByName resolves a line name.
func (n *Network) LineByName(name string) (LineID, bool) {
	id, ok := n.byName[name]

	return id, ok
}

func (n *Network) validStation(id StationID) bool {
	return id >= 0 && int(id) < len(n.stations)
}

func (n *Network) validLine(id LineID) bool {
	return id >= 0 && int(id) < len(n.lines)
}
