// SPDX-License-Identifier: MIT
// File: methods_edges.go
// Role: Bounded adjacency: AddEdge, Adjacent, EdgeWeight.
// Determinism:
//   - Adjacent returns edges in insertion order.
// Concurrency:
//   - AddEdge serializes on muBuild. Adjacent/EdgeWeight are lock-free reads.

package network

import (
	"fmt"
	"math"
)

// AddEdge inserts a directed edge from → to on line with the given weight.
//
// Steps:
//  1. Reject after Seal, unknown endpoints or line, self-loops, bad weights.
//  2. Reject an existing (to, line) pair with ErrDuplicateEdge.
//  3. Reject when the list already holds MaxNeighbors edges.
//  4. Append.
func (n *Network) AddEdge(from, to StationID, line LineID, weight float64) error {
	n.muBuild.Lock()
	defer n.muBuild.Unlock()

	// 1) Validate
	if n.sealed.Load() {
		return ErrSealed
	}
	if !n.validStation(from) || !n.validStation(to) {
		return fmt.Errorf("%w: edge %d→%d", ErrInvalidTopologyReference, from, to)
	}
	if !n.validLine(line) {
		return fmt.Errorf("%w: line %d", ErrInvalidTopologyReference, line)
	}
	if from == to {
		return fmt.Errorf("%w: self-loop at station %d", ErrInvalidTopologyReference, from)
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("%w: edge %d→%d weight=%v", ErrInvalidTopologyReference, from, to, weight)
	}

	st := n.stations[from]

	// 2) Duplicate check
	for _, e := range st.adj {
		if e.To == to && e.Line == line {
			return fmt.Errorf("%w: %d→%d on line %d", ErrDuplicateEdge, from, to, line)
		}
	}

	// 3) Capacity check
	if len(st.adj) >= MaxNeighbors {
		return fmt.Errorf("%w: station %d", ErrAdjacencyFull, from)
	}

	// 4) Append
	st.adj = append(st.adj, Edge{To: to, Line: line, Weight: weight})

	return nil
}

// Adjacent returns the outgoing edges of id. The slice is shared and must
// not be modified.
func (n *Network) Adjacent(id StationID) []Edge {
	if !n.validStation(id) {
		return nil
	}

	return n.stations[id].adj
}

// EdgeWeight returns the weight of from → to on line.
func (n *Network) EdgeWeight(from, to StationID, line LineID) (float64, bool) {
	if !n.validStation(from) {
		return 0, false
	}
	for _, e := range n.stations[from].adj {
		if e.To == to && e.Line == line {
			return e.Weight, true
		}
	}

	return 0, false
}
