// SPDX-License-Identifier: MIT

// Package network holds the static transit graph a simulation runs on:
// stations, lines, and the weighted adjacency between them, plus the two
// pieces of per-station shared state that concurrent agents mutate while the
// simulation runs (the waiting-passenger load and the docked-train slots).
//
// Overview:
//
//   - Stations and lines live in index-addressed arenas. StationID and LineID
//     are positions in those arenas, never pointers.
//   - Adjacency is bounded: each station holds at most MaxNeighbors outgoing
//     edges. Exceeding that is reported as ErrAdjacencyFull.
//   - Line 0 is the walking pseudo-line (WalkingLine). Walking edges connect
//     stations close enough to transfer on foot.
//   - A network is built once and then sealed. After Seal the topology is
//     immutable and every query is safe for concurrent use without locks.
//
// Shared mutable state:
//
//   - Station load is an atomic counter. Decrements are floored at zero.
//   - Docked trains occupy a bounded slot array (MaxDockedTrains) guarded by a
//     per-station mutex. A full array yields ErrTrainSlotFull.
//
// Distances:
//
//	StationDistance(a, b) = |pos(a) - pos(b)| * scale
//	LineDistance(l, i)    = StationDistance(stop i, stop i+1) on line l
//
// The scale defaults to DefaultDistanceScale and lets callers express
// movement in finer-grained units than map coordinates.
//
// Errors (sentinel):
//
//   - ErrInvalidTopologyReference: a station or line index is out of range.
//   - ErrAdjacencyFull: the bounded neighbor list is full.
//   - ErrDuplicateEdge: an identical (to, line) edge already exists.
//   - ErrTrainSlotFull: no free docking slot at the station.
//   - ErrTrainNotDocked: undocking a train that is not registered.
//   - ErrLineTooLong: a line has more than MaxLineStops stops.
//   - ErrSealed: mutation attempted after Seal.
package network
