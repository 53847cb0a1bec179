// SPDX-License-Identifier: MIT

// Package pathfind computes station-to-station routes over a sealed
// network.Network.
//
// Overview:
//
//   - Find runs A* with a Euclidean-distance-to-goal heuristic expressed in
//     the same units as edge weights (map distance × network scale).
//   - Every time the line used to reach a station differs from the line used
//     to reach its predecessor, a fixed transfer penalty is added. This biases
//     routes toward fewer line changes, walking included.
//   - FindBidirectional expands from both ends at once and stitches the two
//     search trees at the cheapest meeting station.
//   - Relaxation uses a strict "<": among equal-cost candidates the first
//     predecessor found is kept.
//
// A Path is an ordered list of Steps. Step i carries the station and the line
// taken from it to step i+1. The final step carries network.NoLine.
//
//	[(A, L1), (X, L2), (B, NoLine)]   A --L1--> X --L2--> B
//
// Path.Reversed yields the same route travelled backwards with the line labels
// shifted by one position so each label still describes the edge that leaves
// its station:
//
//	[(B, L2), (X, L1), (A, NoLine)]
//
// Complexity:
//
//   - Time:  O((V + E) log V) per search (lazy decrease-key heap).
//   - Space: O(V) scratch per search; Finder itself is stateless and safe for
//     concurrent use.
//
// Errors (sentinel):
//
//   - ErrPathNotFound: the endpoints are disconnected, unknown, or equal.
//   - ErrPathTooLong:  the cheapest route has more than Options.MaxLength steps.
//   - ErrInvalidPath:  Path.Validate found a structural defect.
//   - ErrNilNetwork:   NewFinder was given nil.
package pathfind
