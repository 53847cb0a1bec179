// SPDX-License-Identifier: MIT

// Package reach answers "which stations can be reached from here" questions
// over a network.Network with breadth-first search.
//
// Reachable walks outgoing edges from one station and reports visit order,
// hop depth, and the BFS parent of every reached station. LabelComponents labels
// every station with the id of its component; the topology builder adds
// edges in symmetric pairs, so these are the connected components of the
// network. The simulation uses the labels to skip spawning citizens whose
// endpoints cannot be connected.
//
// Options:
//
//   - WithContext(ctx): abort when ctx is cancelled.
//   - WithMaxDepth(d): do not enqueue stations deeper than d hops (0 = no limit).
//   - WithEdgeFilter(fn): skip edges for which fn returns false, e.g. to
//     ignore walking transfers.
//
// Complexity: O(V + E) time and O(V) space per call.
package reach
