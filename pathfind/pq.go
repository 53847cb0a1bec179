// SPDX-License-Identifier: MIT

package pathfind

import "github.com/katalvlaran/citysim/network"

// nodeItem is a frontier entry ordered by key (g + h for A*, g for the
// bidirectional search).
type nodeItem struct {
	id  network.StationID
	key float64
}

// nodePQ is a min-heap of nodeItem with lazy decrease-key: stale entries are
// skipped on pop via the closed set.
type nodePQ []nodeItem

func (pq nodePQ) Len() int { return len(pq) }

// Less orders by key, then id, so pops are deterministic.
func (pq nodePQ) Less(i, j int) bool {
	if pq[i].key != pq[j].key {
		return pq[i].key < pq[j].key
	}

	return pq[i].id < pq[j].id
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x any) { *pq = append(*pq, x.(nodeItem)) }

func (pq *nodePQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}

// peek returns the smallest key, or +Inf when empty.
func (pq nodePQ) peek() float64 {
	if len(pq) == 0 {
		return inf
	}

	return pq[0].key
}
