// SPDX-License-Identifier: MIT

package pathfind

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/katalvlaran/citysim/network"
)

// biRunner holds both search trees of one bidirectional execution.
type biRunner struct {
	f          *Finder
	start, end network.StationID

	gf, gb   []float64
	from, to []link // from[v]: how v was reached; to[v]: how v is left toward end
	closedF  []bool
	closedB  []bool
	pqF, pqB nodePQ
	best     float64
	meet     network.StationID
}

// FindBidirectional runs two Dijkstra frontiers, one from start over
// outgoing edges and one from end over reversed edges, and keeps the cheapest
// station where they meet (including the penalty for a line change at that
// station). Each side stops once its next frontier key reaches the best
// known total.
//
// The stitched path takes the forward chain up to the meeting station and
// the backward chain from it; the meeting step is labelled with the line of
// the edge that leaves it toward end.
func (f *Finder) FindBidirectional(start, end network.StationID) (Path, error) {
	if err := f.checkEndpoints(start, end); err != nil {
		return nil, err
	}

	V := f.net.StationCount()
	r := &biRunner{
		f: f, start: start, end: end,
		gf: make([]float64, V), gb: make([]float64, V),
		from: make([]link, V), to: make([]link, V),
		closedF: make([]bool, V), closedB: make([]bool, V),
		best: inf, meet: network.NoStation,
	}
	for i := 0; i < V; i++ {
		r.gf[i], r.gb[i] = inf, inf
		r.from[i] = link{via: network.NoStation, line: network.NoLine}
		r.to[i] = link{via: network.NoStation, line: network.NoLine}
	}
	r.gf[start], r.gb[end] = 0, 0
	heap.Push(&r.pqF, nodeItem{id: start})
	heap.Push(&r.pqB, nodeItem{id: end})

	for {
		fk, bk := r.pqF.peek(), r.pqB.peek()
		fActive, bActive := fk < r.best, bk < r.best
		if !fActive && !bActive {
			break
		}
		if fActive && (!bActive || fk <= bk) {
			r.expandForward()
		} else {
			r.expandBackward()
		}
	}

	if r.meet == network.NoStation {
		return nil, fmt.Errorf("%w: %d→%d", ErrPathNotFound, start, end)
	}

	return f.limit(r.stitch())
}

func (r *biRunner) expandForward() {
	u := heap.Pop(&r.pqF).(nodeItem).id
	if r.closedF[u] {
		return
	}
	r.closedF[u] = true
	into := r.from[u].line
	for _, e := range r.f.net.Adjacent(u) {
		if r.closedF[e.To] {
			continue
		}
		cost := r.gf[u] + e.Weight + r.f.penalty(into, e.Line)
		if cost >= r.gf[e.To] {
			continue
		}
		r.gf[e.To] = cost
		r.from[e.To] = link{via: u, line: e.Line}
		heap.Push(&r.pqF, nodeItem{id: e.To, key: cost})
		r.consider(e.To)
	}
}

// expandBackward relaxes edges u→v for the popped v. Edges are found through
// v's own adjacency and kept only when the reverse direction exists.
func (r *biRunner) expandBackward() {
	v := heap.Pop(&r.pqB).(nodeItem).id
	if r.closedB[v] {
		return
	}
	r.closedB[v] = true
	out := r.to[v].line
	for _, e := range r.f.net.Adjacent(v) {
		u := e.To
		if r.closedB[u] {
			continue
		}
		w, ok := r.f.net.EdgeWeight(u, v, e.Line)
		if !ok {
			continue
		}
		cost := r.gb[v] + w + r.f.penalty(e.Line, out)
		if cost >= r.gb[u] {
			continue
		}
		r.gb[u] = cost
		r.to[u] = link{via: v, line: e.Line}
		heap.Push(&r.pqB, nodeItem{id: u, key: cost})
		r.consider(u)
	}
}

// consider records m as the meeting station when both trees reach it and the
// joined cost beats the current best.
func (r *biRunner) consider(m network.StationID) {
	if math.IsInf(r.gf[m], 1) || math.IsInf(r.gb[m], 1) {
		return
	}
	total := r.gf[m] + r.gb[m] + r.f.penalty(r.from[m].line, r.to[m].line)
	if total < r.best {
		r.best = total
		r.meet = m
	}
}

func (r *biRunner) stitch() Path {
	p := forwardChain(r.from, r.start, r.meet)
	for v := r.meet; v != r.end; v = r.to[v].via {
		p = append(p, Step{Station: v, Line: r.to[v].line})
	}

	return append(p, Step{Station: r.end, Line: network.NoLine})
}
