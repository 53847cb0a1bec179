// SPDX-License-Identifier: MIT

package pathfind

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/katalvlaran/citysim/network"
)

var inf = math.Inf(1)

// Finder runs route searches over one network. It holds no per-search state
// and is safe for concurrent use.
type Finder struct {
	net  *network.Network
	opts Options
	hw   float64 // heuristic multiplier: HeuristicWeight × network scale
}

// NewFinder validates options and binds them to n.
func NewFinder(n *network.Network, opts ...Option) (*Finder, error) {
	if n == nil {
		return nil, ErrNilNetwork
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.TransferPenalty < 0 || cfg.HeuristicWeight < 0 || cfg.MaxLength < 2 {
		return nil, fmt.Errorf("%w: %+v", ErrBadOption, cfg)
	}

	return &Finder{net: n, opts: cfg, hw: cfg.HeuristicWeight * n.Scale()}, nil
}

// Options returns the effective options.
func (f *Finder) Options() Options { return f.opts }

// link records how a station was reached (forward) or left (backward).
type link struct {
	via  network.StationID
	line network.LineID
}

// runner holds the mutable state of one A* execution.
type runner struct {
	f      *Finder
	start  network.StationID
	goal   network.StationID
	g      []float64
	from   []link
	closed []bool
	pq     nodePQ
}

// Find returns the cheapest route from start to end under the transfer
// penalty.
//
// Steps:
//  1. Reject unknown or equal endpoints with ErrPathNotFound.
//  2. Seed the frontier with start (g=0).
//  3. Pop the lowest g+h; stop at goal; relax outgoing edges with a strict "<".
//  4. Rebuild the path from predecessor links and enforce MaxLength.
func (f *Finder) Find(start, end network.StationID) (Path, error) {
	// 1) Endpoint validation
	if err := f.checkEndpoints(start, end); err != nil {
		return nil, err
	}

	// 2) Prepare
	V := f.net.StationCount()
	r := &runner{
		f:      f,
		start:  start,
		goal:   end,
		g:      make([]float64, V),
		from:   make([]link, V),
		closed: make([]bool, V),
		pq:     make(nodePQ, 0, V),
	}
	for i := range r.g {
		r.g[i] = inf
		r.from[i] = link{via: network.NoStation, line: network.NoLine}
	}
	r.g[start] = 0
	heap.Push(&r.pq, nodeItem{id: start, key: f.h(start, end)})

	// 3) Main loop
	for r.pq.Len() > 0 {
		u := heap.Pop(&r.pq).(nodeItem).id
		if r.closed[u] {
			continue
		}
		r.closed[u] = true
		if u == end {
			break
		}
		r.relax(u)
	}

	// 4) Reconstruction
	if math.IsInf(r.g[end], 1) {
		return nil, fmt.Errorf("%w: %d→%d", ErrPathNotFound, start, end)
	}

	p := append(forwardChain(r.from, start, end), Step{Station: end, Line: network.NoLine})

	return f.limit(p)
}

// relax tries to improve every neighbor of u.
func (r *runner) relax(u network.StationID) {
	into := r.from[u].line
	for _, e := range r.f.net.Adjacent(u) {
		if r.closed[e.To] {
			continue
		}
		cost := r.g[u] + e.Weight + r.f.penalty(into, e.Line)
		if cost >= r.g[e.To] {
			continue
		}
		r.g[e.To] = cost
		r.from[e.To] = link{via: u, line: e.Line}
		heap.Push(&r.pq, nodeItem{id: e.To, key: cost + r.f.h(e.To, r.goal)})
	}
}

// penalty returns the transfer cost of arriving on prev and leaving on next.
// A search origin has no arriving line and pays nothing.
func (f *Finder) penalty(prev, next network.LineID) float64 {
	if prev == network.NoLine || next == network.NoLine || prev == next {
		return 0
	}

	return f.opts.TransferPenalty
}

// h is the straight-line heuristic in edge-weight units.
func (f *Finder) h(a, b network.StationID) float64 {
	if f.hw == 0 {
		return 0
	}

	return f.net.Position(a).Dist(f.net.Position(b)) * f.hw
}

func (f *Finder) checkEndpoints(start, end network.StationID) error {
	if f.net.Station(start) == nil || f.net.Station(end) == nil {
		return fmt.Errorf("%w: unknown endpoint %d→%d", ErrPathNotFound, start, end)
	}
	if start == end {
		return fmt.Errorf("%w: start equals end (%d)", ErrPathNotFound, start)
	}

	return nil
}

// forwardChain walks predecessor links back from end and returns the steps
// from start up to, but excluding, end. Each step carries the line leaving it.
func forwardChain(from []link, start, end network.StationID) Path {
	var rev Path
	for v := end; v != start; v = from[v].via {
		rev = append(rev, Step{Station: from[v].via, Line: from[v].line})
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}

	return rev
}

// limit enforces MaxLength.
func (f *Finder) limit(p Path) (Path, error) {
	if len(p) > f.opts.MaxLength {
		return nil, fmt.Errorf("%w: %d steps (max %d)", ErrPathTooLong, len(p), f.opts.MaxLength)
	}

	return p, nil
}
