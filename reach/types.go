// SPDX-License-Identifier: MIT

package reach

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/citysim/network"
)

// Sentinel errors.
var (
	// ErrNilNetwork is returned if a nil network is passed.
	ErrNilNetwork = errors.New("reach: network is nil")

	// ErrStartNotFound is returned when the start station is absent.
	ErrStartNotFound = errors.New("reach: start station not found")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("reach: invalid option supplied")
)

// Option configures a search.
type Option func(*Options)

// Options holds search parameters.
type Options struct {
	Ctx      context.Context
	MaxDepth int
	// FilterEdge returns false for edges the search must ignore.
	FilterEdge func(from network.StationID, e network.Edge) bool

	err error
}

// DefaultOptions returns options that follow every edge without limit.
func DefaultOptions() Options {
	return Options{
		Ctx:        context.Background(),
		FilterEdge: func(network.StationID, network.Edge) bool { return true },
	}
}

// WithContext sets a cancellation context. Nil is ignored.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithMaxDepth limits the hop depth. d < 0 is an ErrOptionViolation.
func WithMaxDepth(d int) Option {
	return func(o *Options) {
		if d < 0 {
			o.err = fmt.Errorf("%w: MaxDepth cannot be negative (%d)", ErrOptionViolation, d)
			return
		}
		o.MaxDepth = d
	}
}

// WithEdgeFilter installs an edge predicate. Nil is ignored.
func WithEdgeFilter(fn func(from network.StationID, e network.Edge) bool) Option {
	return func(o *Options) {
		if fn != nil {
			o.FilterEdge = fn
		}
	}
}

// SkipWalking is an edge filter that keeps only line edges.
func SkipWalking(_ network.StationID, e network.Edge) bool {
	return e.Line != network.WalkingLine
}

// Result is the outcome of Reachable.
type Result struct {
	Order  []network.StationID // visit order
	Depth  []int               // hop depth per station, -1 if unreached
	Parent []network.StationID // BFS parent, network.NoStation for start and unreached
}

// Reached reports whether id was visited.
func (r *Result) Reached(id network.StationID) bool {
	return id >= 0 && int(id) < len(r.Depth) && r.Depth[id] >= 0
}

// PathTo returns the hop path from the start to dest.
func (r *Result) PathTo(dest network.StationID) ([]network.StationID, error) {
	if !r.Reached(dest) {
		return nil, fmt.Errorf("reach: no path to %d", dest)
	}
	var rev []network.StationID
	for v := dest; v != network.NoStation; v = r.Parent[v] {
		rev = append(rev, v)
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}

	return rev, nil
}
