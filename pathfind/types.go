// SPDX-License-Identifier: MIT

package pathfind

import (
	"errors"

	"github.com/katalvlaran/citysim/network"
)

// MaxPathLen is the longest route, in stations, a citizen can carry.
const MaxPathLen = 64

// DefaultTransferPenalty is added to the route cost at every line change.
const DefaultTransferPenalty = 24 * 16.0

// Sentinel errors.
var (
	// ErrPathNotFound indicates the goal is unreachable from the start.
	ErrPathNotFound = errors.New("pathfind: path not found")

	// ErrPathTooLong indicates the route exceeds the maximum length.
	ErrPathTooLong = errors.New("pathfind: path too long")

	// ErrInvalidPath indicates a structurally broken path.
	ErrInvalidPath = errors.New("pathfind: invalid path")

	// ErrNilNetwork indicates a nil network was supplied.
	ErrNilNetwork = errors.New("pathfind: network is nil")

	// ErrBadOption indicates a negative penalty, weight or length.
	ErrBadOption = errors.New("pathfind: invalid option")
)

// Step is one station of a route and the line taken out of it.
type Step struct {
	Station network.StationID
	Line    network.LineID
}

// Path is an ordered route. See package doc for the labelling convention.
type Path []Step

// Options configures a Finder.
type Options struct {
	// TransferPenalty is added each time consecutive edges use different lines.
	TransferPenalty float64

	// HeuristicWeight multiplies the Euclidean heuristic. 0 turns A* into
	// Dijkstra; values above 1 trade optimality for speed.
	HeuristicWeight float64

	// MaxLength bounds the number of steps in a returned path.
	MaxLength int
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the Finder defaults.
func DefaultOptions() Options {
	return Options{
		TransferPenalty: DefaultTransferPenalty,
		HeuristicWeight: 1,
		MaxLength:       MaxPathLen,
	}
}

// WithTransferPenalty sets the per-line-change penalty.
func WithTransferPenalty(p float64) Option {
	return func(o *Options) { o.TransferPenalty = p }
}

// WithHeuristicWeight scales the A* heuristic.
func WithHeuristicWeight(w float64) Option {
	return func(o *Options) { o.HeuristicWeight = w }
}

// WithMaxLength bounds path length in steps.
func WithMaxLength(n int) Option {
	return func(o *Options) { o.MaxLength = n }
}
