// SPDX-License-Identifier: MIT
// File: types.go
// Role: Identifiers, value types, structural limits, sentinel errors and options.
// Concurrency:
//   - Station.load is atomic; Station.docked is guarded by Station.muDock.
//   - Everything else is written during construction only.

package network

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"
)

// Structural limits. They bound per-station memory and keep hot loops free of
// growth checks.
const (
	// MaxNeighbors is the capacity of a station's adjacency list.
	MaxNeighbors = 24

	// MaxDockedTrains is the number of trains a station can hold at once.
	MaxDockedTrains = 8

	// MaxLineStops is the maximum number of stops on one line.
	MaxLineStops = 64

	// DefaultDistanceScale converts map units into movement units.
	DefaultDistanceScale = 128.0
)

// StationID indexes a station within its Network.
type StationID int32

// LineID indexes a line within its Network. Line 0 is WalkingLine.
type LineID int32

// TrainID identifies a train docked at a station. Trains themselves are owned
// by the simulation; the network only records which ids are docked.
type TrainID int32

const (
	// NoStation marks an unset station reference.
	NoStation StationID = -1

	// NoLine marks the absence of an outgoing line (the last step of a path).
	NoLine LineID = -1

	// WalkingLine is the pseudo-line used for on-foot transfers.
	WalkingLine LineID = 0

	// NoTrain marks an empty docking slot.
	NoTrain TrainID = -1

	// WalkingLineName is the display name of the walking pseudo-line.
	WalkingLineName = "WLK"
)

// Sentinel errors.
var (
	// ErrInvalidTopologyReference indicates a station or line reference that does not resolve.
	ErrInvalidTopologyReference = errors.New("network: invalid topology reference")

	// ErrAdjacencyFull indicates the station already has MaxNeighbors edges.
	ErrAdjacencyFull = errors.New("network: adjacency list full")

	// ErrDuplicateEdge indicates an edge with the same target and line already exists.
	ErrDuplicateEdge = errors.New("network: duplicate edge")

	// ErrTrainSlotFull indicates the station has no free docking slot.
	ErrTrainSlotFull = errors.New("network: train slots full")

	// ErrTrainNotDocked indicates UndockTrain was called for a train that is not docked.
	ErrTrainNotDocked = errors.New("network: train not docked")

	// ErrLineTooLong indicates a line exceeds MaxLineStops.
	ErrLineTooLong = errors.New("network: line has too many stops")

	// ErrSealed indicates a mutation after Seal.
	ErrSealed = errors.New("network: sealed")

	// ErrBadScale indicates a non-positive or non-finite distance scale.
	ErrBadScale = errors.New("network: distance scale must be positive and finite")
)

// Point is a planar map position.
type Point struct {
	X, Y float64
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Lerp returns the point a fraction t of the way from p to q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Edge is a directed, weighted, line-labelled connection out of a station.
type Edge struct {
	To     StationID
	Line   LineID
	Weight float64
}

// StationInfo describes a station at construction time.
type StationInfo struct {
	Code      int    // stable integer id from the topology source
	Name      string // display name
	Pos       Point
	Ridership uint32 // relative spawn weight
}

// Station is a node of the network. Fields other than load and docked are
// immutable once the network is sealed.
type Station struct {
	StationInfo
	ID StationID

	adj []Edge // len <= MaxNeighbors

	load atomic.Int64

	muDock sync.Mutex
	docked [MaxDockedTrains]TrainID
}

// Line is an ordered sequence of stops.
type Line struct {
	ID    LineID
	Name  string
	Color string
	Stops []StationID
	// Dist[i] is the scaled distance between Stops[i] and Stops[i+1].
	Dist []float64
}

// Len returns the number of stops.
func (l *Line) Len() int { return len(l.Stops) }

// IndexOf returns the first position of s in l.Stops, or -1.
func (l *Line) IndexOf(s StationID) int {
	for i, id := range l.Stops {
		if id == s {
			return i
		}
	}

	return -1
}

// Options configures a Network.
type Options struct {
	// DistanceScale multiplies geometric distances. Must be > 0.
	DistanceScale float64
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the defaults used by New.
func DefaultOptions() Options {
	return Options{DistanceScale: DefaultDistanceScale}
}

// WithDistanceScale sets the geometric distance multiplier.
func WithDistanceScale(s float64) Option {
	return func(o *Options) { o.DistanceScale = s }
}
