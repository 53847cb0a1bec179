// SPDX-License-Identifier: MIT

package topology

import (
	"errors"
	"io"
	"log/slog"

	"github.com/katalvlaran/citysim/network"
)

// Sentinel errors.
var (
	// ErrEmpty indicates a spec without stations.
	ErrEmpty = errors.New("topology: no stations")

	// ErrBadOption indicates a non-positive radius, multiplier or scale.
	ErrBadOption = errors.New("topology: invalid option")
)

// Defaults.
const (
	DefaultWalkRadius     = 2.0
	DefaultWalkMultiplier = 1.5
)

// StationSpec describes one station.
type StationSpec struct {
	ID        int     `yaml:"id"`
	Name      string  `yaml:"name"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Ridership uint32  `yaml:"ridership"`
}

// LineSpec describes one line as an ordered list of station ids.
type LineSpec struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
	Stops []int  `yaml:"stops"`
}

// Spec is a whole city.
type Spec struct {
	Stations []StationSpec `yaml:"stations"`
	Lines    []LineSpec    `yaml:"lines"`
}

// Options configures Build.
type Options struct {
	DistanceScale  float64
	WalkRadius     float64
	WalkMultiplier float64
	Logger         *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the Build defaults.
func DefaultOptions() Options {
	return Options{
		DistanceScale:  network.DefaultDistanceScale,
		WalkRadius:     DefaultWalkRadius,
		WalkMultiplier: DefaultWalkMultiplier,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithDistanceScale sets the network distance scale.
func WithDistanceScale(s float64) Option { return func(o *Options) { o.DistanceScale = s } }

// WithWalkRadius sets the walking-transfer radius in map units. 0 disables walking edges.
func WithWalkRadius(r float64) Option { return func(o *Options) { o.WalkRadius = r } }

// WithWalkMultiplier sets the walking cost multiplier.
func WithWalkMultiplier(m float64) Option { return func(o *Options) { o.WalkMultiplier = m } }

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
