// SPDX-License-Identifier: MIT

package pathcache

import (
	"errors"

	"github.com/katalvlaran/citysim/network"
	"github.com/katalvlaran/citysim/pathfind"
)

// Defaults give 1024 slots in total.
const (
	DefaultBuckets    = 256
	DefaultBucketSize = 4
)

// ErrBadGeometry indicates a non-positive bucket count or size.
var ErrBadGeometry = errors.New("pathcache: buckets and bucket size must be positive")

// Options configures a Cache.
type Options struct {
	Buckets    int
	BucketSize int
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns DefaultBuckets × DefaultBucketSize.
func DefaultOptions() Options {
	return Options{Buckets: DefaultBuckets, BucketSize: DefaultBucketSize}
}

// WithBuckets sets the number of buckets.
func WithBuckets(n int) Option { return func(o *Options) { o.Buckets = n } }

// WithBucketSize sets the number of slots per bucket.
func WithBucketSize(n int) Option { return func(o *Options) { o.BucketSize = n } }

// Stats is a point-in-time view of cache counters.
type Stats struct {
	Hits        uint64
	ReverseHits uint64 // subset of Hits served by reversing a stored route
	Misses      uint64
	Inserts     uint64
	Evictions   uint64
	Entries     int
	Capacity    int
}

type slot struct {
	used bool
	a, b network.StationID
	path pathfind.Path
	idle uint32
}
