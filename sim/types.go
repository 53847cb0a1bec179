// SPDX-License-Identifier: MIT

package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/katalvlaran/citysim/logging"
	"github.com/katalvlaran/citysim/pathcache"
	"github.com/katalvlaran/citysim/pathfind"
)

// Sentinel errors.
var (
	// ErrPoolExhausted indicates no free citizen slot.
	ErrPoolExhausted = errors.New("sim: citizen pool exhausted")

	// ErrStaleHandle indicates a handle whose slot has since been recycled.
	ErrStaleHandle = errors.New("sim: stale citizen handle")

	// ErrUnknownStation indicates a station id outside the network.
	ErrUnknownStation = errors.New("sim: unknown station")

	// ErrNetworkNotSealed indicates New was given an unsealed network.
	ErrNetworkNotSealed = errors.New("sim: network is not sealed")

	// ErrBadOption indicates an invalid engine option.
	ErrBadOption = errors.New("sim: invalid option")

	// ErrAlreadyRunning indicates a second concurrent Run.
	ErrAlreadyRunning = errors.New("sim: already running")

	// ErrClosed indicates use after Close.
	ErrClosed = errors.New("sim: engine closed")
)

// Tick speed bounds and step.
const (
	MinTickSpeed     = 0.5
	MaxTickSpeed     = 10.0
	DefaultTickSpeed = 5.0
	TickSpeedStep    = 0.25
)

// CitizenState is a node of the citizen state machine.
type CitizenState uint8

const (
	StateDespawned CitizenState = iota
	StateSpawned
	StateWalking
	StateTransferring
	StateAtStop
	StateBoarded
	numCitizenStates
)

var citizenStateNames = [...]string{"despawned", "spawned", "walking", "transferring", "at_stop", "boarded"}

func (s CitizenState) String() string {
	if int(s) < len(citizenStateNames) {
		return citizenStateNames[s]
	}

	return "unknown"
}

// TrainState is a node of the train state machine.
type TrainState uint8

const (
	TrainInTransit TrainState = iota
	TrainAtStop
)

func (s TrainState) String() string {
	if s == TrainAtStop {
		return "at_stop"
	}

	return "in_transit"
}

// Handle is a generation-checked reference to a citizen slot.
type Handle struct {
	Slot uint32
	Gen  uint32
}

// MetricsCollector receives engine measurements. Implementations must be safe
// for concurrent use.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// Metric names.
const (
	MetricTickDuration   = "citysim_tick_duration_seconds"
	MetricActiveCitizens = "citysim_active_citizens"
	MetricWaiting        = "citysim_waiting_citizens"
	MetricSpawns         = "citysim_spawns_total"
	MetricDespawns       = "citysim_despawns_total"
)

type noopMetrics struct{}

func (noopMetrics) RecordDuration(string, time.Duration, map[string]string) {}
func (noopMetrics) IncrementCounter(string, map[string]string) {}
func (noopMetrics) RecordValue(string, float64, map[string]string) {}

// Options configures an Engine.
type Options struct {
	Workers      int
	TickSpeed    float64
	TickInterval time.Duration
	// TickLimit stops Run after this many ticks. 0 runs until shutdown.
	TickLimit uint64

	SpawnEvery  int
	SpawnBatch  int
	BurstSize   int
	SpawnTries  int
	MaxCitizens int

	CitizenSpeed      float64
	TransferThreshold float64
	DespawnThreshold  float64
	CullEvery         int
	SnapshotEvery     int
	StatEvery         int

	TrainSpacing  int
	TrainCapacity int
	TrainSpeed    float64
	TrainDwell    float64

	TransferPenalty float64
	CacheBuckets    int
	CacheBucketSize int
	Bidirectional   bool

	Seed    uint64
	Logger  *slog.Logger
	Metrics MetricsCollector
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the stock simulation constants.
func DefaultOptions() Options {
	return Options{
		Workers:           3,
		TickSpeed:         DefaultTickSpeed,
		SpawnEvery:        1024,
		SpawnBatch:        512,
		BurstSize:         256,
		SpawnTries:        4,
		MaxCitizens:       262144,
		CitizenSpeed:      1,
		TransferThreshold: 64,
		DespawnThreshold:  131072,
		CullEvery:         256,
		SnapshotEvery:     16,
		StatEvery:         1000,
		TrainSpacing:      8,
		TrainCapacity:     256,
		TrainSpeed:        4,
		TrainDwell:        256 * 4,
		TransferPenalty:   pathfind.DefaultTransferPenalty,
		CacheBuckets:      pathcache.DefaultBuckets,
		CacheBucketSize:   pathcache.DefaultBucketSize,
		Logger:            logging.Discard(),
		Metrics:           noopMetrics{},
	}
}

func (o Options) validate() error {
	switch {
	case o.Workers < 1:
		return fmt.Errorf("%w: workers=%d", ErrBadOption, o.Workers)
	case o.MaxCitizens < 1 || o.MaxCitizens > math.MaxInt32:
		return fmt.Errorf("%w: max citizens=%d", ErrBadOption, o.MaxCitizens)
	case o.TickSpeed < MinTickSpeed || o.TickSpeed > MaxTickSpeed:
		return fmt.Errorf("%w: tick speed=%v", ErrBadOption, o.TickSpeed)
	case o.TickInterval < 0:
		return fmt.Errorf("%w: tick interval=%v", ErrBadOption, o.TickInterval)
	case o.SpawnEvery < 1 || o.CullEvery < 1 || o.SnapshotEvery < 1 || o.StatEvery < 1 || o.SpawnTries < 1:
		return fmt.Errorf("%w: cadences must be positive", ErrBadOption)
	case o.SpawnBatch < 0 || o.BurstSize < 0:
		return fmt.Errorf("%w: spawn sizes must be non-negative", ErrBadOption)
	case o.CitizenSpeed <= 0 || o.TransferThreshold < 0 || o.DespawnThreshold <= 0:
		return fmt.Errorf("%w: citizen timing", ErrBadOption)
	case o.TrainSpacing < 1 || o.TrainCapacity < 1 || o.TrainSpeed <= 0 || o.TrainDwell < 0:
		return fmt.Errorf("%w: train settings", ErrBadOption)
	}

	return nil
}

// WithWorkers sets the worker pool size.
func WithWorkers(n int) Option { return func(o *Options) { o.Workers = n } }

// WithTickSpeed sets the initial movement multiplier.
func WithTickSpeed(s float64) Option { return func(o *Options) { o.TickSpeed = s } }

// WithTickInterval sets the wall-clock pause between ticks.
func WithTickInterval(d time.Duration) Option { return func(o *Options) { o.TickInterval = d } }

// WithTickLimit stops Run after n ticks.
func WithTickLimit(n uint64) Option { return func(o *Options) { o.TickLimit = n } }

// WithSpawning sets the periodic spawn cadence and batch size.
func WithSpawning(every, batch int) Option {
	return func(o *Options) { o.SpawnEvery, o.SpawnBatch = every, batch }
}

// WithBurstSize sets the number of citizens per burst request.
func WithBurstSize(n int) Option { return func(o *Options) { o.BurstSize = n } }

// WithMaxCitizens sets the pool capacity.
func WithMaxCitizens(n int) Option { return func(o *Options) { o.MaxCitizens = n } }

// WithCitizenTiming sets walking speed, transfer time and the stuck threshold.
func WithCitizenTiming(speed, transfer, despawn float64) Option {
	return func(o *Options) {
		o.CitizenSpeed, o.TransferThreshold, o.DespawnThreshold = speed, transfer, despawn
	}
}

// WithCullEvery runs the stuck-citizen pass every n ticks.
func WithCullEvery(n int) Option { return func(o *Options) { o.CullEvery = n } }

// WithSnapshotEvery publishes a snapshot every n ticks.
func WithSnapshotEvery(n int) Option { return func(o *Options) { o.SnapshotEvery = n } }

// WithStatEvery samples the active population every n ticks.
func WithStatEvery(n int) Option { return func(o *Options) { o.StatEvery = n } }

// WithTrains sets train placement spacing, capacity, speed and dwell time.
func WithTrains(spacing, capacity int, speed, dwell float64) Option {
	return func(o *Options) {
		o.TrainSpacing, o.TrainCapacity, o.TrainSpeed, o.TrainDwell = spacing, capacity, speed, dwell
	}
}

// WithTransferPenalty sets the routing penalty per line change.
func WithTransferPenalty(p float64) Option { return func(o *Options) { o.TransferPenalty = p } }

// WithCache sizes the route cache.
func WithCache(buckets, size int) Option {
	return func(o *Options) { o.CacheBuckets, o.CacheBucketSize = buckets, size }
}

// WithBidirectional routes spawns with the bidirectional search.
func WithBidirectional(on bool) Option { return func(o *Options) { o.Bidirectional = on } }

// WithSeed fixes the spawn sampler seed. 0 picks a random seed.
func WithSeed(seed uint64) Option { return func(o *Options) { o.Seed = seed } }

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithMetrics sets the metrics collector. Nil is ignored.
func WithMetrics(m MetricsCollector) Option {
	return func(o *Options) {
		if m != nil {
			o.Metrics = m
		}
	}
}
