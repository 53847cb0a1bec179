// SPDX-License-Identifier: MIT

// Package otelmetrics implements sim.MetricsCollector on the OpenTelemetry
// metrics API:
//   - RecordDuration -> Float64Histogram (seconds)
//   - IncrementCounter -> Int64Counter
//   - RecordValue -> Float64Gauge
//
// Instruments are created on first use and cached by name.
package otelmetrics

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/katalvlaran/citysim/sim"
)

// MetricsCollector records engine measurements through an OpenTelemetry meter.
// It is safe for concurrent use by the tick thread, the workers and the spawn
// thread.
type MetricsCollector struct {
	meter metric.Meter

	mu         sync.RWMutex
	histograms map[string]metric.Float64Histogram
	counters   map[string]metric.Int64Counter
	gauges     map[string]metric.Float64Gauge
}

// NewMetricsCollector wraps a meter obtained from a MeterProvider.
func NewMetricsCollector(meter metric.Meter) *MetricsCollector {
	return &MetricsCollector{
		meter:      meter,
		histograms: make(map[string]metric.Float64Histogram),
		counters:   make(map[string]metric.Int64Counter),
		gauges:     make(map[string]metric.Float64Gauge),
	}
}

// RecordDuration records d in seconds.
func (m *MetricsCollector) RecordDuration(name string, d time.Duration, labels map[string]string) {
	h := instrument(m, m.histograms, name, func() (metric.Float64Histogram, error) {
		return m.meter.Float64Histogram(name, metric.WithDescription("citysim duration"), metric.WithUnit("s"))
	})
	if h == nil {
		return
	}
	h.Record(context.Background(), d.Seconds(), metric.WithAttributes(attrs(labels)...))
}

// IncrementCounter adds one.
func (m *MetricsCollector) IncrementCounter(name string, labels map[string]string) {
	c := instrument(m, m.counters, name, func() (metric.Int64Counter, error) {
		return m.meter.Int64Counter(name, metric.WithDescription("citysim counter"))
	})
	if c == nil {
		return
	}
	c.Add(context.Background(), 1, metric.WithAttributes(attrs(labels)...))
}

// RecordValue records the current value of a gauge.
func (m *MetricsCollector) RecordValue(name string, v float64, labels map[string]string) {
	g := instrument(m, m.gauges, name, func() (metric.Float64Gauge, error) {
		return m.meter.Float64Gauge(name, metric.WithDescription("citysim current value"))
	})
	if g == nil {
		return
	}
	g.Record(context.Background(), v, metric.WithAttributes(attrs(labels)...))
}

// instrument returns the cached instrument for name, creating it once.
// Creation errors yield the zero value and are retried on the next call.
func instrument[T any](m *MetricsCollector, cache map[string]T, name string, create func() (T, error)) T {
	m.mu.RLock()
	inst, ok := cache[name]
	m.mu.RUnlock()
	if ok {
		return inst
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if inst, ok = cache[name]; ok {
		return inst
	}
	inst, err := create()
	if err != nil {
		var zero T
		return zero
	}
	cache[name] = inst

	return inst
}

func attrs(labels map[string]string) []attribute.KeyValue {
	kv := make([]attribute.KeyValue, 0, len(labels))
	for k, v := range labels {
		kv = append(kv, attribute.String(k, v))
	}

	return kv
}

var _ sim.MetricsCollector = (*MetricsCollector)(nil)
