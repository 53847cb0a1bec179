package otelmetrics_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/katalvlaran/citysim/otelmetrics"
	"github.com/katalvlaran/citysim/sim"
	"github.com/katalvlaran/citysim/topology"
)

func newCollector(t *testing.T) (*otelmetrics.MetricsCollector, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	return otelmetrics.NewMetricsCollector(provider.Meter("citysim-test")), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}

	return out
}

func TestRecordDuration(t *testing.T) {
	c, reader := newCollector(t)
	c.RecordDuration("tick", 150*time.Millisecond, map[string]string{"phase": "citizens"})

	m := collect(t, reader)["tick"]
	h, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, h.DataPoints, 1)
	assert.Equal(t, uint64(1), h.DataPoints[0].Count)
	assert.InDelta(t, 0.15, h.DataPoints[0].Sum, 0.001)
	want := attribute.NewSet(attribute.String("phase", "citizens"))
	assert.True(t, h.DataPoints[0].Attributes.Equals(&want))
}

func TestIncrementCounterConcurrently(t *testing.T) {
	c, reader := newCollector(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.IncrementCounter("spawns", map[string]string{"result": "ok"})
			}
		}()
	}
	wg.Wait()

	sum, ok := collect(t, reader)["spawns"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(800), sum.DataPoints[0].Value)
}

func TestRecordValueKeepsLast(t *testing.T) {
	c, reader := newCollector(t)
	c.RecordValue("active", 3, nil)
	c.RecordValue("active", 7, nil)

	g, ok := collect(t, reader)["active"].Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, g.DataPoints, 1)
	assert.Equal(t, 7.0, g.DataPoints[0].Value)
}

func TestEngineReportsThroughCollector(t *testing.T) {
	c, reader := newCollector(t)
	spec := topology.Random(topology.RandomConfig{Seed: 5, Stations: 12, Lines: 3, MinStops: 3, MaxStops: 6})
	n, err := topology.Build(spec, topology.WithDistanceScale(4))
	require.NoError(t, err)
	e, err := sim.New(n, sim.WithMetrics(c), sim.WithSeed(5), sim.WithMaxCitizens(64))
	require.NoError(t, err)
	defer e.Close()

	e.Seed(16)
	for i := 0; i < 5; i++ {
		require.NoError(t, e.Step())
	}

	got := collect(t, reader)
	assert.Contains(t, got, sim.MetricTickDuration)
	assert.Contains(t, got, sim.MetricActiveCitizens)
	assert.Contains(t, got, sim.MetricWaiting)
	ticks, ok := got[sim.MetricTickDuration].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Equal(t, uint64(5), ticks.DataPoints[0].Count)
}
