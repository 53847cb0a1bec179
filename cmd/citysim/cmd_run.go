// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/katalvlaran/citysim/otelmetrics"
	"github.com/katalvlaran/citysim/sim"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation headless",
		Long: `Run builds the network, seeds the initial population and runs the
simulation until --ticks is reached or the process is interrupted. A
summary is printed on exit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			ticks, _ := cmd.Flags().GetUint64("ticks")
			showMetrics, _ := cmd.Flags().GetBool("metrics")

			var (
				reader *sdkmetric.ManualReader
				extra  = []sim.Option{sim.WithTickLimit(ticks)}
			)
			if showMetrics {
				reader = sdkmetric.NewManualReader()
				provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
				defer func() { _ = provider.Shutdown(context.Background()) }()
				extra = append(extra, sim.WithMetrics(otelmetrics.NewMetricsCollector(provider.Meter("citysim"))))
			}

			e, err := sim.New(a.net, a.engineOptions(extra...)...)
			if err != nil {
				return fmt.Errorf("creating engine: %w", err)
			}
			defer e.Close()
			e.Seed(a.cfg.Simulation.InitialCitizens)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := e.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			out := cmd.OutOrStdout()
			printSummary(out, e.Stats())
			if reader != nil {
				return printMetrics(ctx, out, reader)
			}

			return nil
		},
	}

	cmd.Flags().Uint64("ticks", 0, "stop after this many ticks (0 runs until interrupted)")
	cmd.Flags().Bool("metrics", false, "collect OpenTelemetry metrics and print them on exit")

	return cmd
}

func printSummary(w io.Writer, s sim.Stats) {
	fmt.Fprintf(w, "ticks:              %d\n", s.Ticks)
	fmt.Fprintf(w, "average active:     %.1f (%d samples)\n", s.AverageActive, s.Samples)
	fmt.Fprintf(w, "active at exit:     %d\n", s.Active)
	fmt.Fprintf(w, "handled citizens:   %d\n", s.HandledCitizens)
	fmt.Fprintf(w, "handled path steps: %d\n", s.HandledPathSteps)
	fmt.Fprintf(w, "arrived:            %d\n", s.Arrived)
	fmt.Fprintf(w, "culled:             %d\n", s.Culled)
	fmt.Fprintf(w, "no route:           %d\n", s.NoRoute)
	fmt.Fprintf(w, "pool full:          %d\n", s.PoolFull)
	fmt.Fprintf(w, "train dock retries: %d\n", s.TrainRetries)
	c := s.Routes.Cache
	fmt.Fprintf(w, "cache:              %d hits (%d reversed), %d misses, %d evictions, %d/%d entries\n",
		c.Hits, c.ReverseHits, c.Misses, c.Evictions, c.Entries, c.Capacity)
	fmt.Fprintf(w, "searches:           %d found, %d failed, %d shared\n",
		s.Routes.Found, s.Routes.Failed, s.Routes.Shared)
}

func printMetrics(ctx context.Context, w io.Writer, reader *sdkmetric.ManualReader) error {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.WithoutCancel(ctx), &rm); err != nil {
		return fmt.Errorf("collecting metrics: %w", err)
	}

	var lines []string
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					lines = append(lines, fmt.Sprintf("%s count=%d sum=%.4f", m.Name, dp.Count, dp.Sum))
				}
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					lines = append(lines, fmt.Sprintf("%s{%s} %d", m.Name, dp.Attributes.Encoded(attribute.DefaultEncoder()), dp.Value))
				}
			case metricdata.Gauge[float64]:
				for _, dp := range data.DataPoints {
					lines = append(lines, fmt.Sprintf("%s %.0f", m.Name, dp.Value))
				}
			}
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}

	return nil
}
