// SPDX-License-Identifier: MIT

// Package citysim is an agent-based simulation of transit ridership: synthetic
// citizens spawn between stations in proportion to ridership, follow routes
// that avoid needless line changes, queue at platforms and ride trains that
// shuttle along their lines.
//
// The module is organized into small packages, each with a doc.go and a
// types.go holding its sentinel errors and options:
//
//	network/     - stations, lines, bounded adjacency, atomic load counters,
//	               bounded train docking slots; immutable once sealed
//	gridindex/   - uniform-grid spatial index for radius queries
//	reach/       - breadth-first reachability and component labelling
//	pathfind/    - Path/Step types, A* with a transfer penalty, bidirectional A*
//	pathcache/   - bucketed approximate-LRU route cache with reverse lookups
//	topology/    - YAML topology decoding, random cities, network construction
//	sim/         - the Engine: citizen pool and FSM, trains, tick thread,
//	               worker pool, spawn thread, controls and snapshots
//	config/      - YAML configuration with CITYSIM_* environment overrides
//	logging/     - slog loggers backed by charmbracelet/log
//	otelmetrics/ - OpenTelemetry implementation of sim.MetricsCollector
//	cmd/citysim  - headless runner and route inspector
//
// Quick start:
//
//	spec, _ := topology.LoadFile("city.yaml")
//	net, _ := topology.Build(spec)
//	eng, _ := sim.New(net, sim.WithTickLimit(10000))
//	defer eng.Close()
//	eng.Seed(1000)
//	_ = eng.Run(ctx)
//	fmt.Println(eng.Stats().AverageActive)
package citysim
