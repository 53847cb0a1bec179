// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/citysim/config"
	"github.com/katalvlaran/citysim/logging"
	"github.com/katalvlaran/citysim/network"
	"github.com/katalvlaran/citysim/sim"
	"github.com/katalvlaran/citysim/topology"
)

// app is what every subcommand needs: settings, a logger and a sealed network.
type app struct {
	cfg *config.Config
	log *slog.Logger
	net *network.Network
}

func loadApp(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	log := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())

	spec, err := loadSpec(cmd, cfg)
	if err != nil {
		return nil, err
	}
	n, err := topology.Build(spec,
		topology.WithDistanceScale(cfg.Network.DistanceScale),
		topology.WithWalkRadius(cfg.Network.WalkRadius),
		topology.WithWalkMultiplier(cfg.Network.WalkMultiplier),
		topology.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("building network: %w", err)
	}

	return &app{cfg: cfg, log: log, net: n}, nil
}

func loadSpec(cmd *cobra.Command, cfg *config.Config) (*topology.Spec, error) {
	path, _ := cmd.Flags().GetString("topology")
	stations, _ := cmd.Flags().GetInt("random")
	switch {
	case path != "" && stations > 0:
		return nil, errors.New("--topology and --random are mutually exclusive")
	case path != "":
		spec, err := topology.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading topology: %w", err)
		}
		return spec, nil
	case stations > 1:
		lines, _ := cmd.Flags().GetInt("lines")
		if lines <= 0 {
			lines = stations/6 + 1
		}
		return topology.Random(topology.RandomConfig{
			Seed:     cfg.Simulation.Seed,
			Stations: stations,
			Lines:    lines,
			Size:     float64(stations) / 2,
			MinStops: 4,
			MaxStops: min(stations, network.MaxLineStops, 16),
		}), nil
	}

	return nil, errors.New("a topology is required: pass --topology FILE or --random N")
}

// engineOptions maps configuration onto engine options.
func (a *app) engineOptions(extra ...sim.Option) []sim.Option {
	s, n, c := a.cfg.Simulation, a.cfg.Network, a.cfg.Cache
	opts := []sim.Option{
		sim.WithWorkers(s.Workers),
		sim.WithTickSpeed(s.TickSpeed),
		sim.WithTickInterval(s.TickInterval),
		sim.WithSpawning(s.SpawnEvery, s.SpawnBatch),
		sim.WithBurstSize(s.BurstSize),
		sim.WithMaxCitizens(s.MaxCitizens),
		sim.WithCitizenTiming(s.CitizenSpeed, s.TransferThreshold, s.DespawnThreshold),
		sim.WithCullEvery(s.CullEvery),
		sim.WithSnapshotEvery(s.SnapshotEvery),
		sim.WithStatEvery(s.StatEvery),
		sim.WithBidirectional(s.Bidirectional),
		sim.WithSeed(s.Seed),
		sim.WithTrains(n.TrainSpacing, n.TrainCapacity, n.TrainSpeed, n.TrainDwell),
		sim.WithTransferPenalty(n.TransferPenalty),
		sim.WithCache(c.Buckets, c.BucketSize),
		sim.WithLogger(a.log),
	}

	return append(opts, extra...)
}

// resolveStation accepts a station code or name.
func resolveStation(n *network.Network, arg string) (network.StationID, error) {
	if code, err := strconv.Atoi(arg); err == nil {
		if id, ok := n.StationByCode(code); ok {
			return id, nil
		}
	}
	for i := 0; i < n.StationCount(); i++ {
		if n.Station(network.StationID(i)).Name == arg {
			return network.StationID(i), nil
		}
	}

	return network.NoStation, fmt.Errorf("%w: %q", sim.ErrUnknownStation, arg)
}
