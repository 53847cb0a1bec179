// SPDX-License-Identifier: MIT

// Package topology turns a declarative city description into a sealed
// network.Network.
//
// A Spec lists stations (stable integer id, name, map position, ridership
// weight) and lines (name, color, ordered stop ids). Decode reads it from
// YAML:
//
//	stations:
//	  - {id: 1, name: Central, x: 0, y: 0, ridership: 120}
//	  - {id: 2, name: Harbor,  x: 3, y: 1}
//	lines:
//	  - {name: red, color: "#d33", stops: [1, 2]}
//
// Build adds, in order:
//
//  1. one station per entry;
//  2. for each line, an edge in both directions between consecutive stops,
//     weighted by scaled distance;
//  3. walking edges in both directions between every pair of stations
//     within WalkRadius map units, weighted by scaled distance times
//     WalkMultiplier.
//
// Line edges that do not fit a station's bounded adjacency are an error.
// Walking edges that do not fit are skipped and logged. Stations left with
// no connections are reported at warn level.
//
// Random builds a reproducible synthetic Spec for benchmarks and tests.
package topology
