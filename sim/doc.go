// SPDX-License-Identifier: MIT

// Package sim runs the agent-based ridership simulation on top of a sealed
// network.Network.
//
// An Engine owns every piece of mutable simulation state: the citizen pool,
// the trains, the route cache, counters and control flags. There are no
// package-level globals.
//
// Threads:
//
//   - Tick thread: each Step drains pending spawns and despawn requests,
//     advances every train, hands the active citizen list to a fixed worker
//     pool in disjoint contiguous chunks, waits for all of them, compacts the
//     list, and wakes the spawn thread every SpawnEvery ticks.
//   - Worker pool: advances the finite-state machine of each citizen in its
//     chunk. Shared counters (station load, train occupancy) are atomics;
//     docked-train slots take a per-station lock.
//   - Spawn thread: sleeps on a condition variable until a periodic wake-up,
//     a burst request, or shutdown. It samples origin/destination stations by
//     ridership, routes through the cache, and queues new citizens.
//
// Citizen lifecycle:
//
//	Spawned → Walking → (next step)
//	Spawned → Transferring → AtStop → Boarded → (next step)
//	any → Despawned   (arrival, manual Despawn, or stuck-timeout cull)
//
// A citizen records exactly which station load or train seat it holds, so
// every despawn path releases what it took and nothing else.
//
// Trains shuttle along their line, reversing at either terminus. A train
// turns around on arrival at the terminus, so while docked there its
// direction is the one it will leave in.
//
// Controls (pause, resume, tick speed, spawning toggle, bursts, shutdown) are
// safe to call from any goroutine while Run is active. Snapshot returns the
// most recently published read-only view; presentation code never touches
// engine locks.
package sim
