package sim_test

import (
	"math/rand/v2"
	"testing"

	"github.com/katalvlaran/citysim/network"
	"github.com/katalvlaran/citysim/sim"
	"github.com/katalvlaran/citysim/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every station load and train seat taken by a citizen is given back by the
// time it despawns, whichever way it despawns.
func TestCapacityConservation(t *testing.T) {
	for _, seed := range []uint64{1, 2, 3, 4} {
		spec := topology.Random(topology.RandomConfig{
			Seed: seed, Stations: 40, Lines: 5, Size: 20, MinStops: 4, MaxStops: 10,
		})
		n, err := topology.Build(spec, topology.WithDistanceScale(4))
		require.NoError(t, err)

		e := newEngine(t, n,
			sim.WithWorkers(4),
			sim.WithSeed(seed),
			sim.WithMaxCitizens(400),
			sim.WithTrains(2, 3, 4, 8),
			sim.WithCitizenTiming(1, 4, 300),
			sim.WithCullEvery(16),
			sim.WithSnapshotEvery(1),
			sim.WithBidirectional(seed%2 == 0),
		)

		rng := rand.New(rand.NewPCG(seed, 99))
		var handles []sim.Handle
		spawn := func(k int) {
			for i := 0; i < k; i++ {
				a := network.StationID(rng.IntN(n.StationCount()))
				b := network.StationID(rng.IntN(n.StationCount()))
				if h, err := e.Spawn(a, b); err == nil {
					handles = append(handles, h)
				}
			}
		}

		spawn(200)
		for tick := 0; tick < 400; tick++ {
			if tick%50 == 0 {
				spawn(50)
			}
			if tick%70 == 0 && len(handles) > 0 {
				_ = e.Despawn(handles[rng.IntN(len(handles))])
			}
			require.NoError(t, e.Step())
			checkHoldings(t, e)
		}

		for _, h := range handles {
			_ = e.Despawn(h)
		}
		require.NoError(t, e.Step())
		checkHoldings(t, e)

		st := e.Stats()
		assert.Zero(t, st.Active, "seed %d", seed)
		assert.Zero(t, n.TotalLoad(), "seed %d", seed)
		for _, tr := range e.Trains() {
			assert.Zero(t, tr.Occupancy(), "seed %d train %d", seed, tr.ID)
		}
		assert.Equal(t, st.HandledCitizens, st.Despawned(), "seed %d", seed)
		assert.Equal(t, 400, st.Free, "seed %d", seed)
	}
}

// checkHoldings compares the shared counters with the citizen states of the
// snapshot published at the end of the last tick.
func checkHoldings(t *testing.T, e *sim.Engine) {
	t.Helper()
	s := e.Snapshot()
	waiting := s.States[sim.StateTransferring] + s.States[sim.StateAtStop]
	require.EqualValues(t, waiting, s.Waiting(), "tick %d", s.Tick)

	riding := int32(0)
	for _, tv := range s.Trains {
		require.GreaterOrEqual(t, tv.Occupancy, int32(0))
		riding += tv.Occupancy
	}
	require.EqualValues(t, s.States[sim.StateBoarded], riding, "tick %d", s.Tick)
}
