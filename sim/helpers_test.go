package sim_test

import (
	"strings"
	"testing"

	"github.com/katalvlaran/citysim/network"
	"github.com/katalvlaran/citysim/sim"
	"github.com/katalvlaran/citysim/topology"
	"github.com/stretchr/testify/require"
)

const smallCity = `
stations:
  - {id: 1, name: North,   x: 0, y: 6, ridership: 40}
  - {id: 2, name: Central, x: 0, y: 3, ridership: 120}
  - {id: 3, name: South,   x: 0, y: 0, ridership: 60}
  - {id: 4, name: West,    x: -4, y: 3, ridership: 30}
  - {id: 5, name: Harbor,  x: 4, y: 3, ridership: 80}
  - {id: 6, name: Pier,    x: 5, y: 4, ridership: 20}
lines:
  - {name: red,  stops: [1, 2, 3]}
  - {name: blue, stops: [4, 2, 5]}
`

// small builds the six-station city at scale 4.
func small(t *testing.T) *network.Network {
	t.Helper()
	spec, err := topology.Decode(strings.NewReader(smallCity))
	require.NoError(t, err)
	n, err := topology.Build(spec, topology.WithDistanceScale(4))
	require.NoError(t, err)

	return n
}

// twoStations builds A(0,0) and B(100,0) joined only by line L at scale 1.
func twoStations(t *testing.T) (*network.Network, network.StationID, network.StationID) {
	t.Helper()
	n, err := network.New(network.WithDistanceScale(1))
	require.NoError(t, err)
	a, err := n.AddStation(network.StationInfo{Code: 1, Name: "A", Pos: network.Point{X: 0, Y: 0}, Ridership: 1})
	require.NoError(t, err)
	b, err := n.AddStation(network.StationInfo{Code: 2, Name: "B", Pos: network.Point{X: 100, Y: 0}, Ridership: 1})
	require.NoError(t, err)
	l, err := n.AddLine("L", "", []network.StationID{a, b})
	require.NoError(t, err)
	require.NoError(t, n.AddEdge(a, b, l, 100))
	require.NoError(t, n.AddEdge(b, a, l, 100))
	n.Seal()

	return n, a, b
}

func newEngine(t *testing.T, n *network.Network, opts ...sim.Option) *sim.Engine {
	t.Helper()
	e, err := sim.New(n, opts...)
	require.NoError(t, err)
	t.Cleanup(e.Close)

	return e
}

func code(t *testing.T, n *network.Network, c int) network.StationID {
	t.Helper()
	id, ok := n.StationByCode(c)
	require.True(t, ok)

	return id
}
