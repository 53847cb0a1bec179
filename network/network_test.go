package network_test

import (
	"testing"

	"github.com/katalvlaran/citysim/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// line3 builds A(0,0) - B(3,0) - C(3,4) with scale 1 and one line over them.
func line3(t *testing.T) (*network.Network, []network.StationID, network.LineID) {
	t.Helper()
	n, err := network.New(network.WithDistanceScale(1))
	require.NoError(t, err)
	pts := []network.Point{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 4}}
	ids := make([]network.StationID, len(pts))
	for i, p := range pts {
		ids[i], err = n.AddStation(network.StationInfo{Code: i + 1, Name: string(rune('A' + i)), Pos: p})
		require.NoError(t, err)
	}
	l, err := n.AddLine("L1", "#ff0000", ids)
	require.NoError(t, err)

	return n, ids, l
}

func TestNewRejectsBadScale(t *testing.T) {
	_, err := network.New(network.WithDistanceScale(0))
	require.ErrorIs(t, err, network.ErrBadScale)
}

func TestWalkingLinePresent(t *testing.T) {
	n, err := network.New()
	require.NoError(t, err)
	require.Equal(t, 1, n.LineCount())
	assert.Equal(t, network.WalkingLineName, n.Line(network.WalkingLine).Name)
	assert.Empty(t, n.Lines())
}

func TestDistances(t *testing.T) {
	n, ids, l := line3(t)
	assert.InDelta(t, 3.0, n.StationDistance(ids[0], ids[1]), 1e-9)
	assert.InDelta(t, 5.0, n.StationDistance(ids[0], ids[2]), 1e-9)
	assert.InDelta(t, 3.0, n.LineDistance(l, 0), 1e-9)
	assert.InDelta(t, 4.0, n.LineDistance(l, 1), 1e-9)
	assert.Zero(t, n.LineDistance(l, 2))
	assert.Zero(t, n.StationDistance(ids[0], 99))
}

func TestScaledDistances(t *testing.T) {
	n, err := network.New()
	require.NoError(t, err)
	a, _ := n.AddStation(network.StationInfo{Code: 1, Pos: network.Point{}})
	b, _ := n.AddStation(network.StationInfo{Code: 2, Pos: network.Point{X: 1}})
	assert.InDelta(t, network.DefaultDistanceScale, n.StationDistance(a, b), 1e-9)
}

func TestAddLineValidation(t *testing.T) {
	n, ids, _ := line3(t)

	_, err := n.AddLine("L2", "", []network.StationID{ids[0]})
	require.ErrorIs(t, err, network.ErrInvalidTopologyReference)

	_, err = n.AddLine("L2", "", []network.StationID{ids[0], 42})
	require.ErrorIs(t, err, network.ErrInvalidTopologyReference)

	_, err = n.AddLine("L1", "", ids)
	require.ErrorIs(t, err, network.ErrInvalidTopologyReference)

	long := make([]network.StationID, network.MaxLineStops+1)
	_, err = n.AddLine("L3", "", long)
	require.ErrorIs(t, err, network.ErrLineTooLong)
}

func TestDuplicateStationCode(t *testing.T) {
	n, _, _ := line3(t)
	_, err := n.AddStation(network.StationInfo{Code: 1})
	require.ErrorIs(t, err, network.ErrInvalidTopologyReference)
}

func TestAddEdge(t *testing.T) {
	n, ids, l := line3(t)

	require.NoError(t, n.AddEdge(ids[0], ids[1], l, 3))
	require.ErrorIs(t, n.AddEdge(ids[0], ids[1], l, 3), network.ErrDuplicateEdge)
	// Same endpoints on another line is a distinct edge.
	require.NoError(t, n.AddEdge(ids[0], ids[1], network.WalkingLine, 4.5))

	require.ErrorIs(t, n.AddEdge(ids[0], ids[0], l, 1), network.ErrInvalidTopologyReference)
	require.ErrorIs(t, n.AddEdge(ids[0], 77, l, 1), network.ErrInvalidTopologyReference)
	require.ErrorIs(t, n.AddEdge(ids[0], ids[2], 9, 1), network.ErrInvalidTopologyReference)
	require.ErrorIs(t, n.AddEdge(ids[0], ids[2], l, -1), network.ErrInvalidTopologyReference)

	adj := n.Adjacent(ids[0])
	require.Len(t, adj, 2)
	assert.Equal(t, network.Edge{To: ids[1], Line: l, Weight: 3}, adj[0])

	w, ok := n.EdgeWeight(ids[0], ids[1], network.WalkingLine)
	require.True(t, ok)
	assert.InDelta(t, 4.5, w, 1e-9)
	_, ok = n.EdgeWeight(ids[1], ids[0], l)
	assert.False(t, ok)
}

func TestAdjacencyFull(t *testing.T) {
	n, err := network.New()
	require.NoError(t, err)
	hub, _ := n.AddStation(network.StationInfo{Code: 0})
	for i := 1; i <= network.MaxNeighbors+1; i++ {
		id, err := n.AddStation(network.StationInfo{Code: i})
		require.NoError(t, err)
		err = n.AddEdge(hub, id, network.WalkingLine, 1)
		if i <= network.MaxNeighbors {
			require.NoError(t, err)
		} else {
			require.ErrorIs(t, err, network.ErrAdjacencyFull)
		}
	}
	assert.Len(t, n.Adjacent(hub), network.MaxNeighbors)
}

func TestSealBlocksMutation(t *testing.T) {
	n, ids, l := line3(t)
	n.Seal()
	n.Seal()
	require.True(t, n.Sealed())
	_, err := n.AddStation(network.StationInfo{Code: 100})
	require.ErrorIs(t, err, network.ErrSealed)
	require.ErrorIs(t, n.AddEdge(ids[0], ids[1], l, 1), network.ErrSealed)
	_, err = n.AddLine("X", "", ids)
	require.ErrorIs(t, err, network.ErrSealed)
}

func TestLookups(t *testing.T) {
	n, ids, l := line3(t)
	id, ok := n.StationByCode(2)
	require.True(t, ok)
	assert.Equal(t, ids[1], id)
	lid, ok := n.LineByName("L1")
	require.True(t, ok)
	assert.Equal(t, l, lid)
	assert.Equal(t, 1, n.Line(l).IndexOf(ids[1]))
	assert.Equal(t, -1, n.Line(l).IndexOf(99))
	assert.Nil(t, n.Station(-1))
	assert.Nil(t, n.Line(12))
}
