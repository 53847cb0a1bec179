package reach_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/citysim/network"
	"github.com/katalvlaran/citysim/reach"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture: 0-1-2 on a line, 2~3 walking, 4 isolated.
func fixture(t *testing.T) *network.Network {
	t.Helper()
	n, err := network.New(network.WithDistanceScale(1))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := n.AddStation(network.StationInfo{Code: i, Pos: network.Point{X: float64(i)}})
		require.NoError(t, err)
	}
	l, err := n.AddLine("L", "", []network.StationID{0, 1, 2})
	require.NoError(t, err)
	link := func(a, b network.StationID, line network.LineID) {
		require.NoError(t, n.AddEdge(a, b, line, 1))
		require.NoError(t, n.AddEdge(b, a, line, 1))
	}
	link(0, 1, l)
	link(1, 2, l)
	link(2, 3, network.WalkingLine)
	n.Seal()

	return n
}

func TestReachable(t *testing.T) {
	n := fixture(t)
	res, err := reach.Reachable(n, 0)
	require.NoError(t, err)
	assert.Equal(t, []network.StationID{0, 1, 2, 3}, res.Order)
	assert.Equal(t, []int{0, 1, 2, 3, -1}, res.Depth)
	assert.False(t, res.Reached(4))

	path, err := res.PathTo(3)
	require.NoError(t, err)
	assert.Equal(t, []network.StationID{0, 1, 2, 3}, path)
	_, err = res.PathTo(4)
	require.Error(t, err)
}

func TestReachableOptions(t *testing.T) {
	n := fixture(t)

	res, err := reach.Reachable(n, 0, reach.WithMaxDepth(1))
	require.NoError(t, err)
	assert.Equal(t, []network.StationID{0, 1}, res.Order)

	res, err = reach.Reachable(n, 0, reach.WithEdgeFilter(reach.SkipWalking))
	require.NoError(t, err)
	assert.False(t, res.Reached(3))

	_, err = reach.Reachable(n, 0, reach.WithMaxDepth(-1))
	require.ErrorIs(t, err, reach.ErrOptionViolation)

	_, err = reach.Reachable(n, 9)
	require.ErrorIs(t, err, reach.ErrStartNotFound)

	_, err = reach.Reachable(nil, 0)
	require.ErrorIs(t, err, reach.ErrNilNetwork)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = reach.Reachable(n, 0, reach.WithContext(ctx))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLabelComponents(t *testing.T) {
	n := fixture(t)
	c, err := reach.LabelComponents(n)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Count())
	assert.True(t, c.Same(0, 3))
	assert.False(t, c.Same(0, 4))
	assert.False(t, c.Same(0, 99))
	assert.Equal(t, 4, c.Largest())
	assert.Equal(t, []network.StationID{4}, c.Isolated())

	c, err = reach.LabelComponents(n, reach.WithEdgeFilter(reach.SkipWalking))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Count())
	assert.False(t, c.Same(2, 3))
}
