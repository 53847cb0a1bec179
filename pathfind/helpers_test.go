package pathfind_test

import (
	"math/rand/v2"
	"testing"

	"github.com/katalvlaran/citysim/network"
	"github.com/katalvlaran/citysim/pathfind"
	"github.com/stretchr/testify/require"
)

// builder wraps a unit-scale network for compact fixtures.
type builder struct {
	t *testing.T
	n *network.Network
}

func newBuilder(t *testing.T) *builder {
	t.Helper()
	n, err := network.New(network.WithDistanceScale(1))
	require.NoError(t, err)

	return &builder{t: t, n: n}
}

func (b *builder) station(x, y float64) network.StationID {
	id, err := b.n.AddStation(network.StationInfo{Code: b.n.StationCount(), Pos: network.Point{X: x, Y: y}})
	require.NoError(b.t, err)

	return id
}

// line registers a line and adds both directions of every segment with
// weight equal to the segment length.
func (b *builder) line(name string, stops ...network.StationID) network.LineID {
	l, err := b.n.AddLine(name, "", stops)
	require.NoError(b.t, err)
	for i := 0; i < len(stops)-1; i++ {
		d := b.n.StationDistance(stops[i], stops[i+1])
		require.NoError(b.t, b.n.AddEdge(stops[i], stops[i+1], l, d))
		require.NoError(b.t, b.n.AddEdge(stops[i+1], stops[i], l, d))
	}

	return l
}

func (b *builder) walk(a, c network.StationID, mult float64) {
	d := b.n.StationDistance(a, c) * mult
	require.NoError(b.t, b.n.AddEdge(a, c, network.WalkingLine, d))
	require.NoError(b.t, b.n.AddEdge(c, a, network.WalkingLine, d))
}

func (b *builder) sealed() *network.Network {
	b.n.Seal()

	return b.n
}

// cost sums edge weights plus the transfer penalty at each line change.
func cost(t *testing.T, n *network.Network, p pathfind.Path, penalty float64) float64 {
	t.Helper()
	total := 0.0
	for i := 0; i < len(p)-1; i++ {
		w, ok := n.EdgeWeight(p[i].Station, p[i+1].Station, p[i].Line)
		require.True(t, ok)
		total += w
		if i > 0 && p[i].Line != p[i-1].Line {
			total += penalty
		}
	}

	return total
}

// randomNetwork scatters stations and threads a few lines through random
// station sequences, plus walking links between close pairs.
func randomNetwork(t *testing.T, seed uint64, stations, lines int) *network.Network {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	b := newBuilder(t)
	ids := make([]network.StationID, stations)
	for i := range ids {
		ids[i] = b.station(rng.Float64()*20, rng.Float64()*20)
	}
	for l := 0; l < lines; l++ {
		size := 3 + rng.IntN(6)
		perm := rng.Perm(stations)[:size]
		stops := make([]network.StationID, size)
		for i, p := range perm {
			stops[i] = ids[p]
		}
		lid, err := b.n.AddLine(string(rune('A'+l)), "", stops)
		require.NoError(t, err)
		for i := 0; i < size-1; i++ {
			d := b.n.StationDistance(stops[i], stops[i+1])
			// Random lines may revisit a segment; duplicates and full lists are skipped.
			_ = b.n.AddEdge(stops[i], stops[i+1], lid, d)
			_ = b.n.AddEdge(stops[i+1], stops[i], lid, d)
		}
	}
	for i := 0; i < stations; i++ {
		for j := i + 1; j < stations; j++ {
			if b.n.StationDistance(ids[i], ids[j]) <= 2 {
				d := b.n.StationDistance(ids[i], ids[j]) * 1.5
				_ = b.n.AddEdge(ids[i], ids[j], network.WalkingLine, d)
				_ = b.n.AddEdge(ids[j], ids[i], network.WalkingLine, d)
			}
		}
	}

	return b.sealed()
}
