package gridindex_test

import (
	"math/rand/v2"
	"testing"

	"github.com/katalvlaran/citysim/gridindex"
	"github.com/katalvlaran/citysim/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrors(t *testing.T) {
	_, err := gridindex.New(nil, 1)
	require.ErrorIs(t, err, gridindex.ErrEmpty)
	_, err = gridindex.New([]network.Point{{}}, 0)
	require.ErrorIs(t, err, gridindex.ErrBadCellSize)
}

func TestNeighbors(t *testing.T) {
	pts := []network.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}, {X: 10, Y: 10}}
	idx, err := gridindex.New(pts, 2)
	require.NoError(t, err)
	require.Equal(t, 4, idx.Len())

	got, err := idx.Neighbors(0, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)

	got, err = idx.Neighbors(3, 2)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = idx.Neighbors(0, -1)
	require.ErrorIs(t, err, gridindex.ErrBadRadius)
	_, err = idx.Neighbors(9, 1)
	require.Error(t, err)
}

// TestPairsMatchesBruteForce compares the grid scan against an O(n²) scan,
// including radii larger than the cell size.
func TestPairsMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	pts := make([]network.Point, 200)
	for i := range pts {
		pts[i] = network.Point{X: rng.Float64() * 40, Y: rng.Float64() * 40}
	}
	for _, cell := range []float64{1, 2, 5} {
		idx, err := gridindex.New(pts, cell)
		require.NoError(t, err)
		for _, r := range []float64{0.5, 2, 6} {
			want := map[[2]int]bool{}
			for i := range pts {
				for j := i + 1; j < len(pts); j++ {
					if pts[i].Dist(pts[j]) <= r {
						want[[2]int{i, j}] = true
					}
				}
			}
			got := map[[2]int]bool{}
			require.NoError(t, idx.Pairs(r, func(i, j int, d float64) {
				require.Less(t, i, j)
				require.InDelta(t, pts[i].Dist(pts[j]), d, 1e-12)
				got[[2]int{i, j}] = true
			}))
			assert.Equal(t, want, got, "cell=%v radius=%v", cell, r)
		}
	}
}
