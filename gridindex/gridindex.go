// SPDX-License-Identifier: MIT

package gridindex

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/citysim/network"
)

// New builds an index over pts with square cells of side cellSize.
// The slice is copied.
func New(pts []network.Point, cellSize float64) (*Index, error) {
	if len(pts) == 0 {
		return nil, ErrEmpty
	}
	if cellSize <= 0 || math.IsNaN(cellSize) || math.IsInf(cellSize, 0) {
		return nil, fmt.Errorf("%w: %v", ErrBadCellSize, cellSize)
	}

	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	idx := &Index{
		Width:    int((maxX-minX)/cellSize) + 1,
		Height:   int((maxY-minY)/cellSize) + 1,
		cellSize: cellSize,
		minX:     minX,
		minY:     minY,
		pts:      append([]network.Point(nil), pts...),
	}
	idx.cells = make([][]int, idx.Width*idx.Height)
	for i, p := range idx.pts {
		cx, cy := idx.cellOf(p)
		c := cy*idx.Width + cx
		idx.cells[c] = append(idx.cells[c], i)
	}

	return idx, nil
}

// Len returns the number of indexed points.
func (idx *Index) Len() int { return len(idx.pts) }

// InBounds reports whether cell (cx, cy) exists.
func (idx *Index) InBounds(cx, cy int) bool {
	return cx >= 0 && cx < idx.Width && cy >= 0 && cy < idx.Height
}

// Neighbors returns the indices of all points other than i within radius of
// point i, ascending.
func (idx *Index) Neighbors(i int, radius float64) ([]int, error) {
	if i < 0 || i >= len(idx.pts) {
		return nil, fmt.Errorf("gridindex: point %d out of range", i)
	}
	if radius < 0 {
		return nil, ErrBadRadius
	}

	var out []int
	idx.scan(idx.pts[i], radius, func(j int) {
		if j != i {
			out = append(out, j)
		}
	})
	sort.Ints(out)

	return out, nil
}

// Pairs calls fn once for every unordered pair within radius, as (i, j, d)
// with i < j and d the Euclidean distance.
func (idx *Index) Pairs(radius float64, fn func(i, j int, d float64)) error {
	if radius < 0 {
		return ErrBadRadius
	}
	var near []int
	for i, p := range idx.pts {
		near = near[:0]
		idx.scan(p, radius, func(j int) {
			if j > i {
				near = append(near, j)
			}
		})
		sort.Ints(near)
		for _, j := range near {
			fn(i, j, p.Dist(idx.pts[j]))
		}
	}

	return nil
}

// scan visits every point within radius of p.
func (idx *Index) scan(p network.Point, radius float64, visit func(j int)) {
	cx, cy := idx.cellOf(p)
	rings := int(math.Ceil(radius / idx.cellSize))
	for _, off := range ringOffsets(rings) {
		nx, ny := cx+off[0], cy+off[1]
		if !idx.InBounds(nx, ny) {
			continue
		}
		for _, j := range idx.cells[ny*idx.Width+nx] {
			if p.Dist(idx.pts[j]) <= radius {
				visit(j)
			}
		}
	}
}

func (idx *Index) cellOf(p network.Point) (int, int) {
	cx := int((p.X - idx.minX) / idx.cellSize)
	cy := int((p.Y - idx.minY) / idx.cellSize)
	if cx >= idx.Width {
		cx = idx.Width - 1
	}
	if cy >= idx.Height {
		cy = idx.Height - 1
	}

	return cx, cy
}

// ringOffsets returns the (dx, dy) offsets of the square of cells with the
// given half-width, center included.
func ringOffsets(rings int) [][2]int {
	offs := make([][2]int, 0, (2*rings+1)*(2*rings+1))
	for dy := -rings; dy <= rings; dy++ {
		for dx := -rings; dx <= rings; dx++ {
			offs = append(offs, [2]int{dx, dy})
		}
	}

	return offs
}
