// SPDX-License-Identifier: MIT

package gridindex

import (
	"errors"

	"github.com/katalvlaran/citysim/network"
)

// Sentinel errors for gridindex operations.
var (
	// ErrEmpty indicates no points were supplied.
	ErrEmpty = errors.New("gridindex: no points")
	// ErrBadCellSize indicates a non-positive cell size.
	ErrBadCellSize = errors.New("gridindex: cell size must be positive")
	// ErrBadRadius indicates a negative query radius.
	ErrBadRadius = errors.New("gridindex: radius must be non-negative")
)

// Index is an immutable uniform-grid bucket of points.
type Index struct {
	Width, Height int
	cellSize      float64
	minX, minY    float64
	pts           []network.Point
	cells         [][]int // cells[cy*Width+cx] holds point indices ascending
}
