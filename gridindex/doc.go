// SPDX-License-Identifier: MIT

// Package gridindex buckets planar points into a uniform grid of square cells
// so that "every point within radius r" queries touch only nearby cells.
//
// The index is immutable once built. Cell (cx, cy) covers
// [minX + cx*size, minX + (cx+1)*size) × [minY + cy*size, minY + (cy+1)*size).
// A query with radius r scans ceil(r/size) rings of cells around the query
// cell, the same way a grid graph scans its precomputed neighbor offsets.
//
// Complexity:
//
//   - Build:  O(n)
//   - Query:  O(k) where k is the number of points in the scanned cells.
//
// Results are deterministic: Neighbors returns indices ascending and Pairs
// visits (i, j) with i < j in ascending i, then ascending j.
package gridindex
