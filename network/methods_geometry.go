// SPDX-License-Identifier: MIT

package network

// StationDistance returns the scaled Euclidean distance between two stations.
// Unknown ids yield 0.
func (n *Network) StationDistance(a, b StationID) float64 {
	if !n.validStation(a) || !n.validStation(b) {
		return 0
	}

	return n.stations[a].Pos.Dist(n.stations[b].Pos) * n.opts.DistanceScale
}

// LineDistance returns the scaled distance between stop i and stop i+1 of
// line. Out-of-range arguments yield 0.
func (n *Network) LineDistance(line LineID, i int) float64 {
	if !n.validLine(line) {
		return 0
	}
	l := n.lines[line]
	if i < 0 || i >= len(l.Dist) {
		return 0
	}

	return l.Dist[i]
}

// Position returns the map position of a station.
func (n *Network) Position(id StationID) Point {
	if !n.validStation(id) {
		return Point{}
	}

	return n.stations[id].Pos
}
