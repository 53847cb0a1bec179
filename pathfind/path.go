// SPDX-License-Identifier: MIT

package pathfind

import (
	"fmt"

	"github.com/katalvlaran/citysim/network"
)

// Len returns the number of steps.
func (p Path) Len() int { return len(p) }

// Start returns the first station, or network.NoStation for an empty path.
func (p Path) Start() network.StationID {
	if len(p) == 0 {
		return network.NoStation
	}

	return p[0].Station
}

// End returns the last station, or network.NoStation for an empty path.
func (p Path) End() network.StationID {
	if len(p) == 0 {
		return network.NoStation
	}

	return p[len(p)-1].Station
}

// Clone returns an independent copy.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}

	return append(Path(nil), p...)
}

// Reversed returns the route travelled backwards. Station order is reversed
// and line labels shift by one so that each step still names the line
// leaving its station; the new final step carries network.NoLine.
func (p Path) Reversed() Path {
	s := len(p)
	if s == 0 {
		return nil
	}
	r := make(Path, s)
	for i := 0; i < s-1; i++ {
		r[i] = Step{Station: p[s-1-i].Station, Line: p[s-2-i].Line}
	}
	r[s-1] = Step{Station: p[0].Station, Line: network.NoLine}

	return r
}

// Transfers counts line changes along the path.
func (p Path) Transfers() int {
	n := 0
	for i := 1; i < len(p)-1; i++ {
		if p[i].Line != p[i-1].Line {
			n++
		}
	}

	return n
}

// Validate checks that p has at least two steps, that every step except the
// last names a line with an edge to the next station, and that the last step
// carries network.NoLine.
func (p Path) Validate(n *network.Network) error {
	if n == nil {
		return ErrNilNetwork
	}
	if len(p) < 2 {
		return fmt.Errorf("%w: %d steps", ErrInvalidPath, len(p))
	}
	for i := 0; i < len(p)-1; i++ {
		cur, next := p[i], p[i+1]
		if cur.Line == network.NoLine {
			return fmt.Errorf("%w: step %d has no line", ErrInvalidPath, i)
		}
		if _, ok := n.EdgeWeight(cur.Station, next.Station, cur.Line); !ok {
			return fmt.Errorf("%w: no edge %d→%d on line %d", ErrInvalidPath, cur.Station, next.Station, cur.Line)
		}
	}
	if p[len(p)-1].Line != network.NoLine {
		return fmt.Errorf("%w: last step carries line %d", ErrInvalidPath, p[len(p)-1].Line)
	}

	return nil
}

// String renders the path as "0-1>4-2>7" (station ids, line ids).
func (p Path) String() string {
	out := make([]byte, 0, len(p)*6)
	for i, s := range p {
		out = fmt.Appendf(out, "%d", s.Station)
		if i < len(p)-1 {
			out = fmt.Appendf(out, "-%d>", s.Line)
		}
	}

	return string(out)
}
