// SPDX-License-Identifier: MIT

package topology

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/citysim/gridindex"
	"github.com/katalvlaran/citysim/network"
	"github.com/katalvlaran/citysim/reach"
)

// Build constructs and seals a network from spec.
//
// Steps:
//  1. Validate spec and options.
//  2. Add stations.
//  3. Add lines and their edges.
//  4. Add walking edges via a grid index.
//  5. Report isolated stations, then seal.
func Build(spec *Spec, opts ...Option) (*network.Network, error) {
	// 1) Validate
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.WalkRadius < 0 || o.WalkMultiplier <= 0 {
		return nil, fmt.Errorf("%w: radius=%v multiplier=%v", ErrBadOption, o.WalkRadius, o.WalkMultiplier)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	n, err := network.New(network.WithDistanceScale(o.DistanceScale))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadOption, err)
	}

	// 2) Stations
	pts := make([]network.Point, len(spec.Stations))
	for i, st := range spec.Stations {
		pts[i] = network.Point{X: st.X, Y: st.Y}
		if _, err := n.AddStation(network.StationInfo{
			Code:      st.ID,
			Name:      st.Name,
			Pos:       pts[i],
			Ridership: st.Ridership,
		}); err != nil {
			return nil, err
		}
	}

	// 3) Lines
	for _, ls := range spec.Lines {
		if err := addLine(n, ls); err != nil {
			return nil, err
		}
	}

	// 4) Walking transfers
	walks, skipped := 0, 0
	if o.WalkRadius > 0 {
		idx, err := gridindex.New(pts, o.WalkRadius)
		if err != nil {
			return nil, err
		}
		err = idx.Pairs(o.WalkRadius, func(i, j int, d float64) {
			w := d * o.DistanceScale * o.WalkMultiplier
			a, b := network.StationID(i), network.StationID(j)
			if link(n, a, b, network.WalkingLine, w) != nil {
				skipped++
				return
			}
			walks++
		})
		if err != nil {
			return nil, err
		}
	}
	if skipped > 0 {
		o.Logger.Debug("walking transfers skipped", "count", skipped)
	}

	// 5) Connectivity report
	comps, err := reach.LabelComponents(n)
	if err != nil {
		return nil, err
	}
	for _, id := range comps.Isolated() {
		o.Logger.Warn("isolated station", "station", n.Station(id).Code, "name", n.Station(id).Name)
	}
	n.Seal()
	o.Logger.Info("network built",
		"stations", n.StationCount(),
		"lines", n.LineCount()-1,
		"walking_pairs", walks,
		"components", comps.Count(),
	)

	return n, nil
}

func addLine(n *network.Network, ls LineSpec) error {
	stops := make([]network.StationID, len(ls.Stops))
	for i, code := range ls.Stops {
		id, ok := n.StationByCode(code)
		if !ok {
			return fmt.Errorf("%w: line %q stop %d", network.ErrInvalidTopologyReference, ls.Name, code)
		}
		stops[i] = id
	}
	lid, err := n.AddLine(ls.Name, ls.Color, stops)
	if err != nil {
		return err
	}
	for i := 0; i < len(stops)-1; i++ {
		if err := link(n, stops[i], stops[i+1], lid, n.StationDistance(stops[i], stops[i+1])); err != nil {
			return fmt.Errorf("topology: line %q: %w", ls.Name, err)
		}
	}

	return nil
}

// link adds a→b and b→a. A segment the line already covers is not an error.
// A failure on the reverse direction leaves the forward edge in place.
func link(n *network.Network, a, b network.StationID, line network.LineID, w float64) error {
	if err := n.AddEdge(a, b, line, w); err != nil && !errors.Is(err, network.ErrDuplicateEdge) {
		return err
	}
	if err := n.AddEdge(b, a, line, w); err != nil && !errors.Is(err, network.ErrDuplicateEdge) {
		return err
	}

	return nil
}
