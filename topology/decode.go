// SPDX-License-Identifier: MIT

package topology

import (
	"fmt"
	"io"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/citysim/network"
)

// Decode parses a YAML spec. Unknown keys are rejected.
func Decode(r io.Reader) (*Spec, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var spec Spec
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("topology: decode: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	return &spec, nil
}

// LoadFile reads and decodes a YAML spec from path.
func LoadFile(path string) (*Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("topology: open %s: %w", path, err)
	}
	defer f.Close()

	return Decode(f)
}

// Validate checks ids and references without building anything.
func (s *Spec) Validate() error {
	if len(s.Stations) == 0 {
		return ErrEmpty
	}
	if dups := lo.FindDuplicatesBy(s.Stations, func(st StationSpec) int { return st.ID }); len(dups) > 0 {
		return fmt.Errorf("%w: duplicate station id %d", network.ErrInvalidTopologyReference, dups[0].ID)
	}
	if dups := lo.FindDuplicatesBy(s.Lines, func(l LineSpec) string { return l.Name }); len(dups) > 0 {
		return fmt.Errorf("%w: duplicate line %q", network.ErrInvalidTopologyReference, dups[0].Name)
	}
	known := lo.SliceToMap(s.Stations, func(st StationSpec) (int, struct{}) { return st.ID, struct{}{} })
	for _, l := range s.Lines {
		if l.Name == network.WalkingLineName {
			return fmt.Errorf("%w: line name %q is reserved", network.ErrInvalidTopologyReference, l.Name)
		}
		if len(l.Stops) < 2 {
			return fmt.Errorf("%w: line %q needs at least two stops", network.ErrInvalidTopologyReference, l.Name)
		}
		for _, stop := range l.Stops {
			if _, ok := known[stop]; !ok {
				return fmt.Errorf("%w: line %q references unknown station %d", network.ErrInvalidTopologyReference, l.Name, stop)
			}
		}
	}

	return nil
}
