// SPDX-License-Identifier: MIT

package topology

import (
	"fmt"
	"math/rand/v2"
	"sort"
)

// RandomConfig shapes a synthetic city.
type RandomConfig struct {
	Seed         uint64
	Stations     int     // number of stations
	Lines        int     // number of lines
	Size         float64 // side of the square map
	MinStops     int
	MaxStops     int
	MaxRidership uint32
}

// Random returns a reproducible Spec. Each line is a walk between nearby
// stations so routes look like transit lines rather than random chords.
func Random(cfg RandomConfig) *Spec {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x5851f42d4c957f2d))
	if cfg.MinStops < 2 {
		cfg.MinStops = 2
	}
	if cfg.MaxStops < cfg.MinStops {
		cfg.MaxStops = cfg.MinStops
	}
	if cfg.Size <= 0 {
		cfg.Size = 20
	}
	if cfg.MaxRidership == 0 {
		cfg.MaxRidership = 100
	}

	spec := &Spec{Stations: make([]StationSpec, cfg.Stations)}
	for i := range spec.Stations {
		spec.Stations[i] = StationSpec{
			ID:        i + 1,
			Name:      fmt.Sprintf("S%d", i+1),
			X:         rng.Float64() * cfg.Size,
			Y:         rng.Float64() * cfg.Size,
			Ridership: 1 + rng.Uint32N(cfg.MaxRidership),
		}
	}
	if cfg.Stations < 2 {
		return spec
	}

	for l := 0; l < cfg.Lines; l++ {
		want := cfg.MinStops + rng.IntN(cfg.MaxStops-cfg.MinStops+1)
		cur := rng.IntN(cfg.Stations)
		used := map[int]bool{cur: true}
		stops := []int{spec.Stations[cur].ID}
		for len(stops) < want {
			next := nearestUnused(spec.Stations, cur, used, rng)
			if next < 0 {
				break
			}
			used[next] = true
			stops = append(stops, spec.Stations[next].ID)
			cur = next
		}
		if len(stops) < 2 {
			continue
		}
		spec.Lines = append(spec.Lines, LineSpec{
			Name:  fmt.Sprintf("L%d", l+1),
			Color: fmt.Sprintf("#%06x", rng.Uint32N(1<<24)),
			Stops: stops,
		})
	}

	return spec
}

// nearestUnused picks one of the three closest unused stations to cur.
func nearestUnused(st []StationSpec, cur int, used map[int]bool, rng *rand.Rand) int {
	type cand struct {
		i int
		d float64
	}
	var cands []cand
	for i := range st {
		if used[i] {
			continue
		}
		dx, dy := st[i].X-st[cur].X, st[i].Y-st[cur].Y
		cands = append(cands, cand{i, dx*dx + dy*dy})
	}
	if len(cands) == 0 {
		return -1
	}
	sort.Slice(cands, func(a, b int) bool { return cands[a].d < cands[b].d })
	k := min(3, len(cands))

	return cands[rng.IntN(k)].i
}
