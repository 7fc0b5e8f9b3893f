package scanner

import (
	"cmp"
	"fmt"
	"slices"

	"golang.org/x/exp/maps"
	"tailscale.com/util/set"
)

// DistinctBeacons maps every cloud into the global frame with the matching
// alignment and returns the union of the results.
func DistinctBeacons(clouds []Cloud, alignments []Alignment) set.Set[Vec] {
	if len(clouds) != len(alignments) {
		panic(fmt.Sprintf("%d clouds but %d alignments", len(clouds), len(alignments)))
	}
	out := make(set.Set[Vec])
	for i, c := range clouds {
		for _, p := range c.pts {
			out.Add(alignments[i].Apply(p))
		}
	}
	return out
}

// MaxSensorDistance returns the largest manhattan distance between the
// positions of any two scanners, or 0 if there are fewer than two.
func MaxSensorDistance(alignments []Alignment) int {
	best := 0
	for i := range alignments {
		for j := i + 1; j < len(alignments); j++ {
			best = max(best, alignments[i].Translation.MDist(alignments[j].Translation))
		}
	}
	return best
}

// SortedBeacons returns the beacons in s ordered by X, then Y, then Z.
func SortedBeacons(s set.Set[Vec]) []Vec {
	out := maps.Keys(s)
	slices.SortFunc(out, func(a, b Vec) int {
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.Z, b.Z)
	})
	return out
}
