// Package scanner places beacon scanners of unknown position and
// orientation in a common frame by finding beacons their reports share.
//
// Every scanner reports beacons relative to itself, in one of the 24
// axis-aligned orientations. Scanner 0 defines the global frame.
package scanner

import (
	"slices"

	"github.com/maisem/aoc2021"
	"tailscale.com/util/set"
)

// Vec is a beacon or scanner position.
type Vec = aoc.Pt3Int

// Alignment maps a scanner's local frame into the global frame: a local
// point p is at Rotation·p + Translation globally. Translation is also the
// scanner's own global position.
type Alignment struct {
	Rotation    Rotation
	Translation Vec
}

// Apply maps local point p into the global frame.
func (a Alignment) Apply(p Vec) Vec {
	return a.Rotation.Apply(p).Add(a.Translation)
}

// Cloud is the set of beacons reported by one scanner. The zero value is an
// empty cloud. Clouds are never modified once built.
type Cloud struct {
	pts []Vec // distinct
}

// NewCloud returns a cloud of pts. Repeated points are kept once.
func NewCloud(pts ...Vec) Cloud {
	seen := make(set.Set[Vec], len(pts))
	out := make([]Vec, 0, len(pts))
	for _, p := range pts {
		if seen.Contains(p) {
			continue
		}
		seen.Add(p)
		out = append(out, p)
	}
	return Cloud{pts: out}
}

func (c Cloud) Len() int { return len(c.pts) }

// Points returns a copy of the points in c.
func (c Cloud) Points() []Vec {
	return slices.Clone(c.pts)
}

// Set returns the points of c as a set.
func (c Cloud) Set() set.Set[Vec] {
	s := make(set.Set[Vec], len(c.pts))
	for _, p := range c.pts {
		s.Add(p)
	}
	return s
}

func (c Cloud) mapPoints(f func(Vec) Vec) Cloud {
	out := make([]Vec, len(c.pts))
	for i, p := range c.pts {
		out[i] = f(p)
	}
	return Cloud{pts: out}
}

// Translate returns c with every point offset by delta.
func (c Cloud) Translate(delta Vec) Cloud {
	return c.mapPoints(func(p Vec) Vec { return p.Add(delta) })
}

// Rotate returns c with every point rotated by r.
func (c Cloud) Rotate(r Rotation) Cloud {
	return c.mapPoints(r.Apply)
}

// Transform rotates c by r and then translates it by t.
func (c Cloud) Transform(r Rotation, t Vec) Cloud {
	a := Alignment{Rotation: r, Translation: t}
	return c.mapPoints(a.Apply)
}

// OverlapTransform looks for an alignment under which at least threshold
// points of c coincide with points of other. Orientations are tried in
// catalog order and, within one orientation, every pairing of a point of c
// with a point of other is tried as the translation anchor. The first
// alignment that reaches threshold is returned; it is not checked for
// uniqueness.
func (c Cloud) OverlapTransform(other Cloud, threshold int) (Alignment, bool) {
	if threshold > c.Len() || threshold > other.Len() {
		return Alignment{}, false
	}
	target := other.Set()
	for _, r := range Orientations {
		rotated := c.Rotate(r)
		for _, p := range rotated.pts {
			for _, q := range other.pts {
				t := q.Sub(p)
				if countShifted(rotated.pts, t, target, threshold) >= threshold {
					return Alignment{Rotation: r, Translation: t}, true
				}
			}
		}
	}
	return Alignment{}, false
}

// countShifted counts the points of pts that land in target after being
// offset by t. It stops once the count reaches want or can no longer
// reach it.
func countShifted(pts []Vec, t Vec, target set.Set[Vec], want int) int {
	n := 0
	for i, p := range pts {
		if target.Contains(p.Add(t)) {
			n++
			if n >= want {
				return n
			}
		}
		if n+len(pts)-i-1 < want {
			return n
		}
	}
	return n
}

// CommonPoints returns the points of c, transformed by r and t, that are
// also in other.
func (c Cloud) CommonPoints(other Cloud, r Rotation, t Vec) set.Set[Vec] {
	target := other.Set()
	out := make(set.Set[Vec])
	for _, p := range c.Transform(r, t).pts {
		if target.Contains(p) {
			out.Add(p)
		}
	}
	return out
}
