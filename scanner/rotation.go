package scanner

import (
	"fmt"

	"github.com/maisem/aoc2021"
)

// Rotation is one of the 24 orientations of a scanner: a signed
// permutation matrix with determinant +1.
type Rotation = aoc.Mat3[int]

// Identity is the orientation of the reference scanner.
var Identity = aoc.Identity3[int]()

// Quarter turns about the X, Y and Z axes. Together they generate the
// rotation group of the cube.
var (
	rotX = Rotation{
		{1, 0, 0},
		{0, 0, -1},
		{0, 1, 0},
	}
	rotY = Rotation{
		{0, 0, 1},
		{0, 1, 0},
		{-1, 0, 0},
	}
	rotZ = Rotation{
		{0, -1, 0},
		{1, 0, 0},
		{0, 0, 1},
	}
)

// Orientations is every orientation a scanner can have. Orientations[0] is
// Identity.
var Orientations = orientations()

// orientations returns the closure of Identity under the quarter turns, in
// breadth-first order.
func orientations() [24]Rotation {
	seen := map[Rotation]bool{Identity: true}
	all := []Rotation{Identity}
	q := aoc.NewQueue(Identity)
	q.While(func(r Rotation) bool {
		for _, g := range []Rotation{rotX, rotY, rotZ} {
			n := g.Mul(r)
			if seen[n] {
				continue
			}
			seen[n] = true
			all = append(all, n)
			q.Push(n)
		}
		return true
	})
	var out [24]Rotation
	if len(all) != len(out) {
		panic(fmt.Sprintf("rotation closure has %d elements; want %d", len(all), len(out)))
	}
	copy(out[:], all)
	return out
}

// Inverse returns the rotation undoing r.
func Inverse(r Rotation) Rotation {
	return r.Transpose()
}
