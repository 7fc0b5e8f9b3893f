package aoc

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// Pt3 is a point (or vector) in 3D integer space.
type Pt3[T constraints.Signed] struct {
	X, Y, Z T
}

type Pt3Int = Pt3[int]

func (p Pt3[T]) Add(b Pt3[T]) Pt3[T] {
	return Pt3[T]{p.X + b.X, p.Y + b.Y, p.Z + b.Z}
}

func (p Pt3[T]) Sub(b Pt3[T]) Pt3[T] {
	return Pt3[T]{p.X - b.X, p.Y - b.Y, p.Z - b.Z}
}

func (p Pt3[T]) Neg() Pt3[T] {
	return Pt3[T]{-p.X, -p.Y, -p.Z}
}

// Abs returns p with every component made non-negative.
func (p Pt3[T]) Abs() Pt3[T] {
	return Pt3[T]{AbsDiff(p.X, 0), AbsDiff(p.Y, 0), AbsDiff(p.Z, 0)}
}

// MDist returns the manhattan distance between a and b.
func (a Pt3[T]) MDist(b Pt3[T]) T {
	return AbsDiff(a.X, b.X) + AbsDiff(a.Y, b.Y) + AbsDiff(a.Z, b.Z)
}

// Rotate returns m·p.
func (p Pt3[T]) Rotate(m Mat3[T]) Pt3[T] {
	return m.Apply(p)
}

func (p Pt3[T]) String() string {
	return fmt.Sprintf("%d,%d,%d", p.X, p.Y, p.Z)
}

// ParsePt3 parses a point of the form "x,y,z".
func ParsePt3(s string) (Pt3Int, error) {
	f := strings.Split(s, ",")
	if len(f) != 3 {
		return Pt3Int{}, fmt.Errorf("want 3 comma-separated components, got %d", len(f))
	}
	var c [3]int
	for i, v := range f {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Pt3Int{}, err
		}
		c[i] = n
	}
	return Pt3Int{c[0], c[1], c[2]}, nil
}

// Mat3 is a 3x3 matrix, indexed [row][col].
type Mat3[T constraints.Signed] [3][3]T

func Identity3[T constraints.Signed]() Mat3[T] {
	return Mat3[T]{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

func (m Mat3[T]) Apply(p Pt3[T]) Pt3[T] {
	v := [3]T{p.X, p.Y, p.Z}
	var out [3]T
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i] += m[i][j] * v[j]
		}
	}
	return Pt3[T]{out[0], out[1], out[2]}
}

func (m Mat3[T]) Mul(o Mat3[T]) Mat3[T] {
	var out Mat3[T]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return out
}

func (m Mat3[T]) Transpose() Mat3[T] {
	var out Mat3[T]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[j][i] = m[i][j]
		}
	}
	return out
}

func (m Mat3[T]) Det() T {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// IsSignedPermutation reports whether every row and every column of m has
// exactly one non-zero entry and that entry is 1 or -1.
func (m Mat3[T]) IsSignedPermutation() bool {
	var colSeen [3]bool
	for i := 0; i < 3; i++ {
		nz := 0
		for j := 0; j < 3; j++ {
			switch m[i][j] {
			case 0:
				continue
			case 1, -1:
				if colSeen[j] {
					return false
				}
				colSeen[j] = true
				nz++
			default:
				return false
			}
		}
		if nz != 1 {
			return false
		}
	}
	return true
}
