// Package gen provides seeded noise fields and the terrain classifier built on them.
package gen

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// Field names accepted by NewField.
const (
	FieldSimplex = "simplex"
	FieldPerlin  = "perlin"
	FieldValue   = "value"
)

// ErrUnknownField is returned by NewField for an unsupported field name.
var ErrUnknownField = errors.New("unknown noise field")

// Field is a smooth, deterministic 2D noise function with output in [-1, 1].
// A Field is read-only after construction and safe for concurrent use.
type Field interface {
	Sample(x, y float64) float64
}

// NewField builds the named field for a seed.
func NewField(name string, seed int64) (Field, error) {
	switch name {
	case FieldSimplex:
		return NewSimplex(seed), nil
	case FieldPerlin:
		return NewPerlin(seed), nil
	case FieldValue:
		return NewValue(seed), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
}

// permutation returns a seeded shuffle of 0..255, doubled for wrapping.
func permutation(seed int64) [512]int {
	rng := rand.New(rand.NewSource(seed))

	var p [256]int
	for i := range p {
		p[i] = i
	}
	for i := 255; i > 0; i-- {
		j := rng.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}

	var perm [512]int
	for i := range perm {
		perm[i] = p[i&255]
	}
	return perm
}

func fastFloor(x float64) int {
	return int(math.Floor(x))
}

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// =============================================================================
// Simplex
// =============================================================================

var grad2 = [12][2]float64{
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
	{1, 0}, {-1, 0}, {1, 0}, {-1, 0},
	{0, 1}, {0, -1}, {0, 1}, {0, -1},
}

// Simplex is 2D simplex noise over a seeded permutation table.
type Simplex struct {
	perm [512]int
}

// NewSimplex creates a simplex field for a seed.
func NewSimplex(seed int64) *Simplex {
	return &Simplex{perm: permutation(seed)}
}

// Sample returns the noise value at (x, y).
func (s *Simplex) Sample(x, y float64) float64 {
	const (
		f2 = 0.36602540378443864676 // (sqrt(3) - 1) / 2
		g2 = 0.21132486540518711775 // (3 - sqrt(3)) / 6
	)

	// Skew to find the simplex cell
	sk := (x + y) * f2
	i := fastFloor(x + sk)
	j := fastFloor(y + sk)

	t := float64(i+j) * g2
	x0 := x - (float64(i) - t)
	y0 := y - (float64(j) - t)

	var i1, j1 int
	if x0 > y0 {
		i1 = 1
	} else {
		j1 = 1
	}

	x1 := x0 - float64(i1) + g2
	y1 := y0 - float64(j1) + g2
	x2 := x0 - 1 + 2*g2
	y2 := y0 - 1 + 2*g2

	ii := i & 255
	jj := j & 255
	gi0 := s.perm[ii+s.perm[jj]] % 12
	gi1 := s.perm[ii+i1+s.perm[jj+j1]] % 12
	gi2 := s.perm[ii+1+s.perm[jj+1]] % 12

	n := corner(gi0, x0, y0) + corner(gi1, x1, y1) + corner(gi2, x2, y2)
	return clamp(70 * n)
}

func corner(gi int, x, y float64) float64 {
	t := 0.5 - x*x - y*y
	if t < 0 {
		return 0
	}
	t *= t
	return t * t * (grad2[gi][0]*x + grad2[gi][1]*y)
}

// =============================================================================
// Perlin
// =============================================================================

// Perlin is 2D improved gradient noise over a seeded permutation table.
type Perlin struct {
	perm [512]int
}

// NewPerlin creates a Perlin field for a seed.
func NewPerlin(seed int64) *Perlin {
	return &Perlin{perm: permutation(seed)}
}

// Sample returns the noise value at (x, y). Integer lattice points are always 0.
func (p *Perlin) Sample(x, y float64) float64 {
	xi := fastFloor(x)
	yi := fastFloor(y)
	xf := x - float64(xi)
	yf := y - float64(yi)
	X := xi & 255
	Y := yi & 255

	u := fade(xf)
	v := fade(yf)

	aa := p.perm[p.perm[X]+Y]
	ab := p.perm[p.perm[X]+Y+1]
	ba := p.perm[p.perm[X+1]+Y]
	bb := p.perm[p.perm[X+1]+Y+1]

	x1 := lerp(gradPerlin(aa, xf, yf), gradPerlin(ba, xf-1, yf), u)
	x2 := lerp(gradPerlin(ab, xf, yf-1), gradPerlin(bb, xf-1, yf-1), u)
	return clamp(lerp(x1, x2, v))
}

func gradPerlin(hash int, x, y float64) float64 {
	switch hash & 7 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	case 3:
		return -x - y
	case 4:
		return x
	case 5:
		return -x
	case 6:
		return y
	default:
		return -y
	}
}

// =============================================================================
// Value
// =============================================================================

// Value is hashed lattice value noise remapped to [-1, 1].
type Value struct {
	seed int64
}

// NewValue creates a value-noise field for a seed.
func NewValue(seed int64) *Value {
	return &Value{seed: seed}
}

// Sample returns the noise value at (x, y).
func (vn *Value) Sample(x, y float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	fx := fade(x - x0)
	fy := fade(y - y0)

	ix, iy := int64(x0), int64(y0)
	v00 := vn.lattice(ix, iy)
	v10 := vn.lattice(ix+1, iy)
	v01 := vn.lattice(ix, iy+1)
	v11 := vn.lattice(ix+1, iy+1)

	v := lerp(lerp(v00, v10, fx), lerp(v01, v11, fx), fy)
	return clamp(v*2 - 1)
}

// lattice maps a lattice point to [0, 1] with a SplitMix64-style hash.
func (vn *Value) lattice(x, y int64) float64 {
	h := uint64(x)*0x9E3779B97F4A7C15 + uint64(y)*0x517CC1B727220A95 + uint64(vn.seed)
	h += 0x9E3779B97F4A7C15
	h = (h ^ (h >> 30)) * 0xBF58476D1CE4E5B9
	h = (h ^ (h >> 27)) * 0x94D049BB133111EB
	h ^= h >> 31
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}
