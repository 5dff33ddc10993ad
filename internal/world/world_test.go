package world

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestTerrainString(t *testing.T) {
	tests := []struct {
		terrain  Terrain
		expected string
	}{
		{TerrainWater, "water"},
		{TerrainGrass, "grass"},
		{TerrainMountain, "mountain"},
		{Terrain(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.terrain.String(); got != tt.expected {
			t.Errorf("Terrain(%d).String() = %q, want %q", tt.terrain, got, tt.expected)
		}
	}
}

func TestTerrainForSlot(t *testing.T) {
	tests := []struct {
		slot     int
		expected Terrain
		ok       bool
	}{
		{1, TerrainWater, true},
		{2, TerrainGrass, true},
		{3, TerrainMountain, true},
		{0, 0, false},
		{4, 0, false},
	}

	for _, tt := range tests {
		got, ok := TerrainForSlot(tt.slot)
		if ok != tt.ok || (ok && got != tt.expected) {
			t.Errorf("TerrainForSlot(%d) = (%v, %v), want (%v, %v)", tt.slot, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestMapperRoundTrip(t *testing.T) {
	for _, size := range []float64{1, 0.1, 7.5, DefaultTileSize, 1000} {
		m := MustMapper(size)
		for x := -150; x <= 150; x += 7 {
			for y := -150; y <= 150; y += 11 {
				c := GridCoord{X: x, Y: y}
				if got := m.ToGrid(m.ToWorld(c)); got != c {
					t.Errorf("size %v: ToGrid(ToWorld(%v)) = %v", size, c, got)
				}
			}
		}
	}
}

func TestMapperToGridRounding(t *testing.T) {
	m := MustMapper(32)
	tests := []struct {
		pos      mgl64.Vec2
		expected GridCoord
	}{
		{mgl64.Vec2{0, 0}, GridCoord{0, 0}},
		{mgl64.Vec2{15.9, -15.9}, GridCoord{0, 0}},
		{mgl64.Vec2{16, -16}, GridCoord{1, -1}}, // half away from zero
		{mgl64.Vec2{47.9, 48}, GridCoord{1, 2}},
		{mgl64.Vec2{160, 0}, GridCoord{5, 0}},
		{mgl64.Vec2{-320, 320}, GridCoord{-10, 10}},
	}

	for _, tt := range tests {
		if got := m.ToGrid(tt.pos); got != tt.expected {
			t.Errorf("ToGrid(%v) = %v, want %v", tt.pos, got, tt.expected)
		}
	}
}

func TestNewMapperRejectsBadSizes(t *testing.T) {
	for _, size := range []float64{0, -1, math.Inf(1), math.NaN()} {
		if _, err := NewMapper(size); !errors.Is(err, ErrInvalidTileSize) {
			t.Errorf("NewMapper(%v) error = %v, want ErrInvalidTileSize", size, err)
		}
	}
}

func TestWindowMembership(t *testing.T) {
	center := GridCoord{X: 3, Y: -4}
	for radius := 0; radius <= 4; radius++ {
		w, err := NewWindow(center, radius)
		if err != nil {
			t.Fatalf("NewWindow(%v, %d) error = %v", center, radius, err)
		}

		side := 2*radius + 1
		if w.Size() != side*side {
			t.Errorf("radius %d: Size() = %d, want %d", radius, w.Size(), side*side)
		}

		coords := w.Coords()
		if len(coords) != side*side {
			t.Errorf("radius %d: len(Coords()) = %d, want %d", radius, len(coords), side*side)
		}
		set := w.Set()
		if set.Size() != side*side {
			t.Errorf("radius %d: Set().Size() = %d, want %d (duplicates?)", radius, set.Size(), side*side)
		}

		// Membership iff Chebyshev distance <= radius, on a wider box
		for x := center.X - radius - 2; x <= center.X+radius+2; x++ {
			for y := center.Y - radius - 2; y <= center.Y+radius+2; y++ {
				c := GridCoord{X: x, Y: y}
				want := max(abs(x-center.X), abs(y-center.Y)) <= radius
				if w.Contains(c) != want {
					t.Errorf("radius %d: Contains(%v) = %v, want %v", radius, c, !want, want)
				}
				if set.Has(c) != want {
					t.Errorf("radius %d: Set().Has(%v) = %v, want %v", radius, c, !want, want)
				}
			}
		}
	}
}

func TestWindowIncludesBoundary(t *testing.T) {
	w, _ := NewWindow(GridCoord{}, 2)
	for _, c := range []GridCoord{{2, 2}, {-2, -2}, {2, -2}, {-2, 0}} {
		if !w.Contains(c) {
			t.Errorf("Contains(%v) = false, want true for boundary cell", c)
		}
	}
	if w.Contains(GridCoord{X: 3}) {
		t.Error("Contains((3,0)) = true, want false")
	}
}

func TestNewWindowNegativeRadius(t *testing.T) {
	if _, err := NewWindow(GridCoord{}, -1); !errors.Is(err, ErrNegativeRadius) {
		t.Errorf("NewWindow(-1) error = %v, want ErrNegativeRadius", err)
	}
}
