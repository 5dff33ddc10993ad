package world

import (
	"errors"

	"github.com/zyedidia/generic/mapset"
)

// DefaultViewRadius is the Chebyshev radius of the visibility window in tiles.
const DefaultViewRadius = 60

// ErrNegativeRadius is returned when a window radius is below zero.
var ErrNegativeRadius = errors.New("radius must not be negative")

// Window is the square of cells within Radius of Center, bounds included.
type Window struct {
	Center GridCoord
	Radius int
}

// NewWindow returns the window of the given radius around center.
func NewWindow(center GridCoord, radius int) (Window, error) {
	if radius < 0 {
		return Window{}, ErrNegativeRadius
	}
	return Window{Center: center, Radius: radius}, nil
}

// Contains returns true if c lies inside the window.
func (w Window) Contains(c GridCoord) bool {
	return w.Center.ChebyshevDistance(c) <= w.Radius
}

// Side returns the number of cells along one edge.
func (w Window) Side() int {
	return 2*w.Radius + 1
}

// Size returns the number of cells in the window.
func (w Window) Size() int {
	return w.Side() * w.Side()
}

// Each calls fn for every cell, row by row from the bottom-left corner.
func (w Window) Each(fn func(c GridCoord)) {
	for y := w.Center.Y - w.Radius; y <= w.Center.Y+w.Radius; y++ {
		for x := w.Center.X - w.Radius; x <= w.Center.X+w.Radius; x++ {
			fn(GridCoord{X: x, Y: y})
		}
	}
}

// Coords returns every cell of the window in Each order.
func (w Window) Coords() []GridCoord {
	coords := make([]GridCoord, 0, w.Size())
	w.Each(func(c GridCoord) {
		coords = append(coords, c)
	})
	return coords
}

// Set returns the window's cells as a set.
func (w Window) Set() mapset.Set[GridCoord] {
	set := mapset.New[GridCoord]()
	w.Each(set.Put)
	return set
}
