package ui

import "github.com/samdwyer/tilestream/internal/world"

// Viewport maps terminal cells to grid cells, one tile per cell. The camera
// cell sits at the middle of the map area and grid y grows upward.
type Viewport struct {
	Center world.GridCoord
	Width  int // Map area columns
	Height int // Map area rows
}

// NewViewport returns a viewport for a terminal of the given size, leaving
// the bottom row for the status line.
func NewViewport(center world.GridCoord, termWidth, termHeight int) Viewport {
	return Viewport{
		Center: center,
		Width:  max(termWidth, 0),
		Height: max(termHeight-1, 0),
	}
}

// ToScreen returns the terminal cell for c and whether it is on screen.
func (v Viewport) ToScreen(c world.GridCoord) (x, y int, ok bool) {
	x = c.X - v.Center.X + v.Width/2
	y = v.Height/2 - (c.Y - v.Center.Y)
	ok = x >= 0 && x < v.Width && y >= 0 && y < v.Height
	return x, y, ok
}

// ToGrid returns the grid cell under terminal cell (x, y).
func (v Viewport) ToGrid(x, y int) world.GridCoord {
	return world.GridCoord{
		X: v.Center.X + x - v.Width/2,
		Y: v.Center.Y + v.Height/2 - y,
	}
}

// Contains returns true if (x, y) lies in the map area.
func (v Viewport) Contains(x, y int) bool {
	return x >= 0 && x < v.Width && y >= 0 && y < v.Height
}
