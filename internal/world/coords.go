package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultTileSize is the edge length of a tile in world units.
const DefaultTileSize = 32.0

// ErrInvalidTileSize is returned for a tile edge that is not a positive finite number.
var ErrInvalidTileSize = errors.New("tile size must be positive and finite")

// GridCoord identifies a tile cell.
type GridCoord struct {
	X, Y int
}

// String returns the coordinate as "(x,y)".
func (c GridCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns c offset by (dx, dy).
func (c GridCoord) Add(dx, dy int) GridCoord {
	return GridCoord{X: c.X + dx, Y: c.Y + dy}
}

// ChebyshevDistance returns max(|dx|, |dy|) between two cells.
func (c GridCoord) ChebyshevDistance(other GridCoord) int {
	return max(abs(c.X-other.X), abs(c.Y-other.Y))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Mapper converts between continuous world positions and grid cells.
type Mapper struct {
	tileSize float64
}

// NewMapper creates a mapper for the given tile edge length.
func NewMapper(tileSize float64) (Mapper, error) {
	if tileSize <= 0 || math.IsInf(tileSize, 0) || math.IsNaN(tileSize) {
		return Mapper{}, fmt.Errorf("%w: %v", ErrInvalidTileSize, tileSize)
	}
	return Mapper{tileSize: tileSize}, nil
}

// MustMapper creates a mapper, panicking on an invalid tile size.
func MustMapper(tileSize float64) Mapper {
	m, err := NewMapper(tileSize)
	if err != nil {
		panic(err)
	}
	return m
}

// TileSize returns the tile edge length.
func (m Mapper) TileSize() float64 {
	return m.tileSize
}

// ToGrid returns the cell containing pos. Each axis is rounded half away
// from zero, so a tile's anchor sits at the center of its cell.
func (m Mapper) ToGrid(pos mgl64.Vec2) GridCoord {
	return GridCoord{
		X: int(math.Round(pos.X() / m.tileSize)),
		Y: int(math.Round(pos.Y() / m.tileSize)),
	}
}

// ToWorld returns the world anchor of a cell.
func (m Mapper) ToWorld(c GridCoord) mgl64.Vec2 {
	return mgl64.Vec2{float64(c.X) * m.tileSize, float64(c.Y) * m.tileSize}
}
