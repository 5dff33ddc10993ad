package gamedata

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/tilestream/internal/world"
)

var (
	// ErrMissingTerrain is returned when the palette lacks a terrain category.
	ErrMissingTerrain = errors.New("palette has no entry for terrain")
	// ErrSlotMismatch is returned when a palette slot disagrees with the brush keys.
	ErrSlotMismatch = errors.New("palette slot does not match brush key")
)

// Swatch is the resolved drawing style for one terrain.
type Swatch struct {
	Def     *TerrainDef
	Glyph   rune
	Color   tcell.Color
	Painted tcell.Color // Color for cells the user painted
}

// Palette holds loaded terrain definitions keyed by category.
type Palette struct {
	swatches   map[world.Terrain]Swatch
	all        []TerrainDef
	background tcell.Color
	cursor     tcell.Color
}

// NewPalette creates a palette from loaded definitions. Every terrain category
// must be present and its slot must match world.TerrainForSlot.
func NewPalette(file PaletteFile) (*Palette, error) {
	background, err := ParseHexColor(file.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	cursorColor, err := ParseColor(file.Cursor)
	if err != nil {
		return nil, fmt.Errorf("cursor: %w", err)
	}

	p := &Palette{
		swatches:   make(map[world.Terrain]Swatch),
		all:        file.Terrains,
		background: background,
		cursor:     ToTCell(cursorColor),
	}
	for _, t := range world.Terrains() {
		def := findDef(file.Terrains, t.String())
		if def == nil {
			return nil, fmt.Errorf("%w %s", ErrMissingTerrain, t)
		}
		if slotTerrain, ok := world.TerrainForSlot(def.Slot); !ok || slotTerrain != t {
			return nil, fmt.Errorf("%w: %s has slot %d", ErrSlotMismatch, t, def.Slot)
		}
		if _, err := ParseColor(def.Color); err != nil {
			return nil, fmt.Errorf("terrain %s: %w", t, err)
		}
		p.swatches[t] = Swatch{
			Def:     def,
			Glyph:   def.GlyphRune(),
			Color:   def.TCellColor(),
			Painted: Blend(def.Colorful(), cursorColor, file.Highlight),
		}
	}
	return p, nil
}

func findDef(defs []TerrainDef, id string) *TerrainDef {
	for i := range defs {
		if defs[i].ID == id {
			return &defs[i]
		}
	}
	return nil
}

// LoadPalette loads and creates a palette from the embedded terrain.json.
func LoadPalette() (*Palette, error) {
	file, err := LoadPaletteFile()
	if err != nil {
		return nil, err
	}
	return NewPalette(file)
}

// MustLoadPalette loads a palette, panicking on error.
func MustLoadPalette() *Palette {
	palette, err := LoadPalette()
	if err != nil {
		panic(err)
	}
	return palette
}

// Swatch returns the drawing style for t. Unknown terrains draw as '?' in white.
func (p *Palette) Swatch(t world.Terrain) Swatch {
	if s, ok := p.swatches[t]; ok {
		return s
	}
	return Swatch{Glyph: '?', Color: tcell.ColorWhite, Painted: tcell.ColorWhite}
}

// Background returns the clear color.
func (p *Palette) Background() tcell.Color {
	return p.background
}

// Cursor returns the pointer color.
func (p *Palette) Cursor() tcell.Color {
	return p.cursor
}

// All returns all terrain definitions.
func (p *Palette) All() []TerrainDef {
	return p.all
}

// Count returns the number of terrain definitions.
func (p *Palette) Count() int {
	return len(p.all)
}
