package gamedata

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// TerrainDef describes how one terrain category is drawn, loaded from JSON.
type TerrainDef struct {
	ID    string `json:"id"`    // Matches world.Terrain.String() (e.g., "water")
	Name  string `json:"name"`  // Display name (e.g., "Water")
	Glyph string `json:"glyph"` // Single character for rendering (e.g., "~")
	Color string `json:"color"` // Hex color code (e.g., "#004DFF")
	Slot  int    `json:"slot"`  // Brush key (1-based)
}

// GlyphRune returns the glyph as a rune for rendering.
func (d *TerrainDef) GlyphRune() rune {
	if len(d.Glyph) == 0 {
		return '?'
	}
	return rune(d.Glyph[0])
}

// TCellColor returns the color as a tcell.Color.
func (d *TerrainDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(d.Color)
	if err != nil {
		return tcell.ColorWhite // fallback
	}
	return color
}

// Colorful returns the color for blending, or white if it does not parse.
func (d *TerrainDef) Colorful() colorful.Color {
	c, err := ParseColor(d.Color)
	if err != nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return c
}

// PaletteFile represents the structure of terrain.json.
type PaletteFile struct {
	Background string       `json:"background"` // Clear color behind tiles
	Cursor     string       `json:"cursor"`     // Pointer and paint highlight color
	Highlight  float64      `json:"highlight"`  // Blend factor toward Cursor for painted tiles
	Terrains   []TerrainDef `json:"terrains"`
}

// LoadPaletteFile loads the palette from the embedded terrain.json file.
func LoadPaletteFile() (PaletteFile, error) {
	return Load[PaletteFile]("terrain.json")
}
