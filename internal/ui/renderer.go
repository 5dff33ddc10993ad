package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/tilestream/internal/gamedata"
	"github.com/samdwyer/tilestream/internal/stream"
	"github.com/samdwyer/tilestream/internal/world"
)

// Status is the information shown on the bottom line.
type Status struct {
	Mode    stream.Mode
	Editor  bool
	Brush   world.Terrain
	Center  world.GridCoord
	Live    int
	Cached  int
	Radius  int
	Seed    int64
	Message string
}

// Renderer holds the live tiles handed over by the reconciler and draws them.
type Renderer struct {
	screen  *Screen
	palette *gamedata.Palette
	tiles   map[world.GridCoord]stream.Tile
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen, palette *gamedata.Palette) *Renderer {
	return &Renderer{
		screen:  screen,
		palette: palette,
		tiles:   make(map[world.GridCoord]stream.Tile),
	}
}

// Spawn adds a tile to the drawable set.
func (r *Renderer) Spawn(t stream.Tile) {
	r.tiles[t.Coord] = t
}

// Despawn removes a tile from the drawable set.
func (r *Renderer) Despawn(c world.GridCoord) {
	delete(r.tiles, c)
}

// Len returns the number of held tiles.
func (r *Renderer) Len() int {
	return len(r.tiles)
}

// Tile returns the held tile at c.
func (r *Renderer) Tile(c world.GridCoord) (stream.Tile, bool) {
	t, ok := r.tiles[c]
	return t, ok
}

// Render draws the visible tiles, the pointer and the status line.
// Cells with no live tile show the background color.
func (r *Renderer) Render(vp Viewport, pointerX, pointerY int, pointerOK bool, status Status) {
	r.screen.Clear()

	background := tcell.StyleDefault.Background(r.palette.Background())
	for y := 0; y < vp.Height; y++ {
		for x := 0; x < vp.Width; x++ {
			r.screen.SetContent(x, y, ' ', background)
		}
	}

	for _, t := range r.tiles {
		x, y, ok := vp.ToScreen(t.Coord)
		if !ok {
			continue
		}
		ch, style := r.tileStyle(t)
		r.screen.SetContent(x, y, ch, style)
	}

	// Camera marker
	if x, y, ok := vp.ToScreen(vp.Center); ok {
		r.screen.SetContent(x, y, '@', tcell.StyleDefault.
			Foreground(tcell.ColorYellow).
			Background(r.palette.Background()).
			Bold(true))
	}

	if pointerOK && vp.Contains(pointerX, pointerY) {
		ch := '+'
		if status.Editor && status.Mode == stream.ModePaint {
			ch = r.palette.Swatch(status.Brush).Glyph
		}
		r.screen.SetContent(pointerX, pointerY, ch, tcell.StyleDefault.
			Foreground(r.palette.Cursor()).
			Reverse(true))
	}

	r.RenderMessage(formatStatus(status), vp.Height)
	r.screen.Show()
}

// tileStyle returns the glyph and style for a tile.
func (r *Renderer) tileStyle(t stream.Tile) (rune, tcell.Style) {
	s := r.palette.Swatch(t.Terrain)
	bg := s.Color
	if t.Painted {
		bg = s.Painted
	}
	return s.Glyph, tcell.StyleDefault.Background(bg).Foreground(tcell.ColorBlack)
}

// RenderMessage displays a message at the given row.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, ch := range []rune(msg) {
		r.screen.SetContent(i, y, ch, style)
	}
}

func formatStatus(s Status) string {
	line := fmt.Sprintf("(%d,%d) r=%d live=%d cached=%d seed=%d",
		s.Center.X, s.Center.Y, s.Radius, s.Live, s.Cached, s.Seed)
	if s.Editor {
		line += fmt.Sprintf(" [%s brush=%s]", s.Mode, s.Brush)
	}
	if s.Message != "" {
		line += " " + s.Message
	}
	return line
}
