package stream

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/samdwyer/tilestream/internal/world"
)

// PanController is the camera-drag collaborator the editor switches on and off.
type PanController interface {
	SetPanEnabled(enabled bool)
}

// Input is one tick's worth of editor input. Toggle and Slot are edge
// triggered; PointerDown and Pointer describe the current pointer state.
type Input struct {
	Toggle      bool       // Mode toggle pressed this tick
	Slot        int        // Brush slot pressed this tick (1-based), 0 for none
	PointerDown bool       // Pointer button held
	Pointer     mgl64.Vec2 // Pointer position in world units
}

// Editor is the pan/paint state machine and the current brush.
type Editor struct {
	mode  Mode
	brush world.Terrain
	pan   PanController
}

// NewEditor creates an editor in pan mode with a grass brush and enables
// panning on the controller. pan may be nil.
func NewEditor(pan PanController) *Editor {
	e := &Editor{
		mode:  ModePan,
		brush: world.TerrainGrass,
		pan:   pan,
	}
	e.syncPan()
	return e
}

// Mode returns the current mode.
func (e *Editor) Mode() Mode {
	return e.mode
}

// Brush returns the terrain that painting writes.
func (e *Editor) Brush() world.Terrain {
	return e.brush
}

// Toggle switches between pan and paint and returns the new mode.
func (e *Editor) Toggle() Mode {
	if e.mode == ModePan {
		e.mode = ModePaint
	} else {
		e.mode = ModePan
	}
	e.syncPan()
	return e.mode
}

// Select sets the brush. Unknown terrains are ignored.
func (e *Editor) Select(t world.Terrain) {
	if t.Valid() {
		e.brush = t
	}
}

// SelectSlot sets the brush from a 1-based slot and reports whether the slot exists.
func (e *Editor) SelectSlot(slot int) bool {
	t, ok := world.TerrainForSlot(slot)
	if ok {
		e.brush = t
	}
	return ok
}

// apply processes the discrete events of one tick.
func (e *Editor) apply(in Input) {
	if in.Toggle {
		e.Toggle()
	}
	if in.Slot != 0 {
		e.SelectSlot(in.Slot)
	}
}

// target returns the cell to paint this tick, if any.
func (e *Editor) target(in Input, m world.Mapper) (world.GridCoord, bool) {
	if e.mode != ModePaint || !in.PointerDown {
		return world.GridCoord{}, false
	}
	return m.ToGrid(in.Pointer), true
}

func (e *Editor) syncPan() {
	if e.pan != nil {
		e.pan.SetPanEnabled(e.mode == ModePan)
	}
}
