package entity

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCameraMove(t *testing.T) {
	c := NewCamera(mgl64.Vec2{0, 0}, 32)

	tests := []struct {
		dx, dy   int
		expected mgl64.Vec2
	}{
		{1, 0, mgl64.Vec2{32, 0}},
		{0, 1, mgl64.Vec2{32, 32}},
		{-2, -1, mgl64.Vec2{-32, 0}},
	}

	for _, tt := range tests {
		if !c.Move(tt.dx, tt.dy) {
			t.Fatalf("Move(%d, %d) = false with panning enabled", tt.dx, tt.dy)
		}
		if !c.Position.ApproxEqual(tt.expected) {
			t.Errorf("after Move(%d, %d) Position = %v, want %v", tt.dx, tt.dy, c.Position, tt.expected)
		}
	}
}

func TestCameraDragMovesAgainstPointer(t *testing.T) {
	c := NewCamera(mgl64.Vec2{100, 100}, 32)

	c.Drag(mgl64.Vec2{64, -32})

	if want := (mgl64.Vec2{36, 132}); !c.Position.ApproxEqual(want) {
		t.Errorf("Position = %v, want %v", c.Position, want)
	}
}

func TestCameraPanDisabled(t *testing.T) {
	c := NewCamera(mgl64.Vec2{5, 5}, 32)
	c.SetPanEnabled(false)

	if c.PanEnabled() {
		t.Error("PanEnabled() = true after SetPanEnabled(false)")
	}
	if c.Move(1, 1) {
		t.Error("Move() = true with panning disabled")
	}
	if c.Drag(mgl64.Vec2{10, 10}) {
		t.Error("Drag() = true with panning disabled")
	}
	if want := (mgl64.Vec2{5, 5}); c.Position != want {
		t.Errorf("Position = %v, want %v", c.Position, want)
	}

	c.SetPanEnabled(true)
	if !c.Move(1, 0) {
		t.Error("Move() = false after re-enabling panning")
	}
}

func TestCameraViewpoint(t *testing.T) {
	c := NewCamera(mgl64.Vec2{-8, 3}, 1)
	if pos, ok := c.Viewpoint(); !ok || pos != c.Position {
		t.Errorf("Viewpoint() = %v, %v, want %v, true", pos, ok, c.Position)
	}

	var missing *Camera
	if _, ok := missing.Viewpoint(); ok {
		t.Error("nil camera Viewpoint() ok = true, want false")
	}
}
