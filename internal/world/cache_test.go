package world

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

// countingClassifier records how many times each cell was classified.
type countingClassifier struct {
	calls atomic.Int64
	fn    func(c GridCoord) Terrain
}

func (cc *countingClassifier) Classify(c GridCoord) Terrain {
	cc.calls.Add(1)
	return cc.fn(c)
}

func stripes(c GridCoord) Terrain {
	return Terrains()[((c.X%3)+3)%3]
}

func TestGetOrGenerateClassifiesOnce(t *testing.T) {
	cc := &countingClassifier{fn: stripes}
	cache := NewTileCache(cc)
	c := GridCoord{X: 4, Y: -7}

	if cache.Contains(c) {
		t.Fatalf("Contains(%v) on empty cache = true, want false", c)
	}

	first := cache.GetOrGenerate(c)
	for i := 0; i < 10; i++ {
		if got := cache.GetOrGenerate(c); got != first {
			t.Errorf("GetOrGenerate(%v) call %d = %v, want %v", c, i, got, first)
		}
	}

	if n := cc.calls.Load(); n != 1 {
		t.Errorf("classifier called %d times, want 1", n)
	}
	if !cache.Contains(c) {
		t.Errorf("Contains(%v) after generate = false, want true", c)
	}
}

func TestContainsHasNoSideEffects(t *testing.T) {
	cc := &countingClassifier{fn: stripes}
	cache := NewTileCache(cc)

	for i := 0; i < 5; i++ {
		cache.Contains(GridCoord{X: i})
		cache.Peek(GridCoord{X: i})
	}

	if n := cc.calls.Load(); n != 0 {
		t.Errorf("classifier called %d times by peeks, want 0", n)
	}
	if cache.Len() != 0 {
		t.Errorf("Len() after peeks = %d, want 0", cache.Len())
	}
}

func TestOverrideReplacesWithoutClassifying(t *testing.T) {
	cc := &countingClassifier{fn: func(GridCoord) Terrain { return TerrainMountain }}
	cache := NewTileCache(cc)
	c := GridCoord{X: 10, Y: 10}

	if got := cache.GetOrGenerate(c); got != TerrainMountain {
		t.Fatalf("GetOrGenerate(%v) = %v, want mountain", c, got)
	}

	cache.Override(c, TerrainWater)
	if got := cache.GetOrGenerate(c); got != TerrainWater {
		t.Errorf("GetOrGenerate(%v) after override = %v, want water", c, got)
	}

	// Override of an unseen cell inserts it
	fresh := GridCoord{X: -3, Y: 8}
	cache.Override(fresh, TerrainGrass)
	if got, ok := cache.Peek(fresh); !ok || got != TerrainGrass {
		t.Errorf("Peek(%v) = (%v, %v), want (grass, true)", fresh, got, ok)
	}

	if n := cc.calls.Load(); n != 1 {
		t.Errorf("classifier called %d times, want 1", n)
	}
	if !cache.IsPainted(c) || !cache.IsPainted(fresh) {
		t.Error("overridden cells should be marked painted")
	}

	stats := cache.Stats()
	if stats.Entries != 2 || stats.Generated != 1 || stats.Overridden != 2 {
		t.Errorf("Stats() = %+v, want Entries=2 Generated=1 Overridden=2", stats)
	}
}

func TestWarmFillsMissingOnly(t *testing.T) {
	cc := &countingClassifier{fn: stripes}
	cache := NewTileCache(cc)

	painted := GridCoord{X: 1, Y: 1}
	cache.Override(painted, TerrainMountain)

	w, err := NewWindow(GridCoord{}, 3)
	if err != nil {
		t.Fatalf("NewWindow() error = %v", err)
	}

	added, err := cache.Warm(context.Background(), w.Coords(), 4)
	if err != nil {
		t.Fatalf("Warm() error = %v", err)
	}
	if added != w.Size()-1 {
		t.Errorf("Warm() added = %d, want %d", added, w.Size()-1)
	}
	if got, _ := cache.Peek(painted); got != TerrainMountain {
		t.Errorf("Warm() overwrote painted cell: got %v, want mountain", got)
	}

	for _, c := range w.Coords() {
		if c == painted {
			continue
		}
		if got, _ := cache.Peek(c); got != stripes(c) {
			t.Errorf("Peek(%v) after warm = %v, want %v", c, got, stripes(c))
		}
	}

	// A second warm is a no-op
	before := cc.calls.Load()
	added, err = cache.Warm(context.Background(), w.Coords(), 4)
	if err != nil || added != 0 {
		t.Errorf("second Warm() = (%d, %v), want (0, nil)", added, err)
	}
	if cc.calls.Load() != before {
		t.Error("second Warm() classified cached cells")
	}
}

func TestWarmCancelled(t *testing.T) {
	cache := NewTileCache(ClassifierFunc(stripes))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	added, err := cache.Warm(ctx, []GridCoord{{X: 1}, {X: 2}}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Warm() error = %v, want context.Canceled", err)
	}
	if added != 0 || cache.Len() != 0 {
		t.Errorf("cancelled Warm() stored %d entries, want 0", cache.Len())
	}
}

func TestEvictBeyondKeepsPainted(t *testing.T) {
	cache := NewTileCache(ClassifierFunc(stripes))
	near := GridCoord{X: 1, Y: 1}
	far := GridCoord{X: 50, Y: 0}
	farPainted := GridCoord{X: -50, Y: 3}

	cache.GetOrGenerate(near)
	cache.GetOrGenerate(far)
	cache.Override(farPainted, TerrainWater)

	if removed := cache.EvictBeyond(GridCoord{}, 10); removed != 1 {
		t.Errorf("EvictBeyond() = %d, want 1", removed)
	}
	if !cache.Contains(near) {
		t.Errorf("near cell %v evicted", near)
	}
	if cache.Contains(far) {
		t.Errorf("far cell %v kept", far)
	}
	if got, ok := cache.Peek(farPainted); !ok || got != TerrainWater {
		t.Errorf("painted cell %v = (%v, %v), want (water, true)", farPainted, got, ok)
	}

	// Regeneration after eviction is deterministic
	if got := cache.GetOrGenerate(far); got != stripes(far) {
		t.Errorf("regenerated %v = %v, want %v", far, got, stripes(far))
	}
}
