// Package stream keeps the set of displayed tiles in step with a moving viewpoint.
package stream

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zyedidia/generic/mapset"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/tilestream/internal/telemetry"
	"github.com/samdwyer/tilestream/internal/world"
)

var (
	// ErrDuplicateSpawn is the panic value (wrapped) when a live cell is spawned again.
	ErrDuplicateSpawn = errors.New("cell is already live")
	// ErrNilRenderer is returned by New when no renderer is supplied.
	ErrNilRenderer = errors.New("renderer is required")
	// ErrNilCache is returned by New and Reset when no cache is supplied.
	ErrNilCache = errors.New("tile cache is required")
	// ErrBadEviction is returned when eviction settings are inconsistent.
	ErrBadEviction = errors.New("evict radius must not be below the view radius")
)

// Tile is a displayed cell as handed to the renderer.
type Tile struct {
	Coord   world.GridCoord
	Pos     mgl64.Vec2 // World-space center
	Terrain world.Terrain
	Painted bool // Terrain came from the editor, not the classifier
}

// Renderer creates and destroys on-screen tiles.
type Renderer interface {
	Spawn(t Tile)
	Despawn(c world.GridCoord)
}

// Viewpoint reports the camera position. ok is false when there is no camera.
type Viewpoint interface {
	Viewpoint() (pos mgl64.Vec2, ok bool)
}

// Options configures a Reconciler.
type Options struct {
	Mapper   world.Mapper
	Radius   int
	Cache    *world.TileCache
	Renderer Renderer
	Pan      PanController

	// Editor enables the pan/paint editor.
	Editor bool

	// Workers above 1 classify newly visible cells in parallel before spawning.
	Workers int

	// EvictRadius > 0 drops cached cells beyond that distance every EvictEvery ticks.
	EvictRadius int
	EvictEvery  int
}

// TickStats summarizes one reconciliation pass.
type TickStats struct {
	Tick             uint64
	Center           world.GridCoord
	Spawned          int
	Despawned        int
	Live             int
	Cached           int
	Painted          bool
	PaintedAt        world.GridCoord
	Evicted          int
	DefaultViewpoint bool
	Mode             Mode
}

// Reconciler diffs the visibility window against the live set each tick.
type Reconciler struct {
	mapper      world.Mapper
	radius      int
	cache       *world.TileCache
	renderer    Renderer
	editor      *Editor
	live        mapset.Set[world.GridCoord]
	window      world.Window
	workers     int
	evictRadius int
	evictEvery  int
	tick        uint64
}

// New validates opts and returns a reconciler with an empty live set.
func New(opts Options) (*Reconciler, error) {
	if opts.Renderer == nil {
		return nil, ErrNilRenderer
	}
	if opts.Cache == nil {
		return nil, ErrNilCache
	}
	if opts.Mapper.TileSize() <= 0 {
		return nil, world.ErrInvalidTileSize
	}
	window, err := world.NewWindow(world.GridCoord{}, opts.Radius)
	if err != nil {
		return nil, err
	}
	if opts.EvictRadius > 0 && opts.EvictRadius < opts.Radius {
		return nil, fmt.Errorf("%w: %d < %d", ErrBadEviction, opts.EvictRadius, opts.Radius)
	}

	r := &Reconciler{
		mapper:      opts.Mapper,
		radius:      opts.Radius,
		cache:       opts.Cache,
		renderer:    opts.Renderer,
		live:        mapset.New[world.GridCoord](),
		window:      window,
		workers:     opts.Workers,
		evictRadius: opts.EvictRadius,
		evictEvery:  opts.EvictEvery,
	}
	if r.evictEvery <= 0 {
		r.evictEvery = 1
	}
	if opts.Editor {
		r.editor = NewEditor(opts.Pan)
	}
	return r, nil
}

// Tick runs one pass: editor events, window, despawn, spawn, paint, eviction.
// A nil view or a view without a camera is treated as the origin.
func (r *Reconciler) Tick(ctx context.Context, view Viewpoint, in Input) TickStats {
	tracer := telemetry.Tracer("stream")
	ctx, span := tracer.Start(ctx, "stream.tick")
	defer span.End()

	r.tick++
	stats := TickStats{Tick: r.tick, Mode: ModePan}

	if r.editor != nil {
		r.editor.apply(in)
		stats.Mode = r.editor.Mode()
	}

	var pos mgl64.Vec2
	ok := false
	if view != nil {
		pos, ok = view.Viewpoint()
	}
	if !ok {
		stats.DefaultViewpoint = true
	}
	center := r.mapper.ToGrid(pos)
	r.window = world.Window{Center: center, Radius: r.radius}
	stats.Center = center

	var stale []world.GridCoord
	r.live.Each(func(c world.GridCoord) {
		if !r.window.Contains(c) {
			stale = append(stale, c)
		}
	})
	for _, c := range stale {
		r.despawn(c)
	}
	stats.Despawned = len(stale)

	var fresh []world.GridCoord
	r.window.Each(func(c world.GridCoord) {
		if !r.live.Has(c) {
			fresh = append(fresh, c)
		}
	})
	if r.workers > 1 && len(fresh) > 1 {
		if _, err := r.cache.Warm(ctx, fresh, r.workers); err != nil {
			log.Printf("stream: warm failed, classifying inline: %v", err)
		}
	}
	for _, c := range fresh {
		r.spawn(c)
	}
	stats.Spawned = len(fresh)

	if r.editor != nil {
		if target, paint := r.editor.target(in, r.mapper); paint {
			stats.Painted = true
			stats.PaintedAt = target
			if r.paint(target, r.editor.Brush()) {
				stats.Despawned++
				stats.Spawned++
			}
		}
	}

	if r.evictRadius > 0 && r.tick%uint64(r.evictEvery) == 0 {
		radius := max(r.evictRadius, r.radius)
		stats.Evicted = r.cache.EvictBeyond(center, radius)
	}

	stats.Live = r.live.Size()
	stats.Cached = r.cache.Len()

	span.SetAttributes(
		attribute.Int64("stream.tick", int64(stats.Tick)),
		attribute.Int("stream.center_x", center.X),
		attribute.Int("stream.center_y", center.Y),
		attribute.Int("stream.spawned", stats.Spawned),
		attribute.Int("stream.despawned", stats.Despawned),
		attribute.Int("stream.live", stats.Live),
		attribute.Int("stream.cached", stats.Cached),
		attribute.Bool("stream.painted", stats.Painted),
		attribute.Bool("stream.default_viewpoint", stats.DefaultViewpoint),
		attribute.String("stream.mode", stats.Mode.String()),
	)
	return stats
}

// paint overrides the cell and respawns it if it is live and changed.
// Returns true when a respawn happened.
func (r *Reconciler) paint(c world.GridCoord, t world.Terrain) bool {
	prev, cached := r.cache.Peek(c)
	r.cache.Override(c, t)
	if !r.live.Has(c) || (cached && prev == t) {
		return false
	}
	r.despawn(c)
	r.spawn(c)
	return true
}

func (r *Reconciler) spawn(c world.GridCoord) {
	if r.live.Has(c) {
		panic(fmt.Errorf("%w: %v", ErrDuplicateSpawn, c))
	}
	terrain := r.cache.GetOrGenerate(c)
	r.renderer.Spawn(Tile{
		Coord:   c,
		Pos:     r.mapper.ToWorld(c),
		Terrain: terrain,
		Painted: r.cache.IsPainted(c),
	})
	r.live.Put(c)
}

func (r *Reconciler) despawn(c world.GridCoord) {
	r.renderer.Despawn(c)
	r.live.Remove(c)
}

// Editor returns the editor, or nil when editing is disabled.
func (r *Reconciler) Editor() *Editor {
	return r.editor
}

// Window returns the window computed by the last tick.
func (r *Reconciler) Window() world.Window {
	return r.window
}

// Radius returns the view radius in tiles.
func (r *Reconciler) Radius() int {
	return r.radius
}

// Mapper returns the coordinate mapper.
func (r *Reconciler) Mapper() world.Mapper {
	return r.mapper
}

// Cache returns the current tile cache.
func (r *Reconciler) Cache() *world.TileCache {
	return r.cache
}

// IsLive returns true if c is currently displayed.
func (r *Reconciler) IsLive(c world.GridCoord) bool {
	return r.live.Has(c)
}

// Live returns a copy of the displayed coordinates.
func (r *Reconciler) Live() []world.GridCoord {
	out := make([]world.GridCoord, 0, r.live.Size())
	r.live.Each(func(c world.GridCoord) {
		out = append(out, c)
	})
	return out
}

// LiveCount returns the number of displayed tiles.
func (r *Reconciler) LiveCount() int {
	return r.live.Size()
}

// SetRadius changes the view radius. The next tick converges to it.
func (r *Reconciler) SetRadius(radius int) error {
	if radius < 0 {
		return world.ErrNegativeRadius
	}
	if r.evictRadius > 0 && r.evictRadius < radius {
		return fmt.Errorf("%w: %d < %d", ErrBadEviction, r.evictRadius, radius)
	}
	r.radius = radius
	return nil
}

// Clear despawns every live tile. Returns the number removed.
func (r *Reconciler) Clear() int {
	live := r.Live()
	for _, c := range live {
		r.despawn(c)
	}
	return len(live)
}

// Reset clears the display and switches to cache. The next tick repopulates
// the window from it.
func (r *Reconciler) Reset(cache *world.TileCache) error {
	if cache == nil {
		return ErrNilCache
	}
	n := r.Clear()
	r.cache = cache
	log.Printf("stream: reset, cleared %d live tiles", n)
	return nil
}
