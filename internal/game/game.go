package game

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/tilestream/internal/entity"
	"github.com/samdwyer/tilestream/internal/gamedata"
	"github.com/samdwyer/tilestream/internal/gen"
	"github.com/samdwyer/tilestream/internal/stream"
	"github.com/samdwyer/tilestream/internal/telemetry"
	"github.com/samdwyer/tilestream/internal/ui"
	"github.com/samdwyer/tilestream/internal/world"
)

// Game wires the camera, reconciler and terminal together.
type Game struct {
	cfg      *Config
	screen   *ui.Screen
	renderer *ui.Renderer
	camera   *entity.Camera
	stream   *stream.Reconciler
	input    *InputManager
	mapper   world.Mapper
	seed     int64
	last     stream.TickStats
	message  string
	running  bool
}

// New creates a game on the terminal.
func New(cfg *Config) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	g, err := newGame(cfg, screen)
	if err != nil {
		screen.Close()
		return nil, err
	}
	return g, nil
}

// newGame builds a game on an already initialized screen.
func newGame(cfg *Config, screen *ui.Screen) (*Game, error) {
	palette, err := gamedata.LoadPalette()
	if err != nil {
		return nil, fmt.Errorf("load palette: %w", err)
	}
	mapper, err := world.NewMapper(cfg.TileSize)
	if err != nil {
		return nil, err
	}
	cache, err := newCache(cfg, cfg.Seed)
	if err != nil {
		return nil, err
	}

	renderer := ui.NewRenderer(screen, palette)
	camera := entity.NewCamera(mgl64.Vec2{}, cfg.TileSize)

	rec, err := stream.New(stream.Options{
		Mapper:      mapper,
		Radius:      cfg.ViewRadius,
		Cache:       cache,
		Renderer:    renderer,
		Pan:         camera,
		Editor:      cfg.Editor,
		Workers:     cfg.Workers,
		EvictRadius: cfg.EvictRadius,
		EvictEvery:  cfg.EvictEvery,
	})
	if err != nil {
		return nil, err
	}

	return &Game{
		cfg:      cfg,
		screen:   screen,
		renderer: renderer,
		camera:   camera,
		stream:   rec,
		input:    NewInputManager(),
		mapper:   mapper,
		seed:     cfg.Seed,
		running:  true,
	}, nil
}

// newCache returns an empty tile cache backed by a classifier for seed.
func newCache(cfg *Config, seed int64) (*world.TileCache, error) {
	cc := cfg.ClassifierConfig()
	cc.Seed = seed
	classifier, err := gen.NewClassifier(cc)
	if err != nil {
		return nil, err
	}
	return world.NewTileCache(classifier), nil
}

// Run executes the main loop until quit or ctx is cancelled.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")

	ctx, initSpan := tracer.Start(ctx, "game.init")
	stats := g.step(ctx, Frame{})
	initSpan.SetAttributes(
		attribute.Int64("world.seed", g.seed),
		attribute.Int("world.view_radius", g.cfg.ViewRadius),
		attribute.Float64("world.tile_size", g.cfg.TileSize),
		attribute.Int("stream.live", stats.Live),
		attribute.Bool("editor.enabled", g.cfg.Editor),
	)
	initSpan.End()

	done := make(chan struct{})
	go g.pollEvents(done)

	ticker := time.NewTicker(g.cfg.TickInterval)
	defer ticker.Stop()

	for g.running {
		select {
		case <-ctx.Done():
			g.running = false
		case <-ticker.C:
			g.step(ctx, g.input.Frame())
		}
	}

	// Cleanup
	g.screen.Close()
	<-done
	return nil
}

// pollEvents feeds terminal events to the input manager until the screen closes.
func (g *Game) pollEvents(done chan<- struct{}) {
	defer close(done)
	for {
		ev := g.screen.PollEvent()
		g.input.HandleEvent(ev)
		if ev == nil {
			return
		}
	}
}

// step applies one frame of input, reconciles and draws.
func (g *Game) step(ctx context.Context, f Frame) stream.TickStats {
	if f.closed || f.JustPressed(ActionQuit) {
		g.running = false
		return g.last
	}
	if f.resized {
		g.screen.Sync()
	}

	if f.JustPressed(ActionReseed) {
		g.reseed(ctx, g.seed+1)
	}
	for range f.Pressed(ActionRadiusUp) {
		g.changeRadius(1)
	}
	for range f.Pressed(ActionRadiusDown) {
		g.changeRadius(-1)
	}

	dx := f.Pressed(ActionMoveRight) - f.Pressed(ActionMoveLeft)
	dy := f.Pressed(ActionMoveUp) - f.Pressed(ActionMoveDown)
	if dx != 0 || dy != 0 {
		g.camera.Move(dx, dy)
	}

	width, height := g.screen.Size()
	vp := ui.NewViewport(g.last.Center, width, height)

	in := stream.Input{Toggle: f.JustPressed(ActionToggleMode)}
	for slot, action := range []Action{ActionBrush1, ActionBrush2, ActionBrush3} {
		if f.JustPressed(action) {
			in.Slot = slot + 1
		}
	}

	px, py, pointerOK := f.Pointer()
	if pointerOK && vp.Contains(px, py) {
		in.Pointer = g.mapper.ToWorld(vp.ToGrid(px, py))
		in.PointerDown = f.IsActive(ActionPointer)
	}

	if cdx, cdy := f.Drag(); cdx != 0 || cdy != 0 {
		// Screen rows grow downward, world y grows upward.
		g.camera.Drag(mgl64.Vec2{float64(cdx), float64(-cdy)}.Mul(g.mapper.TileSize()))
	}

	stats := g.stream.Tick(ctx, g.camera, in)
	g.last = stats

	vp = ui.NewViewport(stats.Center, width, height)
	status := ui.Status{
		Mode:    stats.Mode,
		Editor:  g.cfg.Editor,
		Center:  stats.Center,
		Live:    stats.Live,
		Cached:  stats.Cached,
		Radius:  g.stream.Radius(),
		Seed:    g.seed,
		Message: g.message,
	}
	if ed := g.stream.Editor(); ed != nil {
		status.Brush = ed.Brush()
	}
	g.renderer.Render(vp, px, py, pointerOK, status)
	return stats
}

// reseed swaps in a fresh cache for a new seed. Painted cells are discarded.
func (g *Game) reseed(ctx context.Context, seed int64) {
	tracer := telemetry.Tracer("game")
	_, span := tracer.Start(ctx, "game.reseed")
	defer span.End()

	cache, err := newCache(g.cfg, seed)
	if err != nil {
		span.RecordError(err)
		g.message = err.Error()
		return
	}
	if err := g.stream.Reset(cache); err != nil {
		span.RecordError(err)
		g.message = err.Error()
		return
	}
	span.SetAttributes(
		attribute.Int64("world.old_seed", g.seed),
		attribute.Int64("world.seed", seed),
	)
	g.seed = seed
	g.message = fmt.Sprintf("reseeded %d", seed)
	log.Printf("game: reseeded with %d", seed)
}

// changeRadius adjusts the view radius by delta, clamped at zero.
func (g *Game) changeRadius(delta int) {
	radius := max(g.stream.Radius()+delta, 0)
	if err := g.stream.SetRadius(radius); err != nil {
		g.message = err.Error()
		return
	}
	g.message = ""
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
	}
}
