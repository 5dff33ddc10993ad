package world

import (
	"context"
	"time"

	"github.com/sasha-s/go-deadlock"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/samdwyer/tilestream/internal/telemetry"
)

// Classifier decides the terrain of a cell. Implementations must be pure.
type Classifier interface {
	Classify(c GridCoord) Terrain
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(c GridCoord) Terrain

// Classify calls f(c).
func (f ClassifierFunc) Classify(c GridCoord) Terrain {
	return f(c)
}

// CacheStats summarizes cache activity.
type CacheStats struct {
	Entries    int // Cells currently cached
	Generated  int // Cells classified since creation
	Overridden int // Override calls since creation
	Evicted    int // Generated cells dropped by EvictBeyond
}

// TileCache remembers the terrain of every cell that has been classified.
// An entry changes only through Override; streaming never rewrites it.
type TileCache struct {
	mu         deadlock.RWMutex
	tiles      map[GridCoord]Terrain
	painted    map[GridCoord]struct{}
	classifier Classifier
	stats      CacheStats
}

// NewTileCache creates an empty cache backed by the given classifier.
func NewTileCache(classifier Classifier) *TileCache {
	return &TileCache{
		tiles:      make(map[GridCoord]Terrain),
		painted:    make(map[GridCoord]struct{}),
		classifier: classifier,
	}
}

// GetOrGenerate returns the cached terrain for c, classifying and storing it
// on first use.
func (tc *TileCache) GetOrGenerate(c GridCoord) Terrain {
	tc.mu.RLock()
	t, ok := tc.tiles[c]
	tc.mu.RUnlock()
	if ok {
		return t
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()
	// Warm may have filled it while we were waiting for the lock
	if t, ok := tc.tiles[c]; ok {
		return t
	}
	t = tc.classifier.Classify(c)
	tc.tiles[c] = t
	tc.stats.Generated++
	return t
}

// Override replaces (or inserts) the terrain for c without consulting the classifier.
func (tc *TileCache) Override(c GridCoord, t Terrain) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.tiles[c] = t
	tc.painted[c] = struct{}{}
	tc.stats.Overridden++
}

// Contains reports whether c has been cached.
func (tc *TileCache) Contains(c GridCoord) bool {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	_, ok := tc.tiles[c]
	return ok
}

// Peek returns the cached terrain for c without generating it.
func (tc *TileCache) Peek(c GridCoord) (Terrain, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	t, ok := tc.tiles[c]
	return t, ok
}

// IsPainted reports whether c was last written by Override.
func (tc *TileCache) IsPainted(c GridCoord) bool {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	_, ok := tc.painted[c]
	return ok
}

// Len returns the number of cached cells.
func (tc *TileCache) Len() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.tiles)
}

// Stats returns a snapshot of the cache counters.
func (tc *TileCache) Stats() CacheStats {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	s := tc.stats
	s.Entries = len(tc.tiles)
	return s
}

type classified struct {
	coord   GridCoord
	terrain Terrain
}

// Warm classifies every uncached cell in coords using up to workers goroutines
// and stores the results under a single write lock. Cells cached by the time
// of the write-back are left alone. Returns the number of new entries.
func (tc *TileCache) Warm(ctx context.Context, coords []GridCoord, workers int) (int, error) {
	tracer := telemetry.Tracer("world")
	ctx, span := tracer.Start(ctx, "cache.warm")
	defer span.End()

	startTime := time.Now()

	missing := make([]GridCoord, 0, len(coords))
	tc.mu.RLock()
	for _, c := range coords {
		if _, ok := tc.tiles[c]; !ok {
			missing = append(missing, c)
		}
	}
	tc.mu.RUnlock()

	results := make([]classified, len(missing))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, c := range missing {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = classified{coord: c, terrain: tc.classifier.Classify(c)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return 0, err
	}

	added := 0
	tc.mu.Lock()
	for _, r := range results {
		if _, ok := tc.tiles[r.coord]; ok {
			continue
		}
		tc.tiles[r.coord] = r.terrain
		added++
	}
	tc.stats.Generated += added
	tc.mu.Unlock()

	span.SetAttributes(
		attribute.Int("cache.requested", len(coords)),
		attribute.Int("cache.added", added),
		attribute.Int64("cache.warm_ms", time.Since(startTime).Milliseconds()),
	)
	return added, nil
}

// EvictBeyond drops generated cells farther than radius (Chebyshev) from
// center. Painted cells are kept. Returns the number of removed cells.
func (tc *TileCache) EvictBeyond(center GridCoord, radius int) int {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	removed := 0
	for c := range tc.tiles {
		if center.ChebyshevDistance(c) <= radius {
			continue
		}
		if _, ok := tc.painted[c]; ok {
			continue
		}
		delete(tc.tiles, c)
		removed++
	}
	tc.stats.Evicted += removed
	return removed
}
