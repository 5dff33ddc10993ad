package game

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/samdwyer/tilestream/internal/gen"
	"github.com/samdwyer/tilestream/internal/world"
)

// envPrefix is prepended to every configuration variable name.
const envPrefix = "TILESTREAM_"

// Config holds runtime configuration options.
type Config struct {
	// Seed for the noise fields. The same seed always produces the same world.
	Seed int64

	TileSize   float64 // World units per tile edge
	ViewRadius int     // Chebyshev radius of the visible window in tiles

	NoiseScale   float64  // Grid coordinates are divided by this before sampling
	Noise        []string // Noise fields to average (simplex, perlin, value)
	WaterBelow   float64  // Samples below this are water
	MountainFrom float64  // Samples at or above this are mountain

	Editor bool // Enable the pan/paint editor

	EvictRadius int // Drop cached cells beyond this radius; 0 keeps everything
	EvictEvery  int // Ticks between eviction passes

	TickInterval time.Duration // Time between reconciliation ticks
	Workers      int           // Parallel classifiers for newly visible cells

	Telemetry bool   // Export traces over OTLP
	LogFile   string // Redirect log output here while the screen is active
}

// DefaultConfig returns a Config with the world's stock settings.
func DefaultConfig() *Config {
	th := gen.DefaultThresholds()
	return &Config{
		Seed:         gen.DefaultSeed,
		TileSize:     world.DefaultTileSize,
		ViewRadius:   world.DefaultViewRadius,
		NoiseScale:   gen.DefaultScale,
		Noise:        []string{gen.FieldSimplex, gen.FieldPerlin},
		WaterBelow:   th.WaterBelow,
		MountainFrom: th.MountainFrom,
		Editor:       true,
		EvictEvery:   60,
		TickInterval: 33 * time.Millisecond,
		Workers:      4,
	}
}

// LoadConfig returns DefaultConfig overridden by TILESTREAM_* environment
// variables. Malformed values are reported together.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()
	var errs []error

	envInt64(&errs, "SEED", &cfg.Seed)
	envFloat(&errs, "TILE_SIZE", &cfg.TileSize)
	envInt(&errs, "VIEW_RADIUS", &cfg.ViewRadius)
	envFloat(&errs, "NOISE_SCALE", &cfg.NoiseScale)
	if v, ok := lookup("NOISE"); ok {
		cfg.Noise = splitList(v)
	}
	envFloat(&errs, "WATER_BELOW", &cfg.WaterBelow)
	envFloat(&errs, "MOUNTAIN_FROM", &cfg.MountainFrom)
	envBool(&errs, "EDITOR", &cfg.Editor)
	envInt(&errs, "EVICT_RADIUS", &cfg.EvictRadius)
	envInt(&errs, "EVICT_EVERY", &cfg.EvictEvery)
	var tickMS int
	if envInt(&errs, "TICK_MS", &tickMS) {
		cfg.TickInterval = time.Duration(tickMS) * time.Millisecond
	}
	envInt(&errs, "WORKERS", &cfg.Workers)
	envBool(&errs, "TELEMETRY", &cfg.Telemetry)
	if v, ok := lookup("LOG_FILE"); ok {
		cfg.LogFile = v
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every setting that cannot be used.
func (c *Config) Validate() error {
	var errs []error
	if c.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("tile size %v: %w", c.TileSize, world.ErrInvalidTileSize))
	}
	if c.ViewRadius < 0 {
		errs = append(errs, fmt.Errorf("view radius %d: %w", c.ViewRadius, world.ErrNegativeRadius))
	}
	if _, err := gen.NewClassifier(c.ClassifierConfig()); err != nil {
		errs = append(errs, err)
	}
	if c.EvictRadius < 0 {
		errs = append(errs, fmt.Errorf("evict radius %d must not be negative", c.EvictRadius))
	}
	if c.EvictRadius > 0 && c.EvictRadius < c.ViewRadius {
		errs = append(errs, fmt.Errorf("evict radius %d is inside view radius %d", c.EvictRadius, c.ViewRadius))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick interval %v must be positive", c.TickInterval))
	}
	return errors.Join(errs...)
}

// ClassifierConfig returns the terrain classifier settings.
func (c *Config) ClassifierConfig() gen.ClassifierConfig {
	return gen.ClassifierConfig{
		Seed:   c.Seed,
		Fields: c.Noise,
		Scale:  c.NoiseScale,
		Thresholds: gen.Thresholds{
			WaterBelow:   c.WaterBelow,
			MountainFrom: c.MountainFrom,
		},
	}
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func envInt(errs *[]error, name string, dst *int) bool {
	v, ok := lookup(name)
	if !ok {
		return false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
		return false
	}
	*dst = n
	return true
}

func envInt64(errs *[]error, name string, dst *int64) {
	v, ok := lookup(name)
	if !ok {
		return
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
		return
	}
	*dst = n
}

func envFloat(errs *[]error, name string, dst *float64) {
	v, ok := lookup(name)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
		return
	}
	*dst = f
}

func envBool(errs *[]error, name string, dst *bool) {
	v, ok := lookup(name)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
		return
	}
	*dst = b
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
