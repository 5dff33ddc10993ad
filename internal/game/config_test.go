package game

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/samdwyer/tilestream/internal/gen"
	"github.com/samdwyer/tilestream/internal/world"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Seed != 1000 {
		t.Errorf("Seed = %d, want 1000", cfg.Seed)
	}
	if cfg.TileSize != 32 {
		t.Errorf("TileSize = %v, want 32", cfg.TileSize)
	}
	if cfg.ViewRadius != 60 {
		t.Errorf("ViewRadius = %d, want 60", cfg.ViewRadius)
	}
	if !reflect.DeepEqual(cfg.Noise, []string{gen.FieldSimplex, gen.FieldPerlin}) {
		t.Errorf("Noise = %v, want [simplex perlin]", cfg.Noise)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("TILESTREAM_SEED", "42")
	t.Setenv("TILESTREAM_TILE_SIZE", "16")
	t.Setenv("TILESTREAM_VIEW_RADIUS", "12")
	t.Setenv("TILESTREAM_NOISE_SCALE", "20.5")
	t.Setenv("TILESTREAM_NOISE", " Value , simplex,,")
	t.Setenv("TILESTREAM_WATER_BELOW", "-0.1")
	t.Setenv("TILESTREAM_MOUNTAIN_FROM", "0.6")
	t.Setenv("TILESTREAM_EDITOR", "false")
	t.Setenv("TILESTREAM_EVICT_RADIUS", "30")
	t.Setenv("TILESTREAM_TICK_MS", "50")
	t.Setenv("TILESTREAM_WORKERS", "8")
	t.Setenv("TILESTREAM_TELEMETRY", "1")
	t.Setenv("TILESTREAM_LOG_FILE", "/tmp/tilestream.log")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	want := DefaultConfig()
	want.Seed = 42
	want.TileSize = 16
	want.ViewRadius = 12
	want.NoiseScale = 20.5
	want.Noise = []string{"value", "simplex"}
	want.WaterBelow = -0.1
	want.MountainFrom = 0.6
	want.Editor = false
	want.EvictRadius = 30
	want.TickInterval = 50 * time.Millisecond
	want.Workers = 8
	want.Telemetry = true
	want.LogFile = "/tmp/tilestream.log"

	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("LoadConfig() = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfigIgnoresBlank(t *testing.T) {
	t.Setenv("TILESTREAM_SEED", "  ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Seed != gen.DefaultSeed {
		t.Errorf("Seed = %d, want default %d", cfg.Seed, gen.DefaultSeed)
	}
}

func TestLoadConfigReportsAllBadValues(t *testing.T) {
	t.Setenv("TILESTREAM_SEED", "abc")
	t.Setenv("TILESTREAM_EDITOR", "maybe")
	t.Setenv("TILESTREAM_TILE_SIZE", "big")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("LoadConfig() error = nil, want error")
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("LoadConfig() error %T does not wrap multiple errors", err)
	}
	if n := len(joined.Unwrap()); n != 3 {
		t.Errorf("LoadConfig() reported %d errors, want 3: %v", n, err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		err    error
	}{
		{"zero tile size", func(c *Config) { c.TileSize = 0 }, world.ErrInvalidTileSize},
		{"negative radius", func(c *Config) { c.ViewRadius = -1 }, world.ErrNegativeRadius},
		{"no noise", func(c *Config) { c.Noise = nil }, gen.ErrNoFields},
		{"unknown noise", func(c *Config) { c.Noise = []string{"cellular"} }, gen.ErrUnknownField},
		{"bad scale", func(c *Config) { c.NoiseScale = -1 }, gen.ErrBadScale},
		{"bands overlap", func(c *Config) { c.WaterBelow = 0.5 }, gen.ErrBadThresholds},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); !errors.Is(err, tt.err) {
			t.Errorf("%s: Validate() error = %v, want %v", tt.name, err, tt.err)
		}
	}

	others := []struct {
		name   string
		mutate func(*Config)
	}{
		{"evict inside window", func(c *Config) { c.EvictRadius = 10 }},
		{"negative evict", func(c *Config) { c.EvictRadius = -5 }},
		{"zero tick", func(c *Config) { c.TickInterval = 0 }},
	}
	for _, tt := range others {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate() error = nil, want error", tt.name)
		}
	}
}
