package gen

import (
	"errors"
	"fmt"
	"math"

	"github.com/samdwyer/tilestream/internal/world"
)

const (
	// DefaultSeed matches the seed the terrain was first tuned with.
	DefaultSeed = 1000
	// DefaultScale is the number of cells per noise unit.
	DefaultScale = 10.0
)

var (
	// ErrBadThresholds is returned when the water band does not lie below the mountain band.
	ErrBadThresholds = errors.New("water threshold must be below mountain threshold")
	// ErrNoFields is returned when a classifier is configured without noise fields.
	ErrNoFields = errors.New("at least one noise field is required")
	// ErrBadScale is returned for a non-positive or non-finite sampling scale.
	ErrBadScale = errors.New("noise scale must be positive and finite")
)

// Thresholds partition an averaged noise sample into terrain bands.
type Thresholds struct {
	WaterBelow   float64 // Samples below this are water
	MountainFrom float64 // Samples at or above this are mountain
}

// DefaultThresholds returns the standard -0.2 / 0.4 split.
func DefaultThresholds() Thresholds {
	return Thresholds{WaterBelow: -0.2, MountainFrom: 0.4}
}

// Validate checks that the bands are ordered.
func (th Thresholds) Validate() error {
	if !(th.WaterBelow < th.MountainFrom) {
		return fmt.Errorf("%w: %v >= %v", ErrBadThresholds, th.WaterBelow, th.MountainFrom)
	}
	return nil
}

// Classify maps a sample to its terrain band.
func (th Thresholds) Classify(v float64) world.Terrain {
	switch {
	case v < th.WaterBelow:
		return world.TerrainWater
	case v < th.MountainFrom:
		return world.TerrainGrass
	default:
		return world.TerrainMountain
	}
}

// ClassifierConfig describes how a Classifier is built.
type ClassifierConfig struct {
	Seed       int64
	Fields     []string // Field names, see NewField
	Scale      float64  // Cell coordinates are divided by Scale before sampling
	Thresholds Thresholds
}

// DefaultClassifierConfig returns simplex and Perlin averaged at 1/10 scale.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Seed:       DefaultSeed,
		Fields:     []string{FieldSimplex, FieldPerlin},
		Scale:      DefaultScale,
		Thresholds: DefaultThresholds(),
	}
}

// Classifier turns a cell into a terrain category by averaging noise fields.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	fields     []Field
	scale      float64
	thresholds Thresholds
}

// NewClassifier builds a classifier from its configuration.
func NewClassifier(cfg ClassifierConfig) (*Classifier, error) {
	fields := make([]Field, 0, len(cfg.Fields))
	for _, name := range cfg.Fields {
		f, err := NewField(name, cfg.Seed)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return NewClassifierFromFields(fields, cfg.Scale, cfg.Thresholds)
}

// NewClassifierFromFields builds a classifier over already constructed fields.
func NewClassifierFromFields(fields []Field, scale float64, th Thresholds) (*Classifier, error) {
	if len(fields) == 0 {
		return nil, ErrNoFields
	}
	if scale <= 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		return nil, fmt.Errorf("%w: %v", ErrBadScale, scale)
	}
	if err := th.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{
		fields:     fields,
		scale:      scale,
		thresholds: th,
	}, nil
}

// Sample returns the averaged noise value for a cell.
func (c *Classifier) Sample(coord world.GridCoord) float64 {
	x := float64(coord.X) / c.scale
	y := float64(coord.Y) / c.scale

	sum := 0.0
	for _, f := range c.fields {
		sum += f.Sample(x, y)
	}
	return sum / float64(len(c.fields))
}

// Classify returns the terrain for a cell.
func (c *Classifier) Classify(coord world.GridCoord) world.Terrain {
	return c.thresholds.Classify(c.Sample(coord))
}
