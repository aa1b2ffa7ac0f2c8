package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = 1.0 / 60
	DefaultTicks       = 600
	DefaultRecordEvery = 10
	DefaultGravity     = 9.8
	DefaultScale       = 1.0
)

var (
	ErrUnknownScene      = errors.New("config: unknown scene")
	ErrUnknownBroadphase = errors.New("config: unknown broadphase")
	ErrInvalidValue      = errors.New("config: invalid value")
)

var (
	sceneNames  = []string{"cloth", "rope", "softbody", "stress"}
	broadphases = map[string]bool{"grid": true, "naive": true}
	shapes      = map[string]bool{"sheet": true, "rope": true}
)

type Config struct {
	Scene          string         `yaml:"scene"`
	Dt             float64        `yaml:"dt"`
	Ticks          int            `yaml:"ticks"`
	RecordEvery    int            `yaml:"record_every"`
	Seed           int64          `yaml:"seed"`
	Gravity        float64        `yaml:"gravity"`
	CollisionScale float64        `yaml:"collision_scale"`
	Cloth          ClothConfig    `yaml:"cloth"`
	Rope           RopeConfig     `yaml:"rope"`
	SoftBody       SoftBodyConfig `yaml:"softbody"`
	Stress         StressConfig   `yaml:"stress"`
}

type ClothConfig struct {
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	Radius   float64 `yaml:"radius"`
	Tether   float64 `yaml:"tether"`
	Substeps int     `yaml:"substeps"`
	Bound    float64 `yaml:"bound"`
	Ball     float64 `yaml:"ball"`
}

type RopeConfig struct {
	Count    int     `yaml:"count"`
	Capacity int     `yaml:"capacity"`
	Radius   float64 `yaml:"radius"`
	Tether   float64 `yaml:"tether"`
	Substeps int     `yaml:"substeps"`
}

// SoftBodyConfig builds either a pinned sheet or, with Shape "rope", a single
// strand of Width particles hanging from its first one.
type SoftBodyConfig struct {
	Shape      string  `yaml:"shape"`
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Spacing    float64 `yaml:"spacing"`
	Radius     float64 `yaml:"radius"`
	RestLength float64 `yaml:"rest_length"`
	Strain     float64 `yaml:"strain"`
	Box        float64 `yaml:"box"`
	Substeps   int     `yaml:"substeps"`
}

type StressConfig struct {
	Capacity   int     `yaml:"capacity"`
	SpawnEvery int     `yaml:"spawn_every"`
	SpawnY     float64 `yaml:"spawn_y"`
	Jitter     float64 `yaml:"jitter"`
	Radius     float64 `yaml:"radius"`
	Box        float64 `yaml:"box"`
	Broadphase string  `yaml:"broadphase"`
	MaxPerCell int     `yaml:"max_per_cell"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:          "cloth",
		Dt:             DefaultDt,
		Ticks:          DefaultTicks,
		RecordEvery:    DefaultRecordEvery,
		Gravity:        DefaultGravity,
		CollisionScale: DefaultScale,
		Cloth: ClothConfig{
			Width:    14,
			Height:   14,
			Radius:   0.4,
			Tether:   1.1,
			Substeps: 4,
			Bound:    15,
			Ball:     1,
		},
		Rope: RopeConfig{
			Count:    10,
			Capacity: 1024,
			Radius:   0.4,
			Tether:   1,
			Substeps: 10,
		},
		SoftBody: SoftBodyConfig{
			Shape:      "sheet",
			Width:      20,
			Height:     20,
			Spacing:    0.5,
			Radius:     0.2,
			RestLength: 0.5,
			Strain:     10,
			Box:        10,
			Substeps:   4,
		},
		Stress: StressConfig{
			Capacity:   1000,
			SpawnEvery: 4,
			SpawnY:     10,
			Jitter:     0.2,
			Radius:     0.4,
			Box:        20,
			Broadphase: "grid",
			MaxPerCell: 256,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first field that would make a scene unbuildable.
func (c *Config) Validate() error {
	known := false
	for _, s := range sceneNames {
		if s == c.Scene {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: %q", ErrUnknownScene, c.Scene)
	}
	if !(c.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalidValue, c.Dt)
	}
	if c.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive, got %d", ErrInvalidValue, c.Ticks)
	}
	if c.RecordEvery < 0 {
		return fmt.Errorf("%w: record_every must not be negative", ErrInvalidValue)
	}
	if !(c.CollisionScale > 0) {
		return fmt.Errorf("%w: collision_scale must be positive, got %v", ErrInvalidValue, c.CollisionScale)
	}

	switch c.Scene {
	case "cloth":
		if c.Cloth.Width <= 0 || c.Cloth.Height <= 0 {
			return fmt.Errorf("%w: cloth dimensions %dx%d", ErrInvalidValue, c.Cloth.Width, c.Cloth.Height)
		}
	case "rope":
		if c.Rope.Count <= 0 || c.Rope.Capacity < c.Rope.Count {
			return fmt.Errorf("%w: rope count %d capacity %d", ErrInvalidValue, c.Rope.Count, c.Rope.Capacity)
		}
	case "softbody":
		if c.SoftBody.Width <= 0 || c.SoftBody.Height <= 0 {
			return fmt.Errorf("%w: softbody dimensions %dx%d", ErrInvalidValue, c.SoftBody.Width, c.SoftBody.Height)
		}
		if !shapes[c.SoftBody.Shape] {
			return fmt.Errorf("%w: softbody shape %q", ErrInvalidValue, c.SoftBody.Shape)
		}
	case "stress":
		if c.Stress.Capacity <= 0 || c.Stress.SpawnEvery <= 0 {
			return fmt.Errorf("%w: stress capacity %d spawn_every %d", ErrInvalidValue, c.Stress.Capacity, c.Stress.SpawnEvery)
		}
		if !broadphases[c.Stress.Broadphase] {
			return fmt.Errorf("%w: %q", ErrUnknownBroadphase, c.Stress.Broadphase)
		}
	}
	return nil
}
