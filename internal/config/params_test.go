package config

import (
	"errors"
	"testing"
)

func TestSetParam(t *testing.T) {
	tests := []struct {
		scene string
		param string
		value float64
		check func(*Config) bool
	}{
		{"cloth", "dt", 0.01, func(c *Config) bool { return c.Dt == 0.01 }},
		{"rope", "gravity", 0, func(c *Config) bool { return c.Gravity == 0 }},
		{"stress", "collision_scale", 0.5, func(c *Config) bool { return c.CollisionScale == 0.5 }},
		{"cloth", "substeps", 8, func(c *Config) bool { return c.Cloth.Substeps == 8 }},
		{"rope", "substeps", 3, func(c *Config) bool { return c.Rope.Substeps == 3 }},
		{"softbody", "radius", 0.3, func(c *Config) bool { return c.SoftBody.Radius == 0.3 }},
		{"stress", "radius", 0.6, func(c *Config) bool { return c.Stress.Radius == 0.6 }},
		{"rope", "tether", 1.5, func(c *Config) bool { return c.Rope.Tether == 1.5 }},
		{"softbody", "strain", 2, func(c *Config) bool { return c.SoftBody.Strain == 2 }},
		{"stress", "spawn_every", 2, func(c *Config) bool { return c.Stress.SpawnEvery == 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.scene+"/"+tt.param, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Scene = tt.scene
			if err := cfg.SetParam(tt.param, tt.value); err != nil {
				t.Fatal(err)
			}
			if !tt.check(cfg) {
				t.Errorf("%s was not applied", tt.param)
			}
		})
	}
}

func TestSetParamUnknown(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.SetParam("viscosity", 1); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("error = %v, want ErrUnknownParam", err)
	}

	cfg.Scene = "stress"
	if err := cfg.SetParam("substeps", 2); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("stress substeps: error = %v, want ErrUnknownParam", err)
	}
	cfg.Scene = "cloth"
	if err := cfg.SetParam("strain", 2); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("cloth strain: error = %v, want ErrUnknownParam", err)
	}
}

func TestParamNamesSorted(t *testing.T) {
	names := ParamNames()
	if len(names) != len(params) {
		t.Fatalf("got %d names, want %d", len(names), len(params))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("not sorted: %v", names)
		}
	}
}
