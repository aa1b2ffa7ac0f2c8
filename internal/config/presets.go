package config

import "sort"

var Presets = map[string]map[string]func(*Config){
	"cloth": {
		"default": func(c *Config) {},
		"small": func(c *Config) {
			c.Cloth.Width, c.Cloth.Height = 8, 8
		},
		"stiff": func(c *Config) {
			c.Cloth.Tether = 1.0
			c.Cloth.Substeps = 12
		},
	},
	"rope": {
		"default": func(c *Config) {},
		"long": func(c *Config) {
			c.Rope.Count = 30
			c.Rope.Substeps = 20
		},
		"slack": func(c *Config) {
			c.Rope.Tether = 1.5
			c.Rope.Substeps = 4
		},
	},
	"softbody": {
		"default": func(c *Config) {},
		"fragile": func(c *Config) {
			c.SoftBody.Strain = 4
		},
		"tough": func(c *Config) {
			c.SoftBody.Strain = 40
			c.SoftBody.Substeps = 8
		},
		"strand": func(c *Config) {
			c.SoftBody.Shape = "rope"
			c.SoftBody.Width = 24
		},
	},
	"stress": {
		"grid": func(c *Config) {
			c.Stress.Broadphase = "grid"
		},
		"naive": func(c *Config) {
			c.Stress.Broadphase = "naive"
		},
		"burst": func(c *Config) {
			c.Stress.SpawnEvery = 1
			c.Ticks = 1200
		},
	},
}

// GetPreset returns a fresh config for the named scene preset, or nil.
func GetPreset(scene, preset string) *Config {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	apply, ok := scenePresets[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Scene = scene
	apply(cfg)
	return cfg
}

func ListPresets(scene string) []string {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
