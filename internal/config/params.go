package config

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownParam = errors.New("config: unknown parameter")

type setter func(c *Config, v float64) bool

// params are the numeric knobs reachable by name. Scene scoped knobs act on
// the sub-config of c.Scene and report false when that scene has no such knob.
var params = map[string]setter{
	"dt":              func(c *Config, v float64) bool { c.Dt = v; return true },
	"gravity":         func(c *Config, v float64) bool { c.Gravity = v; return true },
	"collision_scale": func(c *Config, v float64) bool { c.CollisionScale = v; return true },

	"substeps": func(c *Config, v float64) bool {
		n := int(v)
		switch c.Scene {
		case "cloth":
			c.Cloth.Substeps = n
		case "rope":
			c.Rope.Substeps = n
		case "softbody":
			c.SoftBody.Substeps = n
		default:
			return false
		}
		return true
	},
	"radius": func(c *Config, v float64) bool {
		switch c.Scene {
		case "cloth":
			c.Cloth.Radius = v
		case "rope":
			c.Rope.Radius = v
		case "softbody":
			c.SoftBody.Radius = v
		case "stress":
			c.Stress.Radius = v
		default:
			return false
		}
		return true
	},
	"tether": func(c *Config, v float64) bool {
		switch c.Scene {
		case "cloth":
			c.Cloth.Tether = v
		case "rope":
			c.Rope.Tether = v
		default:
			return false
		}
		return true
	},
	"strain": func(c *Config, v float64) bool {
		if c.Scene != "softbody" {
			return false
		}
		c.SoftBody.Strain = v
		return true
	},
	"spawn_every": func(c *Config, v float64) bool {
		if c.Scene != "stress" {
			return false
		}
		c.Stress.SpawnEvery = int(v)
		return true
	},
}

// SetParam assigns v to the named knob. It does not validate; call Validate
// once every knob is set.
func (c *Config) SetParam(name string, v float64) error {
	set, ok := params[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	if !set(c, v) {
		return fmt.Errorf("%w: %q has no meaning for %s", ErrUnknownParam, name, c.Scene)
	}
	return nil
}

func ParamNames() []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
