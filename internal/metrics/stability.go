package metrics

import "github.com/san-kum/verletsim/internal/scene"

// Containment is the fraction of observed ticks on which every particle was
// finite and within margin times the scene extent.
type Containment struct {
	name       string
	margin     float64
	violations int
	samples    int
}

func NewContainment(margin float64) *Containment {
	return &Containment{
		name:   "containment",
		margin: margin,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(s scene.Scene) {
	c.samples++
	limit := s.Extent() * c.margin
	for _, p := range s.World().Particles() {
		if !p.Position.IsValid() || p.Position.Len() > limit {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
