package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/scene"
)

func TestContainment(t *testing.T) {
	s, err := scene.New("cloth", config.GetPreset("cloth", "small"))
	if err != nil {
		t.Fatal(err)
	}
	c := NewContainment(1.0)

	if c.Value() != 1 {
		t.Errorf("Value() before observing = %v, want 1", c.Value())
	}

	c.Observe(s)
	s.World().Particle(0).Position.X = math.NaN()
	c.Observe(s)

	if got := c.Value(); got != 0.5 {
		t.Errorf("Value() = %v, want 0.5", got)
	}
}

func TestMaxPenetrationSampling(t *testing.T) {
	s, err := scene.New("rope", config.GetPreset("rope", "default"))
	if err != nil {
		t.Fatal(err)
	}
	m := NewMaxPenetration(3)

	m.Observe(s)
	s.World().Particle(1).Position = s.World().Particle(0).Position
	m.Observe(s)
	if m.Value() != 0 {
		t.Errorf("unsampled observation counted: %v", m.Value())
	}

	m.Observe(s)
	m.Observe(s)
	if got := m.Value(); math.Abs(got-0.8) > 1e-12 {
		t.Errorf("Value() = %v, want 0.8", got)
	}
}
