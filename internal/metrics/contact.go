package metrics

import (
	"math"

	"github.com/san-kum/verletsim/internal/scene"
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/verlet"
)

// MaxPenetration tracks the deepest overlap between any two particles. The
// pair scan is quadratic, so it only samples every Nth observation.
type MaxPenetration struct {
	name  string
	every int
	calls int
	max   float64
}

func NewMaxPenetration(every int) *MaxPenetration {
	if every < 1 {
		every = 1
	}
	return &MaxPenetration{name: "max_penetration", every: every}
}

func (m *MaxPenetration) Name() string { return m.name }

func (m *MaxPenetration) Observe(s scene.Scene) {
	m.calls++
	if (m.calls-1)%m.every != 0 {
		return
	}
	m.max = math.Max(m.max, Penetration(s.World()))
}

func (m *MaxPenetration) Value() float64 { return m.max }

func (m *MaxPenetration) Reset() {
	m.calls = 0
	m.max = 0
}

// Penetration returns the deepest current overlap in w.
func Penetration(w *verlet.World) float64 {
	ps := w.Particles()
	deepest := 0.0
	for i := range ps {
		for e := 0; e < i; e++ {
			d := ps[i].Position.Sub(ps[e].Position).Len()
			deepest = math.Max(deepest, ps[i].Radius+ps[e].Radius-d)
		}
	}
	return deepest
}

type BrokenLinks struct{ count int }

func NewBrokenLinks() *BrokenLinks { return &BrokenLinks{} }

func (b *BrokenLinks) Name() string { return "broken_links" }

func (b *BrokenLinks) Observe(s scene.Scene) {
	if l := s.Links(); l != nil {
		b.count = l.BrokenCount()
	}
}

func (b *BrokenLinks) Value() float64 { return float64(b.count) }
func (b *BrokenLinks) Reset()         { b.count = 0 }

type ParticleCount struct{ count int }

func NewParticleCount() *ParticleCount { return &ParticleCount{} }

func (p *ParticleCount) Name() string          { return "particles" }
func (p *ParticleCount) Observe(s scene.Scene) { p.count = s.World().Len() }
func (p *ParticleCount) Value() float64        { return float64(p.count) }
func (p *ParticleCount) Reset()                { p.count = 0 }

// Default returns a fresh set of the standard metrics.
func Default() []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewMaxPenetration(10),
		NewBrokenLinks(),
		NewParticleCount(),
		NewContainment(1.5),
	}
}
