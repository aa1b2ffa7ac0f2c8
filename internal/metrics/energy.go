package metrics

import (
	"github.com/san-kum/verletsim/internal/scene"
	"github.com/san-kum/verletsim/internal/verlet"
)

// KineticEnergy averages the unit-mass kinetic energy of the World over
// every observed tick, with velocities inferred from position history.
type KineticEnergy struct {
	name        string
	samples     int
	totalEnergy float64
	last        float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(s scene.Scene) {
	e.last = Kinetic(s.World())
	e.totalEnergy += e.last
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

// Last is the energy at the most recent observation.
func (e *KineticEnergy) Last() float64 { return e.last }

func (e *KineticEnergy) Reset() {
	e.totalEnergy = 0
	e.last = 0
	e.samples = 0
}

// Kinetic returns the World's unit-mass kinetic energy, 0 before the first step.
func Kinetic(w *verlet.World) float64 {
	dt := w.Timestep()
	if dt == 0 {
		return 0
	}
	total := 0.0
	for i := range w.Particles() {
		v := w.Particle(i).Velocity().Scale(1 / dt)
		total += 0.5 * v.LenSq()
	}
	return total
}
