package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/verletsim/internal/scene"
	"github.com/san-kum/verletsim/internal/verlet"
)

var ErrZeroPerturbation = errors.New("analysis: perturbation must be non-zero")

// Divergence estimates the largest Lyapunov exponent of a scene by trajectory
// separation: two copies are built, particle idx of the second is nudged by
// perturbation along x, and both are stepped in lockstep.
//
// After every tick the separation is measured, ln(|δx|/|δx0|) is accumulated
// and the second copy is pulled back to distance |δx0|, so
// λ ≈ Σ ln(|δx|/|δx0|) / (ticks * dt). The result is per unit time.
func Divergence(build func() (scene.Scene, error), idx int, perturbation float64, ticks int) (float64, error) {
	if perturbation == 0 {
		return 0, ErrZeroPerturbation
	}

	a, err := build()
	if err != nil {
		return 0, err
	}
	b, err := build()
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx >= b.World().Len() {
		return 0, fmt.Errorf("%w: %d", verlet.ErrIndexOutOfRange, idx)
	}

	p := b.World().Particle(idx)
	nudge := verlet.V(perturbation, 0)
	p.Position = p.Position.Add(nudge)
	p.PositionOld = p.PositionOld.Add(nudge)

	d0 := math.Abs(perturbation)
	sumLog := 0.0

	for i := 0; i < ticks; i++ {
		if err := a.Step(); err != nil {
			return 0, err
		}
		if err := b.Step(); err != nil {
			return 0, err
		}

		// a separation of exactly zero cannot be rescaled and never grows again
		sep := separation(a.World(), b.World())
		if sep == 0 {
			break
		}
		sumLog += math.Log(sep / d0)
		renormalize(a.World(), b.World(), d0/sep)
	}

	dt := a.World().Timestep()
	if ticks <= 0 || dt == 0 {
		return 0, nil
	}
	return sumLog / (float64(ticks) * dt), nil
}

func separation(a, b *verlet.World) float64 {
	n := min(a.Len(), b.Len())
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += b.Particle(i).Position.Sub(a.Particle(i).Position).LenSq()
	}
	return math.Sqrt(sum)
}

// renormalize pulls b toward a by scale, keeping b's velocities consistent.
func renormalize(a, b *verlet.World, scale float64) {
	n := min(a.Len(), b.Len())
	for i := 0; i < n; i++ {
		pa, pb := a.Particle(i), b.Particle(i)
		pb.Position = pa.Position.Add(pb.Position.Sub(pa.Position).Scale(scale))
		pb.PositionOld = pa.PositionOld.Add(pb.PositionOld.Sub(pa.PositionOld).Scale(scale))
	}
}
