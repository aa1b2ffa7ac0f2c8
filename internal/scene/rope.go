package scene

import (
	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/verlet"
)

// Rope is a chain hanging from the origin. Spawned particles extend it.
type Rope struct {
	base
	cfg config.RopeConfig
}

func NewRope(cfg *config.Config) (*Rope, error) {
	rc := cfg.Rope
	r := &Rope{
		base: newBase("rope", cfg, rc.Capacity),
		cfg:  rc,
	}
	r.extent = float64(rc.Count)*rc.Tether + 2

	for i := 0; i < rc.Count; i++ {
		if _, err := r.world.Spawn(0, -float64(i)*rc.Tether, rc.Radius); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Spawn appends a particle at (x, y); the chain pulls it in on the next tick.
func (r *Rope) Spawn(x, y float64) error {
	_, err := r.world.Spawn(x, y, r.cfg.Radius)
	return err
}

func (r *Rope) Step() error {
	if err := r.world.Integrate(r.dt); err != nil {
		return err
	}
	r.world.ResolveCollisions()

	n := r.world.Len()
	for s := 0; s < r.cfg.Substeps; s++ {
		for i := 0; i < n-1; i++ {
			if err := r.world.ConstrainDistanceBetween(i, i+1, r.cfg.Tether); err != nil {
				return err
			}
		}
		if n > 0 {
			if err := r.world.ConstrainDistanceFromPoint(0, verlet.V(0, 0), 0); err != nil {
				return err
			}
		}
		if err := r.pinHeld(); err != nil {
			return err
		}
	}

	r.world.ApplyGravity(r.gravity)
	r.tick++
	return nil
}
