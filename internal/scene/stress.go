package scene

import (
	"errors"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/verlet"
)

// Stress drops pairs of particles into a box until the World is full.
type Stress struct {
	base
	cfg      config.StressConfig
	grid     *verlet.AccessGrid
	rejected int
}

func NewStress(cfg *config.Config) (*Stress, error) {
	sc := cfg.Stress
	s := &Stress{
		base: newBase("stress", cfg, sc.Capacity),
		cfg:  sc,
	}
	s.extent = sc.Box

	if sc.Broadphase == "grid" {
		g, err := verlet.GridCovering(-sc.Box, sc.Box, -sc.Box, sc.Box,
			verlet.SuggestCellSize(sc.Radius), verlet.WithMaxPerCell(sc.MaxPerCell))
		if err != nil {
			return nil, err
		}
		s.grid = g
	}
	return s, nil
}

// Grid returns the broad-phase grid, or nil when collisions run naively.
func (s *Stress) Grid() *verlet.AccessGrid { return s.grid }

// Rejected counts spawns refused because the World was full.
func (s *Stress) Rejected() int { return s.rejected }

// Full reports whether the World has reached capacity.
func (s *Stress) Full() bool { return s.world.Len() >= s.world.Cap() }

func (s *Stress) Spawn(x, y float64) error {
	p := verlet.NewParticle(x, y, s.cfg.Radius)
	p.Position = p.Position.Sub(verlet.V(s.cfg.Jitter, s.cfg.Jitter))
	_, err := s.world.Insert(p)
	if errors.Is(err, verlet.ErrCapacityExceeded) {
		s.rejected++
	}
	return err
}

func (s *Stress) Step() error {
	if err := s.world.Integrate(s.dt); err != nil {
		return err
	}

	if s.grid != nil {
		s.grid.ResolveBroadPhase(s.world)
	} else {
		s.world.ResolveCollisions()
	}
	box := s.cfg.Box
	s.world.ConstrainAllToBox(-box, box, -box, box)
	if err := s.pinHeld(); err != nil {
		return err
	}
	s.world.ApplyGravity(s.gravity)

	s.tick++
	if s.tick%s.cfg.SpawnEvery == 0 {
		for _, x := range []float64{1, -1} {
			if err := s.Spawn(x, s.cfg.SpawnY); err != nil && !errors.Is(err, verlet.ErrCapacityExceeded) {
				return err
			}
		}
	}
	return nil
}
