package scene

import (
	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/verlet"
)

// SoftBody is a sheet of breakable links pinned along one edge inside a box,
// or a single strand pinned at one end. Pulling it hard enough tears it.
type SoftBody struct {
	base
	cfg  config.SoftBodyConfig
	pins []pin
}

func NewSoftBody(cfg *config.Config) (*SoftBody, error) {
	sc := cfg.SoftBody
	n := sc.Width * sc.Height
	b := &SoftBody{
		base: newBase("softbody", cfg, n+1),
		cfg:  sc,
	}
	b.extent = sc.Box

	start := verlet.V(sc.Box/2, sc.Box/2)
	switch sc.Shape {
	case "rope":
		b.links = verlet.NewLinks(max(sc.Width-1, 0), sc.RestLength, sc.Strain)
		first, err := BuildRope(b.world, b.links, sc.Width, start, verlet.V(-sc.Spacing, 0), sc.Radius)
		if err != nil {
			return nil, err
		}
		b.pins = append(b.pins, pin{idx: first, at: start})
	default:
		b.links = verlet.NewLinks(ClothLinkCount(sc.Width, sc.Height), sc.RestLength, sc.Strain)
		first, err := BuildCloth(b.world, b.links, sc.Width, sc.Height, start, -sc.Spacing, sc.Radius)
		if err != nil {
			return nil, err
		}
		for iy := 0; iy < sc.Height; iy++ {
			idx := first + iy
			b.pins = append(b.pins, pin{idx: idx, at: b.world.Particle(idx).Position})
		}
	}

	if _, err := b.world.Spawn(-sc.Box, -sc.Box, 1); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *SoftBody) Step() error {
	if err := b.world.Integrate(b.dt); err != nil {
		return err
	}
	b.world.ApplyGravity(b.gravity)

	box := b.cfg.Box
	for s := 0; s < b.cfg.Substeps; s++ {
		b.world.ResolveCollisions()
		if err := b.links.ApplyBreakable(b.world, b.dt); err != nil {
			return err
		}
		b.world.ConstrainAllToBox(-box, box, -box, box)
		if err := b.applyPins(b.pins); err != nil {
			return err
		}
		if err := b.pinHeld(); err != nil {
			return err
		}
	}

	b.tick++
	return nil
}
