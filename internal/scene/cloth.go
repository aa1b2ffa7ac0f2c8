package scene

import (
	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/verlet"
)

// Cloth is a lattice hung from its top row and held together by tethers,
// with a heavy ball that follows the pointer.
type Cloth struct {
	base
	cfg  config.ClothConfig
	pins []pin
	ball int
	aim  verlet.Vec2
}

func NewCloth(cfg *config.Config) (*Cloth, error) {
	cc := cfg.Cloth
	c := &Cloth{
		base: newBase("cloth", cfg, cc.Width*cc.Height+1),
		cfg:  cc,
	}
	c.extent = cc.Bound

	for x := 0; x < cc.Width; x++ {
		for y := 0; y < cc.Height; y++ {
			wx := float64(x) - float64(cc.Width)/2
			wy := float64(y) - float64(cc.Height)/2
			idx, err := c.world.Spawn(wx, wy, cc.Radius)
			if err != nil {
				return nil, err
			}
			if y == cc.Height-1 {
				c.pins = append(c.pins, pin{idx: idx, at: verlet.V(wx, wy)})
			}
		}
	}

	c.aim = verlet.V(-10, -10)
	ball, err := c.world.Spawn(c.aim.X, c.aim.Y, cc.Ball)
	if err != nil {
		return nil, err
	}
	c.ball = ball
	return c, nil
}

func (c *Cloth) index(x, y int) int { return x*c.cfg.Height + y }

// Ball returns the index of the pointer-driven ball.
func (c *Cloth) Ball() int { return c.ball }

// Drag moves the grabbed particle, or the ball when nothing is held.
func (c *Cloth) Drag(point verlet.Vec2) {
	c.base.Drag(point)
	if c.held < 0 {
		c.aim = point
	}
}

func (c *Cloth) Step() error {
	if err := c.world.Integrate(c.dt); err != nil {
		return err
	}

	for s := 0; s < c.cfg.Substeps; s++ {
		c.world.ResolveCollisions()

		for x := 0; x < c.cfg.Width; x++ {
			for y := 0; y < c.cfg.Height; y++ {
				idx := c.index(x, y)
				if y < c.cfg.Height-1 {
					if err := c.world.ConstrainDistanceBetween(idx, idx+1, c.cfg.Tether); err != nil {
						return err
					}
				}
				if x < c.cfg.Width-1 {
					if err := c.world.ConstrainDistanceBetween(idx, c.index(x+1, y), c.cfg.Tether); err != nil {
						return err
					}
				}
			}
		}

		// pins go last so the top row is exact after every substep
		if err := c.applyPins(c.pins); err != nil {
			return err
		}
		if err := c.world.ConstrainDistanceFromPoint(c.ball, c.aim, 0); err != nil {
			return err
		}
		if err := c.pinHeld(); err != nil {
			return err
		}
		c.world.ConstrainAllToCircle(verlet.V(0, 0), c.cfg.Bound)
	}

	c.world.ApplyGravity(c.gravity)
	c.tick++
	return nil
}
