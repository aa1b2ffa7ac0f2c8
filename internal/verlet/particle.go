package verlet

// Particle is a circle advanced by position Verlet integration.
//
// Velocity is never stored: it is Position - PositionOld. Moving Position
// alone therefore adds velocity; move both to teleport a particle at rest.
// Acceleration accumulates forces until the next Integrate, which zeroes it.
type Particle struct {
	Radius       float64
	Position     Vec2
	PositionOld  Vec2
	Acceleration Vec2
}

// NewParticle returns a particle at rest at (x, y).
func NewParticle(x, y, radius float64) Particle {
	p := V(x, y)
	return Particle{
		Radius:      radius,
		Position:    p,
		PositionOld: p,
	}
}

// Velocity returns the displacement per step implied by the position history.
func (p *Particle) Velocity() Vec2 {
	return p.Position.Sub(p.PositionOld)
}

func (p *Particle) integrate(dt2 float64) {
	vel := p.Position.Sub(p.PositionOld)
	p.PositionOld = p.Position
	p.Position = p.Position.Add(vel).Add(p.Acceleration.Scale(dt2))
	p.Acceleration = Vec2{}
}
