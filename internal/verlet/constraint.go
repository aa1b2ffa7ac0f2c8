package verlet

// Constraints are one-shot position projections. Each call only partly
// satisfies its condition when several constraints interact, so callers run
// them every substep and let repeated passes converge.

// ConstrainDistanceFromPoint keeps particle idx within maxDistance of target.
// A maxDistance of 0 pins the particle exactly onto target. A particle already
// in range is never moved.
func (w *World) ConstrainDistanceFromPoint(idx int, target Vec2, maxDistance float64) error {
	if err := w.check(idx); err != nil {
		return err
	}
	p := &w.particles[idx]

	if maxDistance == 0 {
		p.Position = target
		return nil
	}

	diff := p.Position.Sub(target)
	dist := diff.Len()
	if dist > maxDistance {
		p.Position = p.Position.Sub(diff.Scale((dist - maxDistance) / dist))
	}
	return nil
}

// ConstrainDistanceBetween is a tether: when the two particles are further
// apart than maxDistance both move toward each other by half the excess.
// Closer pairs are left alone.
func (w *World) ConstrainDistanceBetween(idx1, idx2 int, maxDistance float64) error {
	if err := w.check(idx1, idx2); err != nil {
		return err
	}
	w.tether(idx1, idx2, maxDistance)
	return nil
}

func (w *World) tether(idx1, idx2 int, maxDistance float64) {
	a, b := &w.particles[idx1], &w.particles[idx2]
	diff := a.Position.Sub(b.Position)
	dist := diff.Len()
	if dist <= maxDistance || dist == 0 {
		return
	}
	adj := diff.Scale((dist - maxDistance) / 2 / dist)
	a.Position = a.Position.Sub(adj)
	b.Position = b.Position.Add(adj)
}

// ConstrainBoundingBox clamps the particle's center into the box, per axis.
func (w *World) ConstrainBoundingBox(idx int, minX, maxX, minY, maxY float64) error {
	if err := w.check(idx); err != nil {
		return err
	}
	w.particles[idx].clamp(minX, maxX, minY, maxY)
	return nil
}

func (p *Particle) clamp(minX, maxX, minY, maxY float64) {
	if p.Position.X > maxX {
		p.Position.X = maxX
	}
	if p.Position.Y > maxY {
		p.Position.Y = maxY
	}
	if p.Position.X < minX {
		p.Position.X = minX
	}
	if p.Position.Y < minY {
		p.Position.Y = minY
	}
}

// ConstrainAllToBox applies ConstrainBoundingBox to every particle.
func (w *World) ConstrainAllToBox(minX, maxX, minY, maxY float64) {
	for i := range w.particles {
		w.particles[i].clamp(minX, maxX, minY, maxY)
	}
}

// ConstrainAllToCircle keeps every particle center within radius of center.
func (w *World) ConstrainAllToCircle(center Vec2, radius float64) {
	for i := range w.particles {
		_ = w.ConstrainDistanceFromPoint(i, center, radius)
	}
}
