package verlet

// fallbackAxis separates particles whose centers coincide exactly.
var fallbackAxis = Vec2{X: 1, Y: 0}

// ResolveCollisions pushes every overlapping pair apart, assuming equal mass
// and a fully inelastic contact. Positions are projected directly; the next
// Integrate turns the correction into velocity. O(n^2), for small worlds or
// as the reference for AccessGrid.ResolveBroadPhase.
func (w *World) ResolveCollisions() {
	for i := range w.particles {
		for e := 0; e < i; e++ {
			w.resolvePair(i, e)
		}
	}
}

func (w *World) resolvePair(i, e int) {
	a, b := &w.particles[i], &w.particles[e]
	minDist := a.Radius + b.Radius
	diff := a.Position.Sub(b.Position)
	distSq := diff.LenSq()
	if distSq >= minDist*minDist {
		return
	}

	dist := diff.Len()
	normal := fallbackAxis
	if dist > 0 {
		normal = diff.Scale(1 / dist)
	} else {
		w.degenerate++
	}

	delta := (minDist - dist) / 2 * w.collisionScale
	adj := normal.Scale(delta)
	a.Position = a.Position.Add(adj)
	b.Position = b.Position.Sub(adj)
}
