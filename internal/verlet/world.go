package verlet

import (
	"fmt"
	"math"
)

// World is an append-only, fixed-capacity particle arena. Indices handed out
// by Spawn and Insert stay valid for the lifetime of the World.
type World struct {
	particles      []Particle
	capacity       int
	dt             float64
	degenerate     int
	collisionScale float64
}

type WorldOption func(*World)

// WithCollisionScale multiplies every collision correction. 1 separates an
// overlapping pair exactly to contact; values below 1 soften the response,
// values much above 2 inject energy.
func WithCollisionScale(s float64) WorldOption {
	return func(w *World) {
		if s > 0 {
			w.collisionScale = s
		}
	}
}

func NewWorld(capacity int, opts ...WorldOption) *World {
	if capacity < 0 {
		capacity = 0
	}
	w := &World{
		particles:      make([]Particle, 0, capacity),
		capacity:       capacity,
		collisionScale: 1,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *World) Len() int { return len(w.particles) }
func (w *World) Cap() int { return w.capacity }

// Timestep returns the dt fixed by the first Integrate call, or 0 before it.
func (w *World) Timestep() float64 { return w.dt }

// DegenerateContacts counts collisions resolved along the fallback axis
// because the two centers coincided.
func (w *World) DegenerateContacts() int { return w.degenerate }

// Particle returns the particle at index i. It panics if i is out of range.
func (w *World) Particle(i int) *Particle { return &w.particles[i] }

// Particles exposes the backing slice. Callers may mutate entries but must not append.
func (w *World) Particles() []Particle { return w.particles }

func (w *World) Spawn(x, y, radius float64) (int, error) {
	return w.Insert(NewParticle(x, y, radius))
}

func (w *World) Insert(p Particle) (int, error) {
	if len(w.particles) >= w.capacity {
		return -1, ErrCapacityExceeded
	}
	w.particles = append(w.particles, p)
	return len(w.particles) - 1, nil
}

// Cleanup releases particle storage. The World must not be used afterwards.
func (w *World) Cleanup() {
	w.particles = nil
	w.capacity = 0
	w.dt = 0
}

// Integrate advances every particle by one Verlet step and clears its
// accumulated acceleration. The first successful call fixes the World's
// timestep; any later call with a different dt is rejected untouched.
func (w *World) Integrate(dt float64) error {
	if !validTimestep(dt) {
		return fmt.Errorf("%w: %v", ErrInvalidTimestep, dt)
	}
	if w.dt != 0 && dt != w.dt {
		return fmt.Errorf("%w: started with %v, got %v", ErrTimestepChanged, w.dt, dt)
	}
	w.dt = dt

	dt2 := dt * dt
	for i := range w.particles {
		w.particles[i].integrate(dt2)
	}
	return nil
}

// ApplyGravity subtracts g from every particle's vertical acceleration.
// It accumulates, so call it once per tick.
func (w *World) ApplyGravity(g float64) {
	for i := range w.particles {
		w.particles[i].Acceleration.Y -= g
	}
}

func (w *World) Accelerate(a Vec2) {
	for i := range w.particles {
		w.particles[i].Acceleration = w.particles[i].Acceleration.Add(a)
	}
}

// ParticleAt returns the index of the first particle whose circle contains point.
func (w *World) ParticleAt(point Vec2) (int, bool) {
	for i := range w.particles {
		if point.Sub(w.particles[i].Position).Len() <= w.particles[i].Radius {
			return i, true
		}
	}
	return -1, false
}

func (w *World) check(indices ...int) error {
	for _, idx := range indices {
		if idx < 0 || idx >= len(w.particles) {
			return fmt.Errorf("%w: %d (size %d)", ErrIndexOutOfRange, idx, len(w.particles))
		}
	}
	return nil
}

func validTimestep(dt float64) bool {
	return dt > 0 && !math.IsInf(dt, 0)
}
