package verlet

import "fmt"

const (
	DefaultRestLength      = 0.5
	DefaultStrainThreshold = 10.0
)

// Link tethers two particles by index. Once Broken it stays broken.
type Link struct {
	A, B   int
	Broken bool
}

// Links is an append-only, fixed-capacity set of breakable tethers that
// mirrors World's storage policy. A link breaks when the correction it
// applies to its first particle, per unit time, exceeds the strain threshold.
type Links struct {
	links      []Link
	capacity   int
	restLength float64
	threshold  float64
}

func NewLinks(capacity int, restLength, strainThreshold float64) *Links {
	if capacity < 0 {
		capacity = 0
	}
	return &Links{
		links:      make([]Link, 0, capacity),
		capacity:   capacity,
		restLength: restLength,
		threshold:  strainThreshold,
	}
}

func (l *Links) Len() int        { return len(l.links) }
func (l *Links) Cap() int        { return l.capacity }
func (l *Links) Link(i int) Link { return l.links[i] }

func (l *Links) Add(a, b int) (int, error) {
	if len(l.links) >= l.capacity {
		return -1, ErrCapacityExceeded
	}
	l.links = append(l.links, Link{A: a, B: b})
	return len(l.links) - 1, nil
}

// Active returns a copy of the links that are not broken.
func (l *Links) Active() []Link {
	out := make([]Link, 0, len(l.links))
	for _, lk := range l.links {
		if !lk.Broken {
			out = append(out, lk)
		}
	}
	return out
}

func (l *Links) BrokenCount() int {
	n := 0
	for _, lk := range l.links {
		if lk.Broken {
			n++
		}
	}
	return n
}

// ApplyBreakable tethers every intact link to the rest length and breaks the
// ones strained past the threshold. All indices are checked against w before
// anything moves.
func (l *Links) ApplyBreakable(w *World, dt float64) error {
	if !validTimestep(dt) {
		return fmt.Errorf("%w: %v", ErrInvalidTimestep, dt)
	}
	for i, lk := range l.links {
		if err := w.check(lk.A, lk.B); err != nil {
			return fmt.Errorf("link %d: %w", i, err)
		}
	}

	for i := range l.links {
		lk := &l.links[i]
		if lk.Broken {
			continue
		}
		before := w.particles[lk.A].Position
		w.tether(lk.A, lk.B, l.restLength)
		moved := w.particles[lk.A].Position.Sub(before).Len()
		if moved/dt > l.threshold {
			lk.Broken = true
		}
	}
	return nil
}

func (l *Links) Cleanup() {
	l.links = nil
	l.capacity = 0
}
