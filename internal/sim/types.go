package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/verletsim/internal/scene"
	"github.com/san-kum/verletsim/internal/verlet"
)

var ErrInvalidConfig = errors.New("sim: invalid run config")

type Metric interface {
	Name() string
	Observe(s scene.Scene)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(s scene.Scene)
}

type Config struct {
	Ticks int
	// RecordEvery snapshots the World every N ticks; 0 records nothing.
	RecordEvery int
}

func DefaultConfig() Config {
	return Config{Ticks: 600, RecordEvery: 10}
}

// Frame is a copy of every particle at the end of a tick.
type Frame struct {
	Tick      int
	Particles []verlet.Particle
}

func Snapshot(s scene.Scene) Frame {
	ps := s.World().Particles()
	cp := make([]verlet.Particle, len(ps))
	copy(cp, ps)
	return Frame{Tick: s.Tick(), Particles: cp}
}

type Result struct {
	Scene      string
	Frames     []Frame
	Ticks      int
	Metrics    map[string]float64
	Elapsed    time.Duration
	Degenerate int
}

// RunError wraps a failed tick with where it happened.
type RunError struct {
	Scene   string
	Tick    int
	Wrapped error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s tick %d: %v", e.Scene, e.Tick, e.Wrapped)
}

func (e *RunError) Unwrap() error {
	return e.Wrapped
}
