package analysis

import (
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/verlet"
)

type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

func ParseAxis(s string) (Axis, bool) {
	switch s {
	case "x", "X":
		return AxisX, true
	case "y", "Y":
		return AxisY, true
	}
	return 0, false
}

// Trace extracts one coordinate of particle idx from every frame that holds
// it. Frames recorded before the particle existed are skipped.
func Trace(frames []sim.Frame, idx int, axis Axis) []float64 {
	out := make([]float64, 0, len(frames))
	for _, fr := range frames {
		if idx < 0 || idx >= len(fr.Particles) {
			continue
		}
		p := fr.Particles[idx].Position
		if axis == AxisX {
			out = append(out, p.X)
		} else {
			out = append(out, p.Y)
		}
	}
	return out
}

// Path is the 2D trajectory of particle idx across frames.
func Path(frames []sim.Frame, idx int) []verlet.Vec2 {
	out := make([]verlet.Vec2, 0, len(frames))
	for _, fr := range frames {
		if idx >= 0 && idx < len(fr.Particles) {
			out = append(out, fr.Particles[idx].Position)
		}
	}
	return out
}
