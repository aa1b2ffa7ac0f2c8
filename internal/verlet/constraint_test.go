package verlet

import (
	"errors"
	"math"
	"testing"
)

func TestConstrainDistanceFromPointPin(t *testing.T) {
	w := NewWorld(1)
	w.Spawn(3.7, -2.1, 0.4)
	target := V(5, 5)

	if err := w.ConstrainDistanceFromPoint(0, target, 0); err != nil {
		t.Fatalf("constrain failed: %v", err)
	}
	if got := w.Particle(0).Position; got != target {
		t.Errorf("pinned position = %v, want %v", got, target)
	}
}

func TestConstrainDistanceFromPoint(t *testing.T) {
	tests := []struct {
		name  string
		start Vec2
		max   float64
		want  Vec2
	}{
		{"inside untouched", V(1, 1), 5, V(1, 1)},
		{"on boundary untouched", V(3, 4), 5, V(3, 4)},
		{"outside pulled to radius", V(6, 8), 5, V(3, 4)},
		{"far outside", V(0, -30), 10, V(0, -10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld(1)
			w.Spawn(tt.start.X, tt.start.Y, 0.5)

			if err := w.ConstrainDistanceFromPoint(0, V(0, 0), tt.max); err != nil {
				t.Fatalf("constrain failed: %v", err)
			}
			if got := w.Particle(0).Position; got.Sub(tt.want).Len() > 1e-12 {
				t.Errorf("position = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConstrainDistanceBetweenTether(t *testing.T) {
	tests := []struct {
		name string
		b    Vec2
		max  float64
		want float64
	}{
		{"coincident", V(0, 0), 1, 0},
		{"closer than max", V(0.3, 0.4), 1, 0.5},
		{"exactly max", V(0.6, 0.8), 1, 1},
		{"stretched", V(3, 4), 1, 1},
		{"stretched diagonal", V(-2, 2), 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld(2)
			w.Spawn(0, 0, 0.1)
			w.Spawn(tt.b.X, tt.b.Y, 0.1)
			before := tt.b.Len()
			mid0 := tt.b.Scale(0.5)

			if err := w.ConstrainDistanceBetween(0, 1, tt.max); err != nil {
				t.Fatalf("constrain failed: %v", err)
			}

			a, b := w.Particle(0).Position, w.Particle(1).Position
			d := b.Sub(a).Len()
			if math.Abs(d-tt.want) > 1e-12 {
				t.Errorf("distance = %v, want %v", d, tt.want)
			}
			if d > before+1e-12 {
				t.Errorf("tether increased distance %v -> %v", before, d)
			}
			if mid := a.Add(b).Scale(0.5); mid.Sub(mid0).Len() > 1e-12 {
				t.Errorf("midpoint moved %v -> %v", mid0, mid)
			}
		})
	}
}

func TestConstrainBoundingBox(t *testing.T) {
	tests := []struct {
		start, want Vec2
	}{
		{V(0, 0), V(0, 0)},
		{V(25, 0), V(20, 0)},
		{V(-25, 30), V(-20, 20)},
		{V(5, -21), V(5, -20)},
	}

	for _, tt := range tests {
		w := NewWorld(1)
		w.Spawn(tt.start.X, tt.start.Y, 0.4)
		if err := w.ConstrainBoundingBox(0, -20, 20, -20, 20); err != nil {
			t.Fatalf("constrain failed: %v", err)
		}
		if got := w.Particle(0).Position; got != tt.want {
			t.Errorf("clamp(%v) = %v, want %v", tt.start, got, tt.want)
		}
	}
}

func TestConstrainAllHelpers(t *testing.T) {
	w := NewWorld(2)
	w.Spawn(30, 0, 0.4)
	w.Spawn(0, -40, 0.4)

	w.ConstrainAllToCircle(V(0, 0), 15)
	if d := w.Particle(0).Position.Len(); math.Abs(d-15) > 1e-12 {
		t.Errorf("circle bound distance = %v, want 15", d)
	}

	w.ConstrainAllToBox(-10, 10, -10, 10)
	if got := w.Particle(1).Position; got != V(0, -10) {
		t.Errorf("box clamp = %v, want (0,-10)", got)
	}
}

func TestConstraintIndexChecks(t *testing.T) {
	w := NewWorld(2)
	w.Spawn(0, 0, 1)

	checks := map[string]error{
		"point":    w.ConstrainDistanceFromPoint(1, V(0, 0), 0),
		"between":  w.ConstrainDistanceBetween(0, 7, 1),
		"negative": w.ConstrainDistanceBetween(-1, 0, 1),
		"box":      w.ConstrainBoundingBox(3, 0, 1, 0, 1),
	}
	for name, err := range checks {
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("%s: error = %v, want ErrIndexOutOfRange", name, err)
		}
	}
	if w.Particle(0).Position != V(0, 0) {
		t.Error("rejected constraint moved a particle")
	}
}
