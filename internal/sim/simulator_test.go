package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/scene"
	"github.com/san-kum/verletsim/internal/verlet"
)

var errBoom = errors.New("boom")

// testScene drops a single particle and fails on tick failAt when set.
type testScene struct {
	world  *verlet.World
	tick   int
	failAt int
}

func newTestScene() *testScene {
	w := verlet.NewWorld(1)
	w.Spawn(0, 0, 0.5)
	return &testScene{world: w}
}

func (s *testScene) Name() string            { return "test" }
func (s *testScene) World() *verlet.World    { return s.world }
func (s *testScene) Links() *verlet.Links    { return nil }
func (s *testScene) Tick() int               { return s.tick }
func (s *testScene) Extent() float64         { return 10 }
func (s *testScene) Grab(p verlet.Vec2) bool { return false }
func (s *testScene) Drag(p verlet.Vec2)      {}
func (s *testScene) Release()                {}

func (s *testScene) Step() error {
	if s.failAt > 0 && s.tick+1 == s.failAt {
		return errBoom
	}
	if err := s.world.Integrate(0.1); err != nil {
		return err
	}
	s.world.ApplyGravity(1)
	s.tick++
	return nil
}

var _ scene.Scene = (*testScene)(nil)

func TestSimulatorRun(t *testing.T) {
	s := newTestScene()
	sim := New(s)

	result, err := sim.Run(context.Background(), Config{Ticks: 10, RecordEvery: 5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Ticks != 10 {
		t.Errorf("expected 10 ticks, got %d", result.Ticks)
	}
	if len(result.Frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(result.Frames))
	}
	for i, want := range []int{0, 5, 10} {
		if result.Frames[i].Tick != want {
			t.Errorf("frame %d tick = %d, want %d", i, result.Frames[i].Tick, want)
		}
	}
	if result.Frames[0].Particles[0].Position != verlet.V(0, 0) {
		t.Error("initial frame should hold the spawn position")
	}
	if y := result.Frames[2].Particles[0].Position.Y; y >= 0 {
		t.Errorf("particle should fall, y = %v", y)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(newTestScene())

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero ticks", Config{Ticks: 0}},
		{"negative ticks", Config{Ticks: -3}},
		{"negative record", Config{Ticks: 5, RecordEvery: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

type testMetric struct {
	count int
}

func (m *testMetric) Name() string          { return "test" }
func (m *testMetric) Observe(s scene.Scene) { m.count++ }
func (m *testMetric) Value() float64        { return float64(m.count) }
func (m *testMetric) Reset()                { m.count = 0 }

func TestSimulatorMetrics(t *testing.T) {
	sim := New(newTestScene())
	metric := &testMetric{count: 99}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), Config{Ticks: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if got := result.Metrics["test"]; got != 10 {
		t.Errorf("expected 10 observations, got %v", got)
	}
	if len(result.Frames) != 0 {
		t.Errorf("RecordEvery 0 should record nothing, got %d frames", len(result.Frames))
	}
}

func TestSimulatorFailedTick(t *testing.T) {
	s := newTestScene()
	s.failAt = 4
	sim := New(s)

	result, err := sim.Run(context.Background(), Config{Ticks: 10})

	var runErr *RunError
	if !errors.As(err, &runErr) {
		t.Fatalf("expected RunError, got %v", err)
	}
	if !errors.Is(err, errBoom) {
		t.Error("RunError should unwrap to the step error")
	}
	if runErr.Tick != 3 || result.Ticks != 3 {
		t.Errorf("failed at tick %d after %d ticks, want 3 and 3", runErr.Tick, result.Ticks)
	}
}

func TestSimulatorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(newTestScene()).Run(ctx, Config{Ticks: 10})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.Ticks != 0 {
		t.Errorf("canceled run stepped %d ticks", result.Ticks)
	}
}

func TestRunWithCallback(t *testing.T) {
	s := newTestScene()
	calls := 0

	err := New(s).RunWithCallback(context.Background(), Config{}, func(scene.Scene) bool {
		calls++
		return calls < 3
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if calls != 3 || s.Tick() != 3 {
		t.Errorf("calls = %d, ticks = %d, want 3 and 3", calls, s.Tick())
	}
}

func TestEnsemble(t *testing.T) {
	short := config.GetPreset("rope", "default")
	long := config.GetPreset("rope", "long")

	ens := NewEnsemble([]*config.Config{short, long}, func() []Metric {
		return []Metric{&testMetric{}}
	})
	results, err := ens.Run(context.Background(), Config{Ticks: 20, RecordEvery: 20})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if n := len(results[1].Frames[1].Particles); n != 30 {
		t.Errorf("long rope recorded %d particles, want 30", n)
	}
	for i, r := range results {
		if r.Metrics["test"] != 20 {
			t.Errorf("run %d observed %v ticks, want 20", i, r.Metrics["test"])
		}
	}
}
