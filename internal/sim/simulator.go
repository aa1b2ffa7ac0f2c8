package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/verletsim/internal/scene"
)

type Simulator struct {
	scene     scene.Scene
	metrics   []Metric
	observers []Observer
}

func New(s scene.Scene) *Simulator {
	return &Simulator{
		scene:     s,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) Scene() scene.Scene     { return s.scene }

// Run steps the scene cfg.Ticks times. On cancellation or a failed tick the
// partial result is returned together with the error.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Scene:   s.scene.Name(),
		Metrics: make(map[string]float64),
	}
	if cfg.RecordEvery > 0 {
		result.Frames = make([]Frame, 0, cfg.Ticks/cfg.RecordEvery+1)
		result.Frames = append(result.Frames, Snapshot(s.scene))
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	start := time.Now()
	defer func() {
		result.Elapsed = time.Since(start)
		result.Degenerate = s.scene.World().DegenerateContacts()
		for _, m := range s.metrics {
			result.Metrics[m.Name()] = m.Value()
		}
	}()

	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := s.scene.Step(); err != nil {
			return result, &RunError{Scene: s.scene.Name(), Tick: s.scene.Tick(), Wrapped: err}
		}
		result.Ticks++

		for _, m := range s.metrics {
			m.Observe(s.scene)
		}
		for _, obs := range s.observers {
			obs.OnTick(s.scene)
		}

		if cfg.RecordEvery > 0 && result.Ticks%cfg.RecordEvery == 0 {
			result.Frames = append(result.Frames, Snapshot(s.scene))
		}
	}

	return result, nil
}

// RunWithCallback steps until the callback returns false, cfg.Ticks is
// reached or ctx is done. A zero Ticks runs until stopped.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(scene.Scene) bool) error {
	if cfg.Ticks < 0 {
		return fmt.Errorf("%w: ticks must not be negative, got %d", ErrInvalidConfig, cfg.Ticks)
	}

	for i := 0; cfg.Ticks == 0 || i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := s.scene.Step(); err != nil {
			return &RunError{Scene: s.scene.Name(), Tick: s.scene.Tick(), Wrapped: err}
		}
		if !callback(s.scene) {
			return nil
		}
	}
	return nil
}

func validateConfig(cfg Config) error {
	if cfg.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive, got %d", ErrInvalidConfig, cfg.Ticks)
	}
	if cfg.RecordEvery < 0 {
		return fmt.Errorf("%w: record_every must not be negative, got %d", ErrInvalidConfig, cfg.RecordEvery)
	}
	return nil
}
