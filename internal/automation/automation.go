package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/metrics"
	"github.com/san-kum/verletsim/internal/scene"
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run: a scene preset plus named parameter overrides.
type ScenarioStep struct {
	Scene       string             `yaml:"scene"`
	Preset      string             `yaml:"preset"`
	Ticks       int                `yaml:"ticks"`
	RecordEvery int                `yaml:"record_every"`
	Params      map[string]float64 `yaml:"params"`
	Save        bool               `yaml:"save"`
}

// StepResult pairs a step's result with its stored run, if saved.
type StepResult struct {
	Result *sim.Result
	RunID  string
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	return &scenario, nil
}

// Config resolves a step into a validated config.
func (st ScenarioStep) Config() (*config.Config, error) {
	preset := st.Preset
	if preset == "" {
		preset = "default"
	}
	cfg := config.GetPreset(st.Scene, preset)
	if cfg == nil {
		return nil, fmt.Errorf("%w: %s/%s", config.ErrUnknownScene, st.Scene, preset)
	}
	if st.Ticks > 0 {
		cfg.Ticks = st.Ticks
	}
	if st.RecordEvery > 0 {
		cfg.RecordEvery = st.RecordEvery
	}
	for name, v := range st.Params {
		if err := cfg.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// RunScenario executes every step in order. Steps marked save are written to
// store, which may be nil when no step saves.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		s, err := scene.New(cfg.Scene, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		runner := sim.New(s)
		for _, m := range metrics.Default() {
			runner.AddMetric(m)
		}
		result, err := runner.Run(ctx, sim.Config{Ticks: cfg.Ticks, RecordEvery: cfg.RecordEvery})
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Result: result}
		if step.Save {
			if store == nil {
				return results, fmt.Errorf("step %d: save requested without a store", i+1)
			}
			if sr.RunID, err = store.Save(cfg, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// MonteCarloConfig perturbs the starting positions of a scene.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	// Limit bounds |position| for a trial to count as stable; 0 uses
	// twice the scene extent.
	Limit float64
}

type MonteCarloResult struct {
	TrialID int
	Energy  float64
	Broken  int
	Stable  bool
}

// RunMonteCarlo runs NumTrials copies of the base scene, each with every
// particle nudged by a uniform offset in [-Perturbation, Perturbation] on
// both axes. Nudges move the previous position too, so no trial starts with
// extra velocity. The sequence is reproducible from Base.Seed.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("monte carlo: trials must be positive, got %d", cfg.NumTrials)
	}
	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	rng := rand.New(rand.NewSource(cfg.Base.Seed))

	for trial := 0; trial < cfg.NumTrials; trial++ {
		s, err := scene.New(cfg.Base.Scene, cfg.Base)
		if err != nil {
			return nil, err
		}
		w := s.World()
		for i := 0; i < w.Len(); i++ {
			p := w.Particle(i)
			dx := (rng.Float64() - 0.5) * 2 * cfg.Perturbation
			dy := (rng.Float64() - 0.5) * 2 * cfg.Perturbation
			p.Position.X += dx
			p.Position.Y += dy
			p.PositionOld.X += dx
			p.PositionOld.Y += dy
		}

		if _, err := sim.New(s).Run(ctx, sim.Config{Ticks: cfg.Base.Ticks}); err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		limit := cfg.Limit
		if limit <= 0 {
			limit = 2 * s.Extent()
		}
		r := MonteCarloResult{TrialID: trial, Energy: metrics.Kinetic(w), Stable: true}
		for _, p := range w.Particles() {
			x, y := p.Position.X, p.Position.Y
			if math.IsNaN(x) || math.IsNaN(y) || math.Abs(x) > limit || math.Abs(y) > limit {
				r.Stable = false
				break
			}
		}
		if l := s.Links(); l != nil {
			r.Broken = l.BrokenCount()
		}
		results = append(results, r)
	}

	return results, nil
}

func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
