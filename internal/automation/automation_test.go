package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/storage"
)

const scenarioYAML = `
name: smoke
description: two short runs
steps:
  - scene: rope
    ticks: 20
    params:
      substeps: 2
  - scene: stress
    preset: naive
    ticks: 40
    record_every: 10
    save: true
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "smoke" || len(sc.Steps) != 2 {
		t.Fatalf("loaded %+v", sc)
	}

	store := storage.New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	results, err := RunScenario(context.Background(), sc, store)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Result.Ticks != 20 || results[0].RunID != "" {
		t.Errorf("step 1: ticks %d run %q", results[0].Result.Ticks, results[0].RunID)
	}
	if results[1].RunID == "" || len(results[1].Result.Frames) != 5 {
		t.Errorf("step 2: run %q frames %d", results[1].RunID, len(results[1].Result.Frames))
	}

	meta, err := store.Load(results[1].RunID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Scene != "stress" || meta.Config.Stress.Broadphase != "naive" {
		t.Errorf("saved %s with %s", meta.Scene, meta.Config.Stress.Broadphase)
	}
}

func TestScenarioStepConfig(t *testing.T) {
	cfg, err := ScenarioStep{Scene: "softbody", Preset: "fragile", Params: map[string]float64{"strain": 3}}.Config()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SoftBody.Strain != 3 {
		t.Errorf("strain = %v, want 3", cfg.SoftBody.Strain)
	}

	if _, err := (ScenarioStep{Scene: "rope", Params: map[string]float64{"strain": 1}}).Config(); !errors.Is(err, config.ErrUnknownParam) {
		t.Errorf("error = %v, want ErrUnknownParam", err)
	}
	if _, err := (ScenarioStep{Scene: "jelly"}).Config(); !errors.Is(err, config.ErrUnknownScene) {
		t.Errorf("error = %v, want ErrUnknownScene", err)
	}
	if _, err := (ScenarioStep{Scene: "rope", Params: map[string]float64{"dt": -1}}).Config(); !errors.Is(err, config.ErrInvalidValue) {
		t.Errorf("error = %v, want ErrInvalidValue", err)
	}
}

func TestRunScenarioErrors(t *testing.T) {
	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for a scenario without steps")
	}
	if _, err := LoadScenario(writeScenario(t, "steps: [")); err == nil {
		t.Error("expected parse error")
	}

	sc := &Scenario{Steps: []ScenarioStep{{Scene: "rope", Ticks: 5, Save: true}}}
	if _, err := RunScenario(context.Background(), sc, nil); err == nil {
		t.Error("expected error saving without a store")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sc = &Scenario{Steps: []ScenarioStep{{Scene: "rope", Ticks: 5}}}
	if _, err := RunScenario(ctx, sc, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestMonteCarlo(t *testing.T) {
	base := config.GetPreset("rope", "default")
	base.Ticks = 60
	base.Seed = 7
	mc := &MonteCarloConfig{Base: base, Perturbation: 0.05, NumTrials: 4}

	first, err := RunMonteCarlo(context.Background(), mc)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 4 {
		t.Fatalf("results = %d, want 4", len(first))
	}
	stable, unstable := MonteCarloStats(first)
	if stable != 4 || unstable != 0 {
		t.Errorf("stable = %d, unstable = %d", stable, unstable)
	}

	second, err := RunMonteCarlo(context.Background(), mc)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first {
		if first[i].Energy != second[i].Energy {
			t.Errorf("trial %d not reproducible: %v vs %v", i, first[i].Energy, second[i].Energy)
		}
	}
	if first[0].Energy == first[1].Energy {
		t.Error("trials should differ")
	}
}

func TestMonteCarloStats(t *testing.T) {
	stable, unstable := MonteCarloStats([]MonteCarloResult{{Stable: true}, {}, {Stable: true}})
	if stable != 2 || unstable != 1 {
		t.Errorf("stats = %d/%d, want 2/1", stable, unstable)
	}
	if _, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{Base: config.DefaultConfig()}); err == nil {
		t.Error("expected error for zero trials")
	}
}
