package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/verletsim/internal/config"
)

func ropeBase() *config.Config {
	cfg := config.GetPreset("rope", "default")
	cfg.Ticks = 30
	return cfg
}

func TestGridSearchVisitsEveryPoint(t *testing.T) {
	g, err := NewGridSearch(
		[]string{"substeps", "collision_scale"},
		[][]float64{{1, 5, 10}, {0.5, 1}},
	)
	if err != nil {
		t.Fatal(err)
	}

	best, trials, err := g.Search(context.Background(), ropeBase(), "kinetic_energy")
	if err != nil {
		t.Fatal(err)
	}
	if len(trials) != 6 {
		t.Fatalf("trials = %d, want 6", len(trials))
	}
	for _, tr := range trials {
		if tr.Err != nil {
			t.Errorf("trial %v: %v", tr.Params, tr.Err)
		}
		if tr.Value < best.Value {
			t.Errorf("trial %v beats best %v", tr.Params, best.Params)
		}
	}
	if len(best.Params) != 2 {
		t.Errorf("best params = %v", best.Params)
	}
}

func TestGridSearchLeavesBaseAlone(t *testing.T) {
	base := ropeBase()
	g, _ := NewGridSearch([]string{"tether"}, [][]float64{{0.5, 2}})
	if _, _, err := g.Search(context.Background(), base, "particles"); err != nil {
		t.Fatal(err)
	}
	if base.Rope.Tether != 1 {
		t.Errorf("base tether = %v, want 1", base.Rope.Tether)
	}
}

func TestGridSearchInvalidTrials(t *testing.T) {
	g, _ := NewGridSearch([]string{"dt"}, [][]float64{{-1, 1.0 / 60}})
	best, trials, err := g.Search(context.Background(), ropeBase(), "kinetic_energy")
	if err != nil {
		t.Fatal(err)
	}
	if len(trials) != 2 || trials[0].Err == nil {
		t.Fatalf("negative dt should fail its trial: %+v", trials)
	}
	if best.Params["dt"] != 1.0/60 {
		t.Errorf("best = %v", best.Params)
	}

	g, _ = NewGridSearch([]string{"dt"}, [][]float64{{0}})
	if _, _, err := g.Search(context.Background(), ropeBase(), "kinetic_energy"); !errors.Is(err, ErrNoTrials) {
		t.Errorf("error = %v, want ErrNoTrials", err)
	}
}

func TestGridSearchErrors(t *testing.T) {
	if _, err := NewGridSearch([]string{"viscosity"}, [][]float64{{1}}); !errors.Is(err, config.ErrUnknownParam) {
		t.Errorf("error = %v, want ErrUnknownParam", err)
	}
	if _, err := NewGridSearch([]string{"dt"}, nil); err == nil {
		t.Error("expected error for mismatched ranges")
	}

	g, _ := NewGridSearch([]string{"gravity"}, [][]float64{{1}})
	if _, _, err := g.Search(context.Background(), ropeBase(), "nope"); !errors.Is(err, ErrUnknownMetric) {
		t.Errorf("error = %v, want ErrUnknownMetric", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := g.Search(ctx, ropeBase(), "kinetic_energy"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
