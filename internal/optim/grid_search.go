package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/metrics"
	"github.com/san-kum/verletsim/internal/scene"
	"github.com/san-kum/verletsim/internal/sim"
)

var (
	ErrNoTrials      = errors.New("optim: no trial completed")
	ErrUnknownMetric = errors.New("optim: unknown metric")
)

// Trial is one point of the grid.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// GridSearch runs a scene at every combination of named config parameters
// and keeps the one minimising a metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d params but %d ranges", len(params), len(ranges))
	}
	for _, name := range params {
		// scene scoped knobs are only checked per trial
		if !isKnown(name) {
			return nil, fmt.Errorf("%w: %q", config.ErrUnknownParam, name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

func isKnown(name string) bool {
	for _, n := range config.ParamNames() {
		if n == name {
			return true
		}
	}
	return false
}

// Search evaluates every grid point against a copy of base. Trials whose
// config is invalid or whose run fails are kept with their error and skipped
// when picking the best.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (Trial, []Trial, error) {
	best := Trial{Value: math.Inf(1)}
	var trials []Trial

	err := g.searchRecursive(0, make(map[string]float64), func(current map[string]float64) error {
		t := g.trial(ctx, base, current, metricName)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(t.Err, ErrUnknownMetric) {
			return t.Err
		}
		trials = append(trials, t)
		if t.Err == nil && t.Value < best.Value {
			best = t
		}
		return nil
	})
	if err != nil {
		return best, trials, err
	}
	if best.Params == nil {
		return best, trials, ErrNoTrials
	}
	return best, trials, nil
}

func (g *GridSearch) searchRecursive(depth int, current map[string]float64, visit func(map[string]float64) error) error {
	if depth == len(g.paramNames) {
		return visit(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(depth+1, newParams, visit); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) trial(ctx context.Context, base *config.Config, params map[string]float64, metricName string) Trial {
	t := Trial{Params: params}

	cfg := *base
	for name, v := range params {
		if err := cfg.SetParam(name, v); err != nil {
			t.Err = err
			return t
		}
	}
	s, err := scene.New(cfg.Scene, &cfg)
	if err != nil {
		t.Err = err
		return t
	}

	runner := sim.New(s)
	for _, m := range metrics.Default() {
		runner.AddMetric(m)
	}
	result, err := runner.Run(ctx, sim.Config{Ticks: cfg.Ticks})
	if err != nil {
		t.Err = err
		return t
	}

	v, ok := result.Metrics[metricName]
	if !ok {
		t.Err = fmt.Errorf("%w: %q", ErrUnknownMetric, metricName)
		return t
	}
	t.Value = v
	return t
}
