package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/scene"
)

// Ensemble runs one scene per config concurrently. Each run owns its World,
// so runs never share particle state.
type Ensemble struct {
	configs []*config.Config
	metrics func() []Metric
}

// NewEnsemble takes a metrics factory because metrics are stateful and
// cannot be shared between runs.
func NewEnsemble(configs []*config.Config, metrics func() []Metric) *Ensemble {
	return &Ensemble{configs: configs, metrics: metrics}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(e.configs))
	errs := make([]error, len(e.configs))

	var wg sync.WaitGroup
	for i, sc := range e.configs {
		wg.Add(1)
		go func(idx int, sc *config.Config) {
			defer wg.Done()

			s, err := scene.New(sc.Scene, sc)
			if err != nil {
				errs[idx] = fmt.Errorf("run %d: %w", idx, err)
				return
			}
			sim := New(s)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					sim.AddMetric(m)
				}
			}
			results[idx], errs[idx] = sim.Run(ctx, cfg)
		}(i, sc)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
