package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/sim"
)

// Experiment is a headless run of one configured network.
type Experiment struct {
	cfg    *config.Config
	runner *sim.Runner
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(r *Registry, metrics []dynamo.Metric) error {
	s, err := r.Build(e.cfg)
	if err != nil {
		return err
	}
	e.runner = sim.NewRunner(s)
	for _, m := range metrics {
		e.runner.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.runner == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.runner.Run(ctx, sim.RunConfig{Frames: e.cfg.Frames})
}

// Runner returns the underlying runner for adding observers.
func (e *Experiment) Runner() *sim.Runner {
	return e.runner
}
