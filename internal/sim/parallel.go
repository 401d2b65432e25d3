package sim

import (
	"context"
	"sync"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Member builds the i-th simulation of an ensemble together with the metrics
// it should record. Metrics must not be shared between members.
type Member func(i int) (*Simulation, []dynamo.Metric, error)

// Ensemble runs independent simulations concurrently, one goroutine each.
type Ensemble struct {
	build   Member
	numRuns int
}

func NewEnsemble(build Member, numRuns int) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns}
}

func (e *Ensemble) Run(ctx context.Context, cfg RunConfig) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			s, metrics, err := e.build(idx)
			if err != nil {
				errs[idx] = err
				return
			}
			r := NewRunner(s)
			for _, m := range metrics {
				r.AddMetric(m)
			}
			results[idx], errs[idx] = r.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
