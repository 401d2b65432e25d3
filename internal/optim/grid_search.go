package optim

import (
	"context"
	"math"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/experiment"
)

// GridSearch evaluates every combination of parameter values and keeps the
// one that minimises a metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

type Builder func(params map[string]float64) (*experiment.Experiment, error)

// Search returns the best parameter set, its metric value, and the number of
// combinations that could not be built or run.
func (g *GridSearch) Search(ctx context.Context, build Builder, metricName string) (map[string]float64, float64, int, error) {
	best := math.Inf(1)
	var bestParams map[string]float64
	failed := 0

	err := g.searchRecursive(ctx, 0, make(map[string]float64), build, metricName, &best, &bestParams, &failed)
	return bestParams, best, failed, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build Builder,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
	failed *int,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		exp, err := build(current)
		if err != nil {
			*failed++
			return nil
		}
		result, err := exp.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			*failed++
			return nil
		}

		val := result.Metrics[metricName]
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, next, build, metricName, best, bestParams, failed); err != nil {
			return err
		}
	}
	return nil
}

// ConfigBuilder applies k, length, mass and nodes on top of base and sets
// up a headless experiment recording the given metrics.
func ConfigBuilder(base *config.Config, registry *experiment.Registry, metrics func() []dynamo.Metric) Builder {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		for name, v := range params {
			switch name {
			case "k":
				cfg.Stiffness = v
			case "length":
				cfg.Length = v
			case "mass":
				cfg.Mass = v
			case "nodes":
				cfg.Nodes = int(math.Round(v))
			default:
				return nil, dynamo.ErrUnknownParameter
			}
		}
		exp := experiment.New(cfg)
		if err := exp.Setup(registry, metrics()); err != nil {
			return nil, err
		}
		return exp, nil
	}
}
