package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/springsim/internal/analysis"
	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/experiment"
	"github.com/san-kum/springsim/internal/metrics"
	"github.com/san-kum/springsim/internal/sim"
)

// ParameterSweep runs one simulation per value of a single parameter, all
// concurrently, and measures how the last node oscillates.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Frames    int
	FPS       float64 // frame rate used to express frequencies
}

type SweepResult struct {
	ParamValue float64
	Frequency  float64 // dominant frequency of the tail's vertical motion, Hz
	Period     float64 // mean-crossing period in frames, 0 if none
	MaxStretch float64
	Kinetic    float64 // kinetic energy of the final frame
}

func (sw *ParameterSweep) values() []float64 {
	if sw.NumSteps <= 1 {
		return []float64{sw.ParamMin}
	}
	step := (sw.ParamMax - sw.ParamMin) / float64(sw.NumSteps-1)
	out := make([]float64, sw.NumSteps)
	for i := range out {
		out[i] = sw.ParamMin + float64(i)*step
	}
	return out
}

func RunSweep(ctx context.Context, sw *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	base := sw.Base
	if base == nil {
		base = config.DefaultConfig()
	}
	fps := sw.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	values := sw.values()
	traces := make([]*analysis.Trace, len(values))

	ensemble := sim.NewEnsemble(func(i int) (*sim.Simulation, []dynamo.Metric, error) {
		s, err := registry.Build(base)
		if err != nil {
			return nil, nil, err
		}
		if err := s.SetParam(sw.ParamName, values[i]); err != nil {
			return nil, nil, fmt.Errorf("%s=%g: %w", sw.ParamName, values[i], err)
		}
		tail := s.Len() - 1
		traces[i] = analysis.NewTrace(tail, analysis.AxisY)
		return s, []dynamo.Metric{&traceMetric{trace: traces[i]}, metrics.NewMaxStretch(), metrics.NewKineticEnergy()}, nil
	}, len(values))

	runs, err := ensemble.Run(ctx, sim.RunConfig{Frames: sw.Frames})
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(values))
	for i, r := range runs {
		res := SweepResult{
			ParamValue: values[i],
			MaxStretch: r.Metrics["max_stretch"],
			Kinetic:    r.Metrics["kinetic_energy"],
		}
		if hz, ok := analysis.DominantFrequency(traces[i].Position, fps); ok {
			res.Frequency = hz
		}
		if p, ok := analysis.Period(traces[i].Position); ok {
			res.Period = p
		}
		results[i] = res
	}
	return results, nil
}

// traceMetric lets a Trace ride along as a metric inside an ensemble.
type traceMetric struct{ trace *analysis.Trace }

func (t *traceMetric) Name() string           { return "trace" }
func (t *traceMetric) Observe(f dynamo.Frame) { t.trace.OnFrame(f) }
func (t *traceMetric) Value() float64         { return float64(t.trace.Len()) }
func (t *traceMetric) Reset()                 { t.trace.Reset() }

// MonteCarloConfig re-rolls the tunable parameters for every trial.
type MonteCarloConfig struct {
	Base      *config.Config
	NumTrials int
	Frames    int
	Seed      int64
}

type MonteCarloResult struct {
	TrialID int
	Config  *config.Config
	Stable  bool // stayed finite and inside the bounds
	Err     error
}

// RunMonteCarlo checks that randomized networks stay numerically stable.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	base := cfg.Base
	if base == nil {
		base = config.DefaultConfig()
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		trialCfg := config.Randomize(base, rng)
		trialCfg.Seed = cfg.Seed + int64(trial)
		trialCfg.Frames = cfg.Frames

		exp := experiment.New(trialCfg)
		if err := exp.Setup(registry, nil); err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		res := MonteCarloResult{TrialID: trial, Config: trialCfg, Stable: true}
		out, err := exp.Run(ctx)
		switch {
		case ctx.Err() != nil:
			return results, err
		case err != nil:
			res.Stable, res.Err = false, err
		default:
			res.Stable = inside(out.Final)
		}
		results = append(results, res)
	}
	return results, nil
}

func inside(f dynamo.Frame) bool {
	for _, n := range f.Nodes {
		if !n.Pos.IsValid() || math.Abs(n.Pos.X) > f.Width || math.Abs(n.Pos.Y) > f.Height {
			return false
		}
	}
	return true
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
