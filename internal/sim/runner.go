package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/springsim/internal/dynamo"
)

const defaultEventBuffer = 64

// Runner is the single goroutine that owns a Simulation's frame loop. Events
// sent from other goroutines are queued and applied before the next tick, so
// input handling never interleaves with a frame step.
type Runner struct {
	sim       *Simulation
	events    chan Event
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func NewRunner(s *Simulation) *Runner {
	return NewRunnerWithBuffer(s, defaultEventBuffer)
}

func NewRunnerWithBuffer(s *Simulation, buffer int) *Runner {
	if buffer < 1 {
		buffer = 1
	}
	return &Runner{
		sim:       s,
		events:    make(chan Event, buffer),
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (r *Runner) Simulation() *Simulation { return r.sim }

func (r *Runner) AddMetric(m dynamo.Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o dynamo.Observer) { r.observers = append(r.observers, o) }

// Send queues an event without blocking. It reports false when the queue is
// full and the event was dropped.
func (r *Runner) Send(e Event) bool {
	select {
	case r.events <- e:
		return true
	default:
		return false
	}
}

// Run steps the simulation for cfg.Frames frames, or until ctx ends when
// Frames is not positive. With cfg.FPS set, frames are paced by a ticker.
func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	result := &Result{Metrics: make(map[string]float64)}

	for _, m := range r.metrics {
		m.Reset()
	}

	var tick <-chan time.Time
	if cfg.FPS > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(cfg.FPS))
		defer ticker.Stop()
		tick = ticker.C
	}

	for cfg.Frames <= 0 || result.Frames < cfg.Frames {
		if tick != nil {
			select {
			case <-ctx.Done():
				return r.finish(result), canceled(ctx)
			case <-tick:
			}
		} else {
			select {
			case <-ctx.Done():
				return r.finish(result), canceled(ctx)
			default:
			}
		}

		r.drain()
		if err := r.sim.Step(); err != nil {
			return r.finish(result), err
		}
		result.Frames++

		if len(r.metrics) == 0 && len(r.observers) == 0 {
			continue
		}
		frame := r.sim.Snapshot()
		for _, m := range r.metrics {
			m.Observe(frame)
		}
		for _, obs := range r.observers {
			obs.OnFrame(frame)
		}
	}

	return r.finish(result), nil
}

func (r *Runner) drain() {
	for {
		select {
		case e := <-r.events:
			r.sim.HandleEvent(e)
		default:
			return
		}
	}
}

func (r *Runner) finish(result *Result) *Result {
	result.Final = r.sim.Snapshot()
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result
}

func canceled(ctx context.Context) error {
	return fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
}
