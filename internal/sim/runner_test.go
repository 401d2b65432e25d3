package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

type countMetric struct {
	count int
	ticks []int
}

func (c *countMetric) Name() string { return "count" }
func (c *countMetric) Observe(f dynamo.Frame) {
	c.count++
	c.ticks = append(c.ticks, f.Tick)
}
func (c *countMetric) Value() float64 { return float64(c.count) }
func (c *countMetric) Reset()         { c.count = 0; c.ticks = nil }

type frameRecorder struct{ frames []dynamo.Frame }

func (r *frameRecorder) OnFrame(f dynamo.Frame) { r.frames = append(r.frames, f) }

func newTestSim(t *testing.T, nodes int) *Simulation {
	t.Helper()
	opts := DefaultOptions()
	opts.Nodes = nodes
	s, err := New(physics.DefaultParams(), opts)
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	return s
}

func TestRunnerRun(t *testing.T) {
	r := NewRunner(newTestSim(t, 4))
	metric := &countMetric{}
	rec := &frameRecorder{}
	r.AddMetric(metric)
	r.AddObserver(rec)

	result, err := r.Run(context.Background(), RunConfig{Frames: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Frames != 10 {
		t.Errorf("expected 10 frames, got %d", result.Frames)
	}
	if got := result.Metrics["count"]; got != 10 {
		t.Errorf("expected metric 10, got %v", got)
	}
	if len(rec.frames) != 10 {
		t.Fatalf("expected 10 observed frames, got %d", len(rec.frames))
	}
	if rec.frames[0].Tick != 1 || rec.frames[9].Tick != 10 {
		t.Errorf("unexpected ticks %d..%d", rec.frames[0].Tick, rec.frames[9].Tick)
	}
	if result.Final.Tick != 10 {
		t.Errorf("expected final tick 10, got %d", result.Final.Tick)
	}
}

func TestRunnerResetsMetrics(t *testing.T) {
	r := NewRunner(newTestSim(t, 3))
	metric := &countMetric{}
	r.AddMetric(metric)

	for i := 0; i < 2; i++ {
		result, err := r.Run(context.Background(), RunConfig{Frames: 5})
		if err != nil {
			t.Fatalf("run %d failed: %v", i, err)
		}
		if result.Metrics["count"] != 5 {
			t.Errorf("run %d: expected 5 observations, got %v", i, result.Metrics["count"])
		}
	}
}

func TestRunnerAppliesEventsBeforeTick(t *testing.T) {
	s := newTestSim(t, 4)
	r := NewRunner(s)
	target := s.Snapshot().Nodes[3].Pos

	if !r.Send(Event{Kind: PointerDown, Pos: target}) {
		t.Fatal("send dropped")
	}
	if _, err := r.Run(context.Background(), RunConfig{Frames: 5}); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	f := s.Snapshot()
	if f.Dragged != 3 {
		t.Fatalf("expected node 3 dragged, got %d", f.Dragged)
	}
	if f.Nodes[3].Pos != target {
		t.Errorf("dragged node moved: %v -> %v", target, f.Nodes[3].Pos)
	}
}

func TestRunnerSendFull(t *testing.T) {
	r := NewRunnerWithBuffer(newTestSim(t, 2), 1)
	if !r.Send(Event{Kind: KeyDown}) {
		t.Fatal("first send should fit")
	}
	if r.Send(Event{Kind: KeyUp}) {
		t.Error("second send should be dropped")
	}
}

func TestRunnerCancel(t *testing.T) {
	r := NewRunner(newTestSim(t, 4))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result, err := r.Run(ctx, RunConfig{FPS: 120})
	if !errors.Is(err, dynamo.ErrContextCanceled) {
		t.Fatalf("expected ErrContextCanceled, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected the context cause to be kept, got %v", err)
	}
	if result == nil || result.Frames == 0 {
		t.Error("expected some frames before cancellation")
	}
}

func TestEnsembleRun(t *testing.T) {
	stiffness := []float64{1, 2, 3, 4}
	e := NewEnsemble(func(i int) (*Simulation, []dynamo.Metric, error) {
		p := physics.DefaultParams()
		p.Stiffness = stiffness[i]
		opts := DefaultOptions()
		opts.Seed = int64(i)
		s, err := New(p, opts)
		return s, []dynamo.Metric{&countMetric{}}, err
	}, len(stiffness))

	results, err := e.Run(context.Background(), RunConfig{Frames: 20})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != len(stiffness) {
		t.Fatalf("expected %d results, got %d", len(stiffness), len(results))
	}
	for i, r := range results {
		if r.Frames != 20 || r.Metrics["count"] != 20 {
			t.Errorf("run %d: frames=%d count=%v", i, r.Frames, r.Metrics["count"])
		}
	}
}

func TestEnsembleBuildError(t *testing.T) {
	e := NewEnsemble(func(i int) (*Simulation, []dynamo.Metric, error) {
		p := physics.DefaultParams()
		if i == 1 {
			p.Stiffness = -1
		}
		s, err := New(p, DefaultOptions())
		return s, nil, err
	}, 3)

	if _, err := e.Run(context.Background(), RunConfig{Frames: 1}); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}
