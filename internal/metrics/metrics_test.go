package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
)

func twoNodeFrame(dx float64, vel dynamo.Vec2) dynamo.Frame {
	a := dynamo.Vec2{X: 100, Y: 100}
	b := dynamo.Vec2{X: 100 + dx, Y: 100}
	return dynamo.Frame{
		Nodes: []dynamo.FrameNode{
			{Pos: a, Mass: 2},
			{Pos: b, Vel: vel, Mass: 2},
		},
		Edges:      [][2]dynamo.Vec2{{a, b}},
		Dragged:    -1,
		RestLength: 40,
		Stiffness:  2,
	}
}

func TestEnergyValues(t *testing.T) {
	f := twoNodeFrame(50, dynamo.Vec2{X: 3, Y: 4})

	tests := []struct {
		name   string
		metric dynamo.Metric
		want   float64
	}{
		{"kinetic", NewKineticEnergy(), 0.5 * 2 * 25},
		{"spring", NewSpringEnergy(), 0.5 * 2 * 10 * 10},
		{"stretch", NewMaxStretch(), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.metric.Observe(f)
			if got := tt.metric.Value(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("%s = %v, want %v", tt.metric.Name(), got, tt.want)
			}
			tt.metric.Reset()
			if got := tt.metric.Value(); got != 0 {
				t.Errorf("%s after reset = %v, want 0", tt.metric.Name(), got)
			}
		})
	}
}

func TestMaxStretchKeepsPeak(t *testing.T) {
	m := NewMaxStretch()
	m.Observe(twoNodeFrame(60, dynamo.Vec2{}))
	m.Observe(twoNodeFrame(35, dynamo.Vec2{}))
	if m.Value() != 20 {
		t.Errorf("expected peak 20, got %v", m.Value())
	}
}

func TestDragShare(t *testing.T) {
	d := NewDragShare()
	f := twoNodeFrame(40, dynamo.Vec2{})
	d.Observe(f)
	f.Dragged = 1
	d.Observe(f)
	d.Observe(f)
	d.Observe(f)
	if d.Value() != 0.75 {
		t.Errorf("expected 0.75, got %v", d.Value())
	}
}

func TestDissipationInSimulation(t *testing.T) {
	p := physics.DefaultParams()
	p.Gravity = false
	opts := sim.DefaultOptions()
	opts.Nodes = 5
	s, err := sim.New(p, opts)
	if err != nil {
		t.Fatal(err)
	}

	// stretch the chain by dragging its tail sideways and letting go
	tail := s.Snapshot().Nodes[4].Pos
	s.HandleEvent(sim.Event{Kind: sim.PointerDown, Pos: tail})
	s.HandleEvent(sim.Event{Kind: sim.PointerMove, Pos: tail.Add(dynamo.Vec2{X: 80})})
	s.HandleEvent(sim.Event{Kind: sim.PointerUp})

	r := sim.NewRunner(s)
	for _, m := range All() {
		r.AddMetric(m)
	}
	result, err := r.Run(context.Background(), sim.RunConfig{Frames: 600})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if d := result.Metrics["dissipation"]; d < 0.9 {
		t.Errorf("expected most energy dissipated, got %v", d)
	}
	if result.Metrics["max_stretch"] < 40 {
		t.Errorf("expected the drag to stretch an edge, got %v", result.Metrics["max_stretch"])
	}
	if result.Metrics["drag_share"] != 0 {
		t.Errorf("expected no drag frames, got %v", result.Metrics["drag_share"])
	}
}
