package analysis

import "github.com/san-kum/springsim/internal/dynamo"

type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Trace records one coordinate of one node, and its velocity, every frame.
// It implements dynamo.Observer.
type Trace struct {
	Node     int
	Axis     Axis
	Position []float64
	Velocity []float64
}

func NewTrace(node int, axis Axis) *Trace {
	return &Trace{Node: node, Axis: axis}
}

func (t *Trace) OnFrame(f dynamo.Frame) {
	if t.Node < 0 || t.Node >= len(f.Nodes) {
		return
	}
	n := f.Nodes[t.Node]
	if t.Axis == AxisX {
		t.Position = append(t.Position, n.Pos.X)
		t.Velocity = append(t.Velocity, n.Vel.X)
		return
	}
	t.Position = append(t.Position, n.Pos.Y)
	t.Velocity = append(t.Velocity, n.Vel.Y)
}

func (t *Trace) Len() int { return len(t.Position) }

func (t *Trace) Reset() {
	t.Position = t.Position[:0]
	t.Velocity = t.Velocity[:0]
}
