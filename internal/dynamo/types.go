package dynamo

import (
	"fmt"
	"math"
)

// Vec2 is a 2D vector in screen space (y grows downward).
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64  { return v.Sub(o).Len() }
func (v Vec2) IsValid() bool        { return isFinite(v.X) && isFinite(v.Y) }
func (v Vec2) String() string       { return fmt.Sprintf("(%.3f, %.3f)", v.X, v.Y) }
func (v Vec2) Equal(o Vec2) bool    { return v.X == o.X && v.Y == o.Y }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) LenSq() float64       { return v.Dot(v) }
func (v Vec2) Div(f float64) Vec2   { return Vec2{v.X / f, v.Y / f} }

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Configurable is implemented by anything with live-tunable named parameters.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Frame is the read-only view a renderer needs for one frame.
type Frame struct {
	Tick    int
	Nodes   []FrameNode
	Edges   [][2]Vec2
	Links   [][2]int // node indices of each edge, a < b
	Dragged int      // -1 when nothing is dragged

	Width, Height float64
	RestLength    float64
	Stiffness     float64
}

type FrameNode struct {
	Pos    Vec2
	Vel    Vec2
	Mass   float64
	Radius float64
	Pinned bool
}

// Observer is notified after every completed frame step.
type Observer interface {
	OnFrame(f Frame)
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}
