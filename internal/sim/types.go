package sim

import (
	"github.com/san-kum/springsim/internal/control"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

type EventKind int

const (
	KeyDown EventKind = iota
	KeyUp
	PointerDown
	PointerMove
	PointerUp
)

func (k EventKind) String() string {
	switch k {
	case KeyDown:
		return "key-down"
	case KeyUp:
		return "key-up"
	case PointerDown:
		return "pointer-down"
	case PointerMove:
		return "pointer-move"
	case PointerUp:
		return "pointer-up"
	}
	return "unknown"
}

// Event is a single user input forwarded from a front-end.
type Event struct {
	Kind EventKind
	Key  control.Key
	Pos  dynamo.Vec2
}

// Options configure a Simulation beyond its physical parameters.
type Options struct {
	Nodes int
	Seed  int64

	// Pinned lists the nodes pinned at start. When nil, node 0 is pinned
	// if gravity is on so the network hangs instead of falling.
	Pinned []int

	// Fixed names parameters SetParam must refuse.
	Fixed []string

	Force physics.ForceModel
}

func DefaultOptions() Options {
	return Options{Nodes: physics.DefaultNodes, Seed: 1}
}

type RunConfig struct {
	Frames int // <= 0 runs until the context ends
	FPS    int // <= 0 steps as fast as possible
}

type Result struct {
	Frames  int
	Final   dynamo.Frame
	Metrics map[string]float64
}
