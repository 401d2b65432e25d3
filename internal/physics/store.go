package physics

import (
	"math/rand"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Node is a simulated point mass.
type Node struct {
	Pos    dynamo.Vec2
	Vel    dynamo.Vec2
	Mass   float64
	Pinned bool
	Radius float64
}

// Store holds node state and the collision bounds. Nodes are kept by pointer
// so resizing never disturbs the identity of surviving nodes.
type Store struct {
	nodes  []*Node
	width  float64
	height float64
	rng    *rand.Rand
}

func NewStore(width, height float64, rng *rand.Rand) *Store {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Store{width: width, height: height, rng: rng}
}

func (s *Store) Len() int               { return len(s.nodes) }
func (s *Store) Nodes() []*Node         { return s.nodes }
func (s *Store) Bounds() (w, h float64) { return s.width, s.height }

func (s *Store) Node(i int) (*Node, bool) {
	if i < 0 || i >= len(s.nodes) {
		return nil, false
	}
	return s.nodes[i], true
}

func (s *Store) SetBounds(width, height float64) error {
	if width <= 0 {
		return dynamo.BoundsError("width", width, "must be > 0")
	}
	if height <= 0 {
		return dynamo.BoundsError("height", height, "must be > 0")
	}
	s.width, s.height = width, height
	return nil
}

// SetMass applies a uniform mass to every node.
func (s *Store) SetMass(mass float64) error {
	if mass <= 0 {
		return dynamo.BoundsError("mass", mass, "must be > 0")
	}
	for _, n := range s.nodes {
		n.Mass = mass
	}
	return nil
}

// Generate discards all nodes and lays out n new ones in a near-vertical
// column hanging from the top padding.
func (s *Store) Generate(n int, p Params) {
	s.nodes = make([]*Node, 0, max(n, 0))
	for i := 0; i < n; i++ {
		s.nodes = append(s.nodes, &Node{
			Pos: dynamo.Vec2{
				X: s.width/2 + s.jitter(i),
				Y: p.RestLength*float64(i) + LayoutPadding,
			},
			Mass:   p.Mass,
			Radius: NodeRadius,
		})
	}
}

// Resize grows or shrinks the collection from the tail. New nodes hang one
// rest length below the current last node, offset sideways by a small jitter.
func (s *Store) Resize(n int, p Params) {
	if n < 0 {
		n = 0
	}
	if n <= len(s.nodes) {
		for i := n; i < len(s.nodes); i++ {
			s.nodes[i] = nil
		}
		s.nodes = s.nodes[:n]
		return
	}

	for len(s.nodes) < n {
		i := len(s.nodes)
		pos := dynamo.Vec2{X: s.width / 2, Y: LayoutPadding}
		if i > 0 {
			last := s.nodes[i-1].Pos
			pos = dynamo.Vec2{X: last.X + s.jitter(i), Y: last.Y + p.RestLength}
		}
		s.nodes = append(s.nodes, &Node{Pos: pos, Mass: p.Mass, Radius: NodeRadius})
	}
}

func (s *Store) Positions() []dynamo.Vec2 {
	out := make([]dynamo.Vec2, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = n.Pos
	}
	return out
}

func (s *Store) jitter(i int) float64 {
	if i == 0 {
		return 0
	}
	return (s.rng.Float64() - 0.5) * JitterScale
}
