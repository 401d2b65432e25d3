package physics

import (
	"math"

	"github.com/quartercastle/vector"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/topology"
)

// ForceModel computes the net force on one node from the current state.
type ForceModel interface {
	Force(s *Store, adj topology.Adjacency, p Params, i int) dynamo.Vec2
}

// SpringForce is Hooke's law over every incident edge plus optional gravity,
// with one combined damping factor applied to the sum.
type SpringForce struct{}

func NewSpringForce() SpringForce { return SpringForce{} }

func (SpringForce) Force(s *Store, adj topology.Adjacency, p Params, i int) dynamo.Vec2 {
	node, ok := s.Node(i)
	if !ok {
		return dynamo.Vec2{}
	}

	g := p.gravityForce(node.Mass)
	total := vector.Vector{g.X, g.Y}

	for _, j := range adj.Neighbors(i) {
		other, ok := s.Node(j)
		if !ok {
			continue
		}
		d := vector.Vector{node.Pos.X - other.Pos.X, node.Pos.Y - other.Pos.Y}
		theta := math.Atan2(d.Y(), d.X())

		// (-k, 0) rotated onto the j->i line points from i back toward j.
		pull := vector.Vector{-p.Stiffness, 0}.Rotate(theta)
		total = total.Add(pull.Scale(d.Magnitude() - p.RestLength))
	}

	total = total.Scale(ForceDamping)
	return dynamo.Vec2{X: total.X(), Y: total.Y()}
}

// SpringEnergy is the elastic potential 0.5*k*(d-L)^2 summed over every edge.
func SpringEnergy(s *Store, adj topology.Adjacency, p Params) float64 {
	energy := 0.0
	for _, e := range adj.Edges() {
		a, okA := s.Node(e.A)
		b, okB := s.Node(e.B)
		if !okA || !okB {
			continue
		}
		stretch := a.Pos.Dist(b.Pos) - p.RestLength
		energy += 0.5 * p.Stiffness * stretch * stretch
	}
	return energy
}

// KineticEnergy is 0.5*m*|v|^2 summed over every node.
func KineticEnergy(s *Store) float64 {
	energy := 0.0
	for _, n := range s.Nodes() {
		energy += 0.5 * n.Mass * n.Vel.LenSq()
	}
	return energy
}
