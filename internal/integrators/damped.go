package integrators

import (
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/topology"
)

// NoDrag is passed as the dragged index when no node is being dragged.
const NoDrag = -1

// Damped advances the network by one frame. The frame cadence is the implicit
// time step: forces are applied directly as velocity deltas.
type Damped struct {
	force   physics.ForceModel
	scratch []dynamo.Vec2
}

func NewDamped() *Damped {
	return &Damped{force: physics.SpringForce{}}
}

func NewDampedWith(force physics.ForceModel) *Damped {
	return &Damped{force: force}
}

// Step integrates every free node. Pinned nodes have their velocity zeroed
// and keep their position; the dragged node is left entirely alone.
//
// All forces are evaluated against the pre-step positions so the result does
// not depend on node order.
func (d *Damped) Step(s *physics.Store, adj topology.Adjacency, p physics.Params, dragged int) error {
	nodes := s.Nodes()
	if cap(d.scratch) < len(nodes) {
		d.scratch = make([]dynamo.Vec2, len(nodes))
	}
	acc := d.scratch[:len(nodes)]

	for i, n := range nodes {
		if n.Pinned || i == dragged {
			acc[i] = dynamo.Vec2{}
			continue
		}
		acc[i] = d.force.Force(s, adj, p, i).Div(n.Mass)
	}

	w, h := s.Bounds()
	for i, n := range nodes {
		if i == dragged {
			continue
		}
		if n.Pinned {
			n.Vel = dynamo.Vec2{}
			continue
		}

		n.Vel = n.Vel.Add(acc[i])
		n.Pos = n.Pos.Add(n.Vel)
		n.Vel = n.Vel.Scale(physics.VelocityDamping)

		n.Pos.X, n.Vel.X = collide(n.Pos.X, n.Vel.X, n.Radius, w)
		n.Pos.Y, n.Vel.Y = collide(n.Pos.Y, n.Vel.Y, n.Radius, h)

		if !n.Pos.IsValid() || !n.Vel.IsValid() {
			return &dynamo.SimulationError{Node: i, Wrapped: dynamo.ErrInvalidState}
		}
	}
	return nil
}

// collide clamps one axis into [r, bound-r] and bounces the velocity.
func collide(pos, vel, r, bound float64) (float64, float64) {
	if pos+r > bound {
		return bound - r, vel * physics.Restitution
	}
	if pos-r < 0 {
		return r, vel * physics.Restitution
	}
	return pos, vel
}
