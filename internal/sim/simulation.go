package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/san-kum/springsim/internal/control"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/topology"
)

// Simulation owns the whole network: nodes, topology, parameters and
// interaction state. Every exported method is safe for concurrent use.
type Simulation struct {
	mu sync.Mutex

	params physics.Params
	store  *physics.Store
	adj    topology.Adjacency
	ctrl   *control.Controller
	step   *integrators.Damped
	fixed  map[string]bool
	tick   int
}

func New(p physics.Params, opts Options) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if opts.Nodes < 0 {
		return nil, dynamo.BoundsError("nodes", float64(opts.Nodes), "must be >= 0")
	}

	step := integrators.NewDamped()
	if opts.Force != nil {
		step = integrators.NewDampedWith(opts.Force)
	}

	s := &Simulation{
		params: p,
		store:  physics.NewStore(p.Width, p.Height, rand.New(rand.NewSource(opts.Seed))),
		ctrl:   control.New(),
		step:   step,
		fixed:  make(map[string]bool, len(opts.Fixed)),
	}
	for _, name := range opts.Fixed {
		s.fixed[name] = true
	}

	s.store.Generate(opts.Nodes, p)
	s.adj = topology.Build(opts.Nodes, p.Mode)

	pinned := opts.Pinned
	if pinned == nil && p.Gravity {
		pinned = []int{0}
	}
	for _, i := range pinned {
		if n, ok := s.store.Node(i); ok {
			n.Pinned = true
		}
	}
	return s, nil
}

// Step advances one frame. A NaN or Inf anywhere aborts the step with a
// *dynamo.SimulationError wrapping dynamo.ErrInvalidState; lowering the
// stiffness is the usual cure.
func (s *Simulation) Step() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.step.Step(s.store, s.adj, s.params, s.ctrl.DraggedIndex())
	if err != nil {
		var simErr *dynamo.SimulationError
		if errors.As(err, &simErr) {
			simErr.Tick = s.tick
		}
		return err
	}
	s.tick++
	return nil
}

// Rebuild recomputes the adjacency for the current node count and mode.
func (s *Simulation) Rebuild() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rebuild()
}

func (s *Simulation) rebuild() {
	s.adj = topology.Build(s.store.Len(), s.params.Mode)
}

// Resize grows or shrinks the network from the tail and rebuilds the topology.
func (s *Simulation) Resize(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resize(n)
}

func (s *Simulation) resize(n int) error {
	if n < 0 {
		return dynamo.BoundsError("nodes", float64(n), "must be >= 0")
	}
	s.store.Resize(n, s.params)
	s.ctrl.Forget(n)
	s.rebuild()
	return nil
}

// SetMode switches topology without touching node state.
func (s *Simulation) SetMode(m topology.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.Mode = m
	s.rebuild()
}

// SetBounds resizes the collision box, for example after a window resize.
func (s *Simulation) SetBounds(width, height float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.SetBounds(width, height); err != nil {
		return err
	}
	s.params.Width, s.params.Height = width, height
	return nil
}

// GetParams implements dynamo.Configurable
func (s *Simulation) GetParams() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.params.GetParams()
	out["nodes"] = float64(s.store.Len())
	out["mode"] = float64(s.params.Mode)
	return out
}

// SetParam implements dynamo.Configurable. Besides the physics parameters it
// accepts "nodes" (resize) and "mode" (0 chain, 1 complete).
func (s *Simulation) SetParam(name string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fixed[name] {
		return fmt.Errorf("%w: %s is fixed for this network", dynamo.ErrUnknownParameter, name)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return dynamo.BoundsError(name, value, "must be finite")
	}

	switch name {
	case "nodes":
		return s.resize(int(math.Round(value)))
	case "mode":
		m := topology.Mode(int(value))
		if m != topology.Chain && m != topology.Complete {
			return fmt.Errorf("%w: mode %g", dynamo.ErrUnknownVariant, value)
		}
		s.params.Mode = m
		s.rebuild()
		return nil
	}

	if err := s.params.SetParam(name, value); err != nil {
		return err
	}
	if name == "mass" {
		return s.store.SetMass(value)
	}
	return nil
}

func (s *Simulation) Params() physics.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// HandleEvent feeds one input event to the interaction controller.
func (s *Simulation) HandleEvent(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e.Kind {
	case KeyDown:
		s.ctrl.KeyDown(e.Key)
	case KeyUp:
		s.ctrl.KeyUp(e.Key)
	case PointerDown:
		s.ctrl.PointerDown(s.store, e.Pos)
	case PointerMove:
		s.ctrl.PointerMove(s.store, e.Pos)
	case PointerUp:
		s.ctrl.PointerUp(s.store)
	}
}

func (s *Simulation) Interaction() control.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.State()
}

// Pinned lists pinned node indices in ascending order.
func (s *Simulation) Pinned() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return control.Pinned(s.store)
}

// Pin sets the pinned flag of node i directly, bypassing the controller.
func (s *Simulation) Pin(i int, pinned bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.store.Node(i)
	if !ok {
		return false
	}
	n.Pinned = pinned
	if pinned {
		n.Vel = dynamo.Vec2{}
	}
	return true
}

func (s *Simulation) Tick() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

func (s *Simulation) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len()
}

func (s *Simulation) Edges() []topology.Edge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adj.Edges()
}

func (s *Simulation) Degree(i int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adj.Degree(i)
}

// Snapshot copies everything a renderer needs for one frame.
func (s *Simulation) Snapshot() dynamo.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	nodes := s.store.Nodes()
	f := dynamo.Frame{
		Tick:       s.tick,
		Nodes:      make([]dynamo.FrameNode, len(nodes)),
		Dragged:    s.ctrl.DraggedIndex(),
		Width:      s.params.Width,
		Height:     s.params.Height,
		RestLength: s.params.RestLength,
		Stiffness:  s.params.Stiffness,
	}
	for i, n := range nodes {
		f.Nodes[i] = dynamo.FrameNode{
			Pos:    n.Pos,
			Vel:    n.Vel,
			Mass:   n.Mass,
			Radius: n.Radius,
			Pinned: n.Pinned,
		}
	}

	edges := s.adj.Edges()
	f.Edges = make([][2]dynamo.Vec2, 0, len(edges))
	f.Links = make([][2]int, 0, len(edges))
	for _, e := range edges {
		f.Edges = append(f.Edges, [2]dynamo.Vec2{nodes[e.A].Pos, nodes[e.B].Pos})
		f.Links = append(f.Links, [2]int{e.A, e.B})
	}
	return f
}

// Energy returns kinetic and elastic energy of the current state.
func (s *Simulation) Energy() (kinetic, spring float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return physics.KineticEnergy(s.store), physics.SpringEnergy(s.store, s.adj, s.params)
}
