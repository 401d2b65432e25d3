package sim_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springsim/internal/control"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
	"github.com/san-kum/springsim/internal/topology"
)

func newSim(nodes int, mutate func(*physics.Params)) *sim.Simulation {
	p := physics.DefaultParams()
	if mutate != nil {
		mutate(&p)
	}
	opts := sim.DefaultOptions()
	opts.Nodes = nodes
	s, err := sim.New(p, opts)
	Expect(err).NotTo(HaveOccurred())
	return s
}

func positions(f dynamo.Frame) []dynamo.Vec2 {
	out := make([]dynamo.Vec2, len(f.Nodes))
	for i, n := range f.Nodes {
		out[i] = n.Pos
	}
	return out
}

var _ = Describe("Simulation", func() {
	Describe("construction", func() {
		It("uses the default layout", func() {
			s := newSim(4, nil)
			f := s.Snapshot()

			Expect(f.Nodes).To(HaveLen(4))
			Expect(f.Nodes[0].Pos).To(Equal(dynamo.Vec2{X: 400, Y: 120}))
			for i, n := range f.Nodes {
				Expect(n.Pos.Y).To(BeNumerically("~", 120+40*float64(i), 1e-9))
				Expect(n.Pos.X).To(BeNumerically("~", 400, 5))
				Expect(n.Mass).To(Equal(10.0))
				Expect(n.Radius).To(Equal(4.0))
				Expect(n.Vel).To(Equal(dynamo.Vec2{}))
			}
			Expect(f.Edges).To(HaveLen(3))
			Expect(f.Dragged).To(Equal(-1))
		})

		It("pins node 0 when gravity is on", func() {
			Expect(newSim(4, nil).Pinned()).To(Equal([]int{0}))
		})

		It("pins nothing without gravity", func() {
			s := newSim(4, func(p *physics.Params) { p.Gravity = false })
			Expect(s.Pinned()).To(BeEmpty())
		})

		It("honours an explicit pinned set", func() {
			opts := sim.DefaultOptions()
			opts.Pinned = []int{1, 3, 99}
			s, err := sim.New(physics.DefaultParams(), opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Pinned()).To(Equal([]int{1, 3}))
		})

		It("rejects invalid parameters", func() {
			p := physics.DefaultParams()
			p.Mass = 0
			_, err := sim.New(p, sim.DefaultOptions())
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))

			opts := sim.DefaultOptions()
			opts.Nodes = -1
			_, err = sim.New(physics.DefaultParams(), opts)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("is harmless with zero nodes", func() {
			s := newSim(0, nil)
			Expect(s.Step()).To(Succeed())
			f := s.Snapshot()
			Expect(f.Nodes).To(BeEmpty())
			Expect(f.Edges).To(BeEmpty())
			s.HandleEvent(sim.Event{Kind: sim.PointerDown})
			Expect(s.Interaction()).To(Equal(control.Idle))
		})
	})

	Describe("growth and shrink", func() {
		It("keeps surviving nodes through 5 -> 7 -> 5", func() {
			s := newSim(5, nil)
			for i := 0; i < 10; i++ {
				Expect(s.Step()).To(Succeed())
			}
			before := s.Snapshot()
			Expect(before.Edges).To(HaveLen(4))

			Expect(s.Resize(7)).To(Succeed())
			grown := s.Snapshot()
			Expect(grown.Nodes).To(HaveLen(7))
			Expect(grown.Edges).To(HaveLen(6))
			Expect(positions(grown)[:5]).To(Equal(positions(before)))
			for i := 5; i < 7; i++ {
				prev := grown.Nodes[i-1].Pos
				Expect(grown.Nodes[i].Pos.Y).To(BeNumerically("~", prev.Y+40, 1e-9))
				Expect(grown.Nodes[i].Pos.X).To(BeNumerically("~", prev.X, 5))
				Expect(grown.Nodes[i].Pinned).To(BeFalse())
			}

			Expect(s.Resize(5)).To(Succeed())
			shrunk := s.Snapshot()
			Expect(shrunk.Nodes).To(HaveLen(5))
			Expect(shrunk.Edges).To(HaveLen(4))
			Expect(shrunk.Nodes).To(Equal(before.Nodes))
		})

		It("resizes through SetParam", func() {
			s := newSim(4, nil)
			Expect(s.SetParam("nodes", 6)).To(Succeed())
			Expect(s.Len()).To(Equal(6))
			Expect(s.GetParams()["nodes"]).To(Equal(6.0))
		})

		It("drops a drag on a removed node", func() {
			s := newSim(5, nil)
			last := s.Snapshot().Nodes[4].Pos
			s.HandleEvent(sim.Event{Kind: sim.PointerDown, Pos: last})
			Expect(s.Snapshot().Dragged).To(Equal(4))

			Expect(s.Resize(3)).To(Succeed())
			Expect(s.Snapshot().Dragged).To(Equal(-1))
			Expect(s.Step()).To(Succeed())
		})
	})

	Describe("topology", func() {
		It("switches mode without moving nodes", func() {
			s := newSim(5, nil)
			before := positions(s.Snapshot())

			s.SetMode(topology.Complete)
			f := s.Snapshot()
			Expect(f.Edges).To(HaveLen(10))
			Expect(positions(f)).To(Equal(before))
			for i := 0; i < 5; i++ {
				Expect(s.Degree(i)).To(Equal(4))
			}

			Expect(s.SetParam("mode", 0)).To(Succeed())
			Expect(s.Edges()).To(HaveLen(4))
			Expect(s.Degree(0)).To(Equal(1))
			Expect(s.Degree(2)).To(Equal(2))
		})

		It("rejects an unknown mode", func() {
			s := newSim(3, nil)
			Expect(s.SetParam("mode", 7)).To(MatchError(dynamo.ErrUnknownVariant))
		})
	})

	Describe("parameters", func() {
		It("applies mass to every node", func() {
			s := newSim(4, nil)
			Expect(s.SetParam("mass", 50)).To(Succeed())
			for _, n := range s.Snapshot().Nodes {
				Expect(n.Mass).To(Equal(50.0))
			}
		})

		It("rejects out of range values without changing state", func() {
			s := newSim(4, nil)
			Expect(s.SetParam("mass", 0)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(s.SetParam("k", -1)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(s.SetParam("length", -5)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(s.SetParam("nodes", -1)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(s.SetParam("k", math.NaN())).To(MatchError(dynamo.ErrParameterBounds))

			params := s.GetParams()
			Expect(params["mass"]).To(Equal(10.0))
			Expect(params["k"]).To(Equal(2.0))
			Expect(params["length"]).To(Equal(40.0))
		})

		It("refuses fixed parameters", func() {
			opts := sim.DefaultOptions()
			opts.Fixed = []string{"mass", "gravity"}
			s, err := sim.New(physics.DefaultParams(), opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.SetParam("mass", 20)).To(MatchError(dynamo.ErrUnknownParameter))
			Expect(s.SetParam("k", 3)).To(Succeed())
		})

		It("rejects unknown names", func() {
			Expect(newSim(2, nil).SetParam("spin", 1)).To(MatchError(dynamo.ErrUnknownParameter))
		})
	})

	Describe("dynamics", func() {
		It("keeps a pinned node fixed", func() {
			s := newSim(4, nil)
			anchor := s.Snapshot().Nodes[0].Pos
			for i := 0; i < 200; i++ {
				Expect(s.Step()).To(Succeed())
			}
			f := s.Snapshot()
			Expect(f.Nodes[0].Pos).To(Equal(anchor))
			Expect(f.Nodes[0].Vel).To(Equal(dynamo.Vec2{}))
			Expect(f.Tick).To(Equal(200))
		})

		It("keeps every node inside the bounds", func() {
			s := newSim(6, func(p *physics.Params) { p.Gravity = false })
			s.HandleEvent(sim.Event{Kind: sim.PointerDown, Pos: dynamo.Vec2{X: 400, Y: 120}})
			s.HandleEvent(sim.Event{Kind: sim.PointerMove, Pos: dynamo.Vec2{X: 460, Y: 100}})
			s.HandleEvent(sim.Event{Kind: sim.PointerUp})

			for i := 0; i < 300; i++ {
				Expect(s.Step()).To(Succeed())
				for _, n := range s.Snapshot().Nodes {
					Expect(n.Pos.X).To(BeNumerically(">=", n.Radius))
					Expect(n.Pos.X).To(BeNumerically("<=", 800-n.Radius))
					Expect(n.Pos.Y).To(BeNumerically(">=", n.Radius))
					Expect(n.Pos.Y).To(BeNumerically("<=", 600-n.Radius))
				}
			}
		})

		It("reports the tick of a blow-up", func() {
			s := newSim(3, nil)
			for i := 0; i < 3; i++ {
				Expect(s.Step()).To(Succeed())
			}
			last := s.Snapshot().Nodes[2].Pos
			s.HandleEvent(sim.Event{Kind: sim.PointerDown, Pos: last})
			s.HandleEvent(sim.Event{Kind: sim.PointerMove, Pos: dynamo.Vec2{X: math.Inf(1), Y: last.Y}})
			s.HandleEvent(sim.Event{Kind: sim.PointerUp})

			err := s.Step()
			Expect(err).To(MatchError(dynamo.ErrInvalidState))
			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Tick).To(Equal(3))
			Expect(s.Tick()).To(Equal(3))
		})
	})

	Describe("interaction", func() {
		It("throws a dragged node with the last pointer delta", func() {
			s := newSim(4, func(p *physics.Params) { p.Gravity = false })
			target := s.Snapshot().Nodes[2].Pos

			s.HandleEvent(sim.Event{Kind: sim.PointerDown, Pos: target})
			Expect(s.Interaction()).To(Equal(control.Dragging))
			s.HandleEvent(sim.Event{Kind: sim.PointerMove, Pos: target.Add(dynamo.Vec2{X: 5, Y: -3})})

			f := s.Snapshot()
			Expect(f.Dragged).To(Equal(2))
			Expect(f.Nodes[2].Pos).To(Equal(target.Add(dynamo.Vec2{X: 5, Y: -3})))

			s.HandleEvent(sim.Event{Kind: sim.PointerUp})
			f = s.Snapshot()
			Expect(f.Dragged).To(Equal(-1))
			Expect(f.Nodes[2].Vel).To(Equal(dynamo.Vec2{X: 5, Y: -3}))
		})

		It("does not integrate the dragged node", func() {
			s := newSim(4, nil)
			target := s.Snapshot().Nodes[3].Pos
			s.HandleEvent(sim.Event{Kind: sim.PointerDown, Pos: target})
			for i := 0; i < 20; i++ {
				Expect(s.Step()).To(Succeed())
			}
			Expect(s.Snapshot().Nodes[3].Pos).To(Equal(target))
		})

		It("toggles pins with shift held", func() {
			s := newSim(4, nil)
			second := s.Snapshot().Nodes[1].Pos

			s.HandleEvent(sim.Event{Kind: sim.KeyDown, Key: control.KeyShift})
			s.HandleEvent(sim.Event{Kind: sim.PointerDown, Pos: second})
			Expect(s.Pinned()).To(Equal([]int{0, 1}))
			Expect(s.Interaction()).To(Equal(control.ShiftArmed))

			s.HandleEvent(sim.Event{Kind: sim.PointerDown, Pos: s.Snapshot().Nodes[0].Pos})
			Expect(s.Pinned()).To(Equal([]int{1}))

			s.HandleEvent(sim.Event{Kind: sim.KeyUp, Key: control.KeyShift})
			Expect(s.Interaction()).To(Equal(control.Idle))
		})
	})

	It("resizes the collision box", func() {
		s := newSim(2, nil)
		Expect(s.SetBounds(0, 10)).To(MatchError(dynamo.ErrParameterBounds))
		Expect(s.SetBounds(300, 200)).To(Succeed())
		f := s.Snapshot()
		Expect(f.Width).To(Equal(300.0))
		Expect(f.Height).To(Equal(200.0))
	})
})
