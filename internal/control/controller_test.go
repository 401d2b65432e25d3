package control_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springsim/internal/control"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

func storeAt(points ...dynamo.Vec2) *physics.Store {
	p := physics.DefaultParams()
	s := physics.NewStore(p.Width, p.Height, nil)
	s.Generate(len(points), p)
	for i, n := range s.Nodes() {
		n.Pos = points[i]
	}
	return s
}

var _ = Describe("Nearest", func() {
	It("reports not found for an empty collection", func() {
		_, ok := control.Nearest(nil, dynamo.Vec2{X: 1, Y: 1})
		Expect(ok).To(BeFalse())
	})

	It("finds index 0 as a real hit", func() {
		s := storeAt(dynamo.Vec2{X: 10, Y: 10}, dynamo.Vec2{X: 100, Y: 100})
		idx, ok := control.Nearest(s.Nodes(), dynamo.Vec2{X: 12, Y: 9})
		Expect(ok).To(BeTrue())
		Expect(idx).To(Equal(0))
	})

	It("breaks ties toward the lower index", func() {
		s := storeAt(
			dynamo.Vec2{X: 0, Y: 50},
			dynamo.Vec2{X: 20, Y: 0},
			dynamo.Vec2{X: 0, Y: 0},
			dynamo.Vec2{X: -20, Y: 0},
		)
		idx, ok := control.Nearest(s.Nodes(), dynamo.Vec2{})
		Expect(ok).To(BeTrue())
		Expect(idx).To(Equal(2))

		idx, _ = control.Nearest(s.Nodes(), dynamo.Vec2{X: 0, Y: 10})
		Expect(idx).To(Equal(2))

		tie := storeAt(dynamo.Vec2{X: 10}, dynamo.Vec2{X: -10})
		idx, _ = control.Nearest(tie.Nodes(), dynamo.Vec2{})
		Expect(idx).To(Equal(0))
	})
})

var _ = Describe("Controller", func() {
	var (
		c *control.Controller
		s *physics.Store
	)

	BeforeEach(func() {
		c = control.New()
		s = storeAt(
			dynamo.Vec2{X: 100, Y: 100},
			dynamo.Vec2{X: 100, Y: 140},
			dynamo.Vec2{X: 100, Y: 180},
			dynamo.Vec2{X: 100, Y: 220},
		)
	})

	It("starts idle", func() {
		Expect(c.State()).To(Equal(control.Idle))
		_, ok := c.Dragged()
		Expect(ok).To(BeFalse())
		Expect(c.DraggedIndex()).To(Equal(-1))
	})

	Describe("shift", func() {
		It("arms on key down and disarms on key up", func() {
			c.KeyDown(control.KeyShift)
			Expect(c.State()).To(Equal(control.ShiftArmed))
			c.KeyUp(control.KeyShift)
			Expect(c.State()).To(Equal(control.Idle))
		})

		It("ignores other keys", func() {
			c.KeyDown(control.Key("a"))
			Expect(c.State()).To(Equal(control.Idle))
		})

		It("toggles the pin of the nearest node without dragging", func() {
			c.KeyDown(control.KeyShift)
			s.Nodes()[1].Vel = dynamo.Vec2{X: 3, Y: 3}

			idx, ok := c.PointerDown(s, dynamo.Vec2{X: 101, Y: 142})
			Expect(ok).To(BeTrue())
			Expect(idx).To(Equal(1))
			Expect(s.Nodes()[1].Pinned).To(BeTrue())
			Expect(s.Nodes()[1].Vel).To(Equal(dynamo.Vec2{}))
			Expect(c.State()).To(Equal(control.ShiftArmed))
			Expect(control.Pinned(s)).To(Equal([]int{1}))

			c.PointerDown(s, dynamo.Vec2{X: 99, Y: 139})
			Expect(s.Nodes()[1].Pinned).To(BeFalse())
			Expect(control.Pinned(s)).To(BeEmpty())
		})

		It("can pin the first node", func() {
			c.KeyDown(control.KeyShift)
			idx, ok := c.PointerDown(s, dynamo.Vec2{X: 100, Y: 90})
			Expect(ok).To(BeTrue())
			Expect(idx).To(Equal(0))
			Expect(s.Nodes()[0].Pinned).To(BeTrue())
		})
	})

	Describe("drag", func() {
		It("zeroes velocity when the drag starts", func() {
			s.Nodes()[2].Vel = dynamo.Vec2{X: 9, Y: -4}
			idx, ok := c.PointerDown(s, dynamo.Vec2{X: 100, Y: 181})
			Expect(ok).To(BeTrue())
			Expect(idx).To(Equal(2))
			Expect(c.State()).To(Equal(control.Dragging))
			Expect(s.Nodes()[2].Vel).To(Equal(dynamo.Vec2{}))
		})

		It("moves the node by the pointer delta and throws it on release", func() {
			start := dynamo.Vec2{X: 100, Y: 180}
			c.PointerDown(s, start)
			c.PointerMove(s, start.Add(dynamo.Vec2{X: 5, Y: -3}))

			Expect(s.Nodes()[2].Pos).To(Equal(dynamo.Vec2{X: 105, Y: 177}))
			Expect(c.LastDelta()).To(Equal(dynamo.Vec2{X: 5, Y: -3}))

			c.PointerUp(s)
			Expect(s.Nodes()[2].Vel).To(Equal(dynamo.Vec2{X: 5, Y: -3}))
			Expect(c.State()).To(Equal(control.Idle))
		})

		It("throws with the last delta only", func() {
			c.PointerDown(s, dynamo.Vec2{X: 100, Y: 100})
			c.PointerMove(s, dynamo.Vec2{X: 130, Y: 100})
			c.PointerMove(s, dynamo.Vec2{X: 132, Y: 101})
			c.PointerUp(s)

			Expect(s.Nodes()[0].Pos).To(Equal(dynamo.Vec2{X: 132, Y: 101}))
			Expect(s.Nodes()[0].Vel).To(Equal(dynamo.Vec2{X: 2, Y: 1}))
		})

		It("releases without a throw when the pointer never moved", func() {
			c.PointerDown(s, dynamo.Vec2{X: 100, Y: 220})
			c.PointerUp(s)
			Expect(s.Nodes()[3].Vel).To(Equal(dynamo.Vec2{}))
		})
	})

	Describe("malformed events", func() {
		It("ignores move and release without a press", func() {
			before := *s.Nodes()[0]
			c.PointerMove(s, dynamo.Vec2{X: 500, Y: 500})
			c.PointerUp(s)
			Expect(*s.Nodes()[0]).To(Equal(before))
			Expect(c.State()).To(Equal(control.Idle))
		})

		It("ignores presses on an empty store", func() {
			empty := storeAt()
			_, ok := c.PointerDown(empty, dynamo.Vec2{})
			Expect(ok).To(BeFalse())
			Expect(c.State()).To(Equal(control.Idle))
		})

		It("drops a drag whose node was removed", func() {
			c.PointerDown(s, dynamo.Vec2{X: 100, Y: 220})
			c.Forget(3)
			_, ok := c.Dragged()
			Expect(ok).To(BeFalse())
		})
	})
})
