package control

import (
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

type State int

const (
	Idle State = iota
	Dragging
	ShiftArmed
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case ShiftArmed:
		return "shift"
	}
	return "idle"
}

// Key names a keyboard key. Only KeyShift changes controller state.
type Key string

const KeyShift Key = "Shift"

const noNode = -1

// Controller maps pointer and key events onto pin toggles and drags.
// It never integrates; the frame step reads Dragged to skip the held node.
type Controller struct {
	shift       bool
	dragged     int
	lastPointer dynamo.Vec2
	lastDelta   dynamo.Vec2
}

func New() *Controller {
	return &Controller{dragged: noNode}
}

func (c *Controller) State() State {
	if c.dragged != noNode {
		return Dragging
	}
	if c.shift {
		return ShiftArmed
	}
	return Idle
}

// Dragged returns the index of the held node.
func (c *Controller) Dragged() (int, bool) {
	return c.dragged, c.dragged != noNode
}

// DraggedIndex is Dragged flattened to -1 for "none".
func (c *Controller) DraggedIndex() int { return c.dragged }

func (c *Controller) LastDelta() dynamo.Vec2 { return c.lastDelta }

func (c *Controller) KeyDown(k Key) {
	if k == KeyShift {
		c.shift = true
	}
}

func (c *Controller) KeyUp(k Key) {
	if k == KeyShift {
		c.shift = false
	}
}

// SetShift syncs the modifier from front-ends that report it per event
// rather than as separate key transitions.
func (c *Controller) SetShift(down bool) { c.shift = down }

// PointerDown toggles the pin of the nearest node while shift is held,
// otherwise starts dragging it. It returns the affected node index.
func (c *Controller) PointerDown(s *physics.Store, at dynamo.Vec2) (int, bool) {
	idx, ok := Nearest(s.Nodes(), at)
	if !ok {
		return noNode, false
	}
	node := s.Nodes()[idx]

	if c.shift {
		node.Pinned = !node.Pinned
		if node.Pinned {
			node.Vel = dynamo.Vec2{}
		}
		return idx, true
	}

	c.dragged = idx
	c.lastPointer = at
	c.lastDelta = dynamo.Vec2{}
	node.Vel = dynamo.Vec2{}
	return idx, true
}

// PointerMove translates the dragged node by the pointer delta.
func (c *Controller) PointerMove(s *physics.Store, at dynamo.Vec2) {
	node, ok := c.held(s)
	if !ok {
		return
	}
	delta := at.Sub(c.lastPointer)
	node.Pos = node.Pos.Add(delta)
	c.lastPointer = at
	c.lastDelta = delta
}

// PointerUp releases the dragged node, throwing it with the last pointer delta.
func (c *Controller) PointerUp(s *physics.Store) {
	node, ok := c.held(s)
	if ok {
		node.Vel = c.lastDelta
	}
	c.dragged = noNode
	c.lastDelta = dynamo.Vec2{}
}

// Forget drops a drag whose node no longer exists after a resize.
func (c *Controller) Forget(n int) {
	if c.dragged >= n {
		c.dragged = noNode
		c.lastDelta = dynamo.Vec2{}
	}
}

func (c *Controller) Reset() {
	c.dragged = noNode
	c.lastDelta = dynamo.Vec2{}
	c.lastPointer = dynamo.Vec2{}
}

func (c *Controller) held(s *physics.Store) (*physics.Node, bool) {
	if c.dragged == noNode {
		return nil, false
	}
	node, ok := s.Node(c.dragged)
	if !ok {
		c.dragged = noNode
		return nil, false
	}
	return node, true
}

// Pinned lists the indices of pinned nodes in ascending order.
func Pinned(s *physics.Store) []int {
	var out []int
	for i, n := range s.Nodes() {
		if n.Pinned {
			out = append(out, i)
		}
	}
	return out
}
