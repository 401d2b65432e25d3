package sim

import (
	"github.com/san-kum/springsim/internal/control"
	"github.com/san-kum/springsim/internal/dynamo"
)

// Poll is one frame of input as an immediate-mode front-end reads it.
type Poll struct {
	Pos      dynamo.Vec2
	Shift    bool
	Pressed  bool // button went down this frame
	Down     bool
	Released bool // button went up this frame
}

// Tracker turns successive polls into discrete events. A pointer move is
// only reported while the button is held and the position changed.
type Tracker struct {
	shift bool
	last  dynamo.Vec2
	seen  bool
}

func (t *Tracker) Events(p Poll) []Event {
	var out []Event
	if p.Shift != t.shift {
		kind := KeyUp
		if p.Shift {
			kind = KeyDown
		}
		out = append(out, Event{Kind: kind, Key: control.KeyShift})
		t.shift = p.Shift
	}

	moved := t.seen && !p.Pos.Equal(t.last)
	t.last, t.seen = p.Pos, true

	switch {
	case p.Pressed:
		out = append(out, Event{Kind: PointerDown, Pos: p.Pos})
	case p.Down && moved:
		out = append(out, Event{Kind: PointerMove, Pos: p.Pos})
	}
	if p.Released {
		out = append(out, Event{Kind: PointerUp, Pos: p.Pos})
	}
	return out
}

// Apply feeds every event from p to s.
func (t *Tracker) Apply(s *Simulation, p Poll) {
	for _, e := range t.Events(p) {
		s.HandleEvent(e)
	}
}
