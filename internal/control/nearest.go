package control

import (
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

// Nearest returns the index of the node closest to p. Ties go to the lowest
// index. ok is false only for an empty collection, so index 0 is a valid hit.
func Nearest(nodes []*physics.Node, p dynamo.Vec2) (idx int, ok bool) {
	if len(nodes) == 0 {
		return noNode, false
	}
	best := nodes[0].Pos.Sub(p).LenSq()
	idx = 0
	for i := 1; i < len(nodes); i++ {
		if d := nodes[i].Pos.Sub(p).LenSq(); d < best {
			best, idx = d, i
		}
	}
	return idx, true
}
