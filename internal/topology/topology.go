package topology

import (
	"fmt"
	"strings"

	"github.com/san-kum/springsim/internal/dynamo"
)

type Mode int

const (
	// Chain links each node to its predecessor and successor (open path).
	Chain Mode = iota
	// Complete links every node to every other node.
	Complete
)

func (m Mode) String() string {
	switch m {
	case Chain:
		return "chain"
	case Complete:
		return "complete"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode accepts the mode names plus the "shape" alias used by the UI.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "chain", "linear", "":
		return Chain, nil
	case "complete", "shape", "full":
		return Complete, nil
	}
	return Chain, fmt.Errorf("%w: topology %q", dynamo.ErrUnknownVariant, s)
}

// Adjacency maps a node index to the ordered indices it is connected to.
// Built adjacencies are symmetric.
type Adjacency [][]int

// Edge is an unordered node pair stored with A < B.
type Edge struct {
	A, B int
}

// Build returns the adjacency for n nodes. n <= 0 yields an empty adjacency.
func Build(n int, mode Mode) Adjacency {
	if n <= 0 {
		return Adjacency{}
	}

	adj := make(Adjacency, n)
	switch mode {
	case Complete:
		for i := 0; i < n; i++ {
			links := make([]int, 0, n-1)
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				links = append(links, j)
			}
			adj[i] = links
		}
	default:
		for i := 0; i < n; i++ {
			links := make([]int, 0, 2)
			if i > 0 {
				links = append(links, i-1)
			}
			if i < n-1 {
				links = append(links, i+1)
			}
			adj[i] = links
		}
	}
	return adj
}

func (a Adjacency) Len() int { return len(a) }

func (a Adjacency) Degree(i int) int {
	if i < 0 || i >= len(a) {
		return 0
	}
	return len(a[i])
}

// Neighbors returns the indices connected to i, or nil when i is out of range.
func (a Adjacency) Neighbors(i int) []int {
	if i < 0 || i >= len(a) {
		return nil
	}
	return a[i]
}

// Edges lists every connection once, ordered by (A, B).
func (a Adjacency) Edges() []Edge {
	edges := make([]Edge, 0, len(a))
	for i, links := range a {
		for _, j := range links {
			if i < j {
				edges = append(edges, Edge{A: i, B: j})
			}
		}
	}
	return edges
}

// EdgeCount is len(a.Edges()) without allocating.
func (a Adjacency) EdgeCount() int {
	count := 0
	for i, links := range a {
		for _, j := range links {
			if i < j {
				count++
			}
		}
	}
	return count
}
