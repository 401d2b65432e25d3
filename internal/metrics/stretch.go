package metrics

import (
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

// MaxStretch tracks the largest |d - L| seen on any edge.
type MaxStretch struct {
	name string
	max  float64
}

func NewMaxStretch() *MaxStretch {
	return &MaxStretch{name: "max_stretch"}
}

func (m *MaxStretch) Name() string {
	return m.name
}

func (m *MaxStretch) Observe(f dynamo.Frame) {
	for _, e := range f.Edges {
		m.max = math.Max(m.max, math.Abs(e[0].Dist(e[1])-f.RestLength))
	}
}

func (m *MaxStretch) Value() float64 {
	return m.max
}

func (m *MaxStretch) Reset() {
	m.max = 0
}
