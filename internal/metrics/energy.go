package metrics

import (
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Kinetic is 0.5*m*|v|^2 summed over the frame's nodes.
func Kinetic(f dynamo.Frame) float64 {
	e := 0.0
	for _, n := range f.Nodes {
		e += 0.5 * n.Mass * n.Vel.LenSq()
	}
	return e
}

// Elastic is 0.5*k*(d-L)^2 summed over the frame's edges.
func Elastic(f dynamo.Frame) float64 {
	e := 0.0
	for _, edge := range f.Edges {
		stretch := edge[0].Dist(edge[1]) - f.RestLength
		e += 0.5 * f.Stiffness * stretch * stretch
	}
	return e
}

// KineticEnergy reports the kinetic energy of the last observed frame.
type KineticEnergy struct {
	name  string
	value float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string           { return k.name }
func (k *KineticEnergy) Observe(f dynamo.Frame) { k.value = Kinetic(f) }
func (k *KineticEnergy) Value() float64         { return k.value }
func (k *KineticEnergy) Reset()                 { k.value = 0 }

// SpringEnergy reports the elastic energy of the last observed frame.
type SpringEnergy struct {
	name  string
	value float64
}

func NewSpringEnergy() *SpringEnergy {
	return &SpringEnergy{name: "spring_energy"}
}

func (s *SpringEnergy) Name() string           { return s.name }
func (s *SpringEnergy) Observe(f dynamo.Frame) { s.value = Elastic(f) }
func (s *SpringEnergy) Value() float64         { return s.value }
func (s *SpringEnergy) Reset()                 { s.value = 0 }

// Dissipation is the fraction of the first frame's total energy that has
// been lost by the latest frame. Gravity is ignored, so it is only
// meaningful for networks without it.
type Dissipation struct {
	name    string
	initial float64
	current float64
	samples int
}

func NewDissipation() *Dissipation {
	return &Dissipation{name: "dissipation"}
}

func (d *Dissipation) Name() string { return d.name }

func (d *Dissipation) Observe(f dynamo.Frame) {
	energy := Kinetic(f) + Elastic(f)
	if d.samples == 0 {
		d.initial = energy
	}
	d.current = energy
	d.samples++
}

func (d *Dissipation) Value() float64 {
	if d.samples == 0 || d.initial == 0 {
		return 0
	}
	return 1 - d.current/math.Abs(d.initial)
}

func (d *Dissipation) Reset() {
	d.initial = 0
	d.current = 0
	d.samples = 0
}
