package physics

import (
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/topology"
)

const (
	// GravityAccel is scaled down by GravityDampen so gravity stays
	// commensurate with spring forces at default stiffness.
	GravityAccel  = 9.8
	GravityDampen = 10.0

	ForceDamping    = 0.96
	VelocityDamping = 0.96
	Restitution     = -0.76

	NodeRadius    = 4.0
	LayoutPadding = 120.0
	JitterScale   = 10.0
)

const (
	DefaultStiffness  = 2.0
	DefaultRestLength = 40.0
	DefaultMass       = 10.0
	DefaultNodes      = 4
	DefaultWidth      = 800.0
	DefaultHeight     = 600.0
)

// Params are the externally mutable simulation parameters read every tick.
type Params struct {
	Stiffness  float64
	RestLength float64
	Mass       float64
	Gravity    bool
	Mode       topology.Mode
	Width      float64
	Height     float64
}

func DefaultParams() Params {
	return Params{
		Stiffness:  DefaultStiffness,
		RestLength: DefaultRestLength,
		Mass:       DefaultMass,
		Gravity:    true,
		Mode:       topology.Chain,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
	}
}

func (p Params) Validate() error {
	if p.Stiffness <= 0 {
		return dynamo.BoundsError("k", p.Stiffness, "must be > 0")
	}
	if p.RestLength < 0 {
		return dynamo.BoundsError("length", p.RestLength, "must be >= 0")
	}
	if p.Mass <= 0 {
		return dynamo.BoundsError("mass", p.Mass, "must be > 0")
	}
	if p.Width <= 0 {
		return dynamo.BoundsError("width", p.Width, "must be > 0")
	}
	if p.Height <= 0 {
		return dynamo.BoundsError("height", p.Height, "must be > 0")
	}
	return nil
}

// GetParams implements dynamo.Configurable
func (p *Params) GetParams() map[string]float64 {
	gravity := 0.0
	if p.Gravity {
		gravity = 1
	}
	return map[string]float64{
		"k":       p.Stiffness,
		"length":  p.RestLength,
		"mass":    p.Mass,
		"gravity": gravity,
	}
}

// SetParam implements dynamo.Configurable. Invalid values leave p unchanged.
func (p *Params) SetParam(name string, value float64) error {
	next := *p
	switch name {
	case "k":
		next.Stiffness = value
	case "length":
		next.RestLength = value
	case "mass":
		next.Mass = value
	case "gravity":
		next.Gravity = value != 0
	default:
		return dynamo.ErrUnknownParameter
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*p = next
	return nil
}

func (p Params) gravityForce(mass float64) dynamo.Vec2 {
	if !p.Gravity {
		return dynamo.Vec2{}
	}
	return dynamo.Vec2{Y: GravityAccel * mass / GravityDampen}
}
