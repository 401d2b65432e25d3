package config

import (
	"math"
	"math/rand"
)

// Range is the interactive range of one tunable parameter.
type Range struct {
	Min, Max, Step float64
}

func (r Range) Clamp(v float64) float64 {
	return math.Max(r.Min, math.Min(r.Max, v))
}

// Bounds are the ranges front-ends expose for tuning.
var Bounds = map[string]Range{
	"k":      {Min: 0.1, Max: 6, Step: 0.1},
	"length": {Min: 0, Max: 200, Step: 1},
	"nodes":  {Min: 1, Max: 20, Step: 1},
	"mass":   {Min: 5, Max: 1000, Step: 5},
}

// Nudge moves a parameter by steps increments and clamps it to its range.
// Unknown names are returned unchanged.
func Nudge(name string, v float64, steps int) float64 {
	r, ok := Bounds[name]
	if !ok {
		return v
	}
	return r.Clamp(v + float64(steps)*r.Step)
}

// Randomize returns base with its tunable parameters re-rolled:
// k in [2,6), length in [0,200), nodes in [3,7), mass in [5,995) and a coin
// flip for gravity. Node 0 is pinned when gravity is on, nothing otherwise.
func Randomize(base *Config, rng *rand.Rand) *Config {
	c := base.Clone()
	c.Stiffness = rng.Float64()*4 + 2
	c.Length = float64(rng.Intn(200))
	c.Nodes = rng.Intn(7-3) + 3
	c.Mass = float64(rng.Intn(995-5) + 5)
	c.Gravity = rng.Intn(2) == 1
	if c.Gravity {
		c.Pinned = []int{0}
	} else {
		c.Pinned = []int{}
	}
	return c
}
