// Package physics holds the spring network state and its force model.
//
//   - [Node], [Store]: per-node state, layout generation and tail resize
//   - [Params]: stiffness, rest length, mass, gravity, topology and bounds
//   - [SpringForce]: gravity plus Hooke's law per edge, damped by 0.96
//
// Forces are pure functions of the store, adjacency and parameters; the
// frame integrator lives in package integrators.
//
//	store := physics.NewStore(800, 600, rng)
//	store.Generate(4, physics.DefaultParams())
//	f := physics.SpringForce{}.Force(store, topology.Build(4, topology.Chain), params, 1)
package physics
