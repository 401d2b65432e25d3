// Package sim ties the node store, topology, force model, integrator and
// interaction controller into one Simulation and drives it frame by frame.
//
// A Simulation is the only owner of network state. Front-ends either call
// its methods directly from their own update loop, or hand it to a Runner
// and push input through Runner.Send.
package sim
