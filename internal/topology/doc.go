// Package topology builds the connectivity between spring network nodes.
//
// Two modes are supported: [Chain] (an open path) and [Complete] (every pair
// connected). The result is an [Adjacency] read by the force model each tick;
// [Adjacency.Edges] gives the deduplicated pair list renderers draw.
package topology
