// Package integrators advances the spring network one frame at a time.
//
// [Damped] applies force/mass as a velocity delta, moves each node by its
// velocity, damps the velocity by 0.96 and resolves wall collisions with a
// restitution of 0.76. Pinned nodes are frozen and the dragged node is
// skipped so pointer input can drive it.
package integrators
