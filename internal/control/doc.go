// Package control implements direct user manipulation of the network.
//
// The [Controller] is a small state machine (Idle, Dragging, ShiftArmed):
//
//   - shift + press toggles the pin of the nearest node
//   - press starts dragging the nearest node and zeroes its velocity
//   - move translates the dragged node by the pointer delta
//   - release hands the last delta to the node as its velocity
//
// Events that make no sense in the current state are ignored.
package control
