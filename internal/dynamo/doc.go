// Package dynamo provides the primitives shared by the spring network
// simulation packages.
//
//   - [Vec2]: screen-space vector used for positions, velocities and forces
//   - [Frame]: read-only per-frame view handed to renderers and metrics
//   - [Observer], [Metric]: per-frame hooks
//   - [Configurable]: named, live-tunable parameters
//
// # Errors
//
// Parameter validation failures wrap [ErrParameterBounds]; numerical
// blow-ups are reported as [*SimulationError] wrapping [ErrInvalidState].
//
//	if errors.Is(err, dynamo.ErrParameterBounds) {
//	    // reject the slider value
//	}
package dynamo
