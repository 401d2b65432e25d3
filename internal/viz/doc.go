// Package viz is the terminal front-end for spring networks.
//
// The network is drawn on a braille [Canvas] where each dot covers four
// world units. The mouse drives the simulation directly: press to grab the
// nearest node, drag, and release to throw it. Holding shift while
// clicking, or turning on pin mode, toggles the node's pin instead.
//
// # Key Bindings
//
//	Space   - Pause/Resume
//	Tab     - Cycle tunable parameter
//	Up/Down - Adjust the selected parameter
//	G       - Toggle gravity
//	M       - Switch between chain and complete topology
//	P       - Pin mode
//	R       - Randomize parameters
//	X       - Reset to the starting config
//	S       - Write an SVG snapshot
//	V       - Toggle GIF recording
//	T       - Cycle color themes
//	?       - Expand the key binding help
//
// Snapshots and recordings are written to the current directory.
package viz
