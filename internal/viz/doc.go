// Package viz renders a running simulation in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view that steps a simulator once per frame
//   - [Picker]: preset menu that opens a live view
//   - [Canvas]: Braille-based pixel canvas with per-layer coloring
//   - [Camera]: rotatable perspective projection of display-unit positions
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial scene
//	[ ]   - Halve/double the time scale
//	{ }   - Double/halve the distance scale
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// G starts recording canvas frames; pressing it again writes them as an
// animated GIF to the configured path.
package viz
