// Package viz renders scenes in the terminal.
//
// [Canvas] is a Braille pixel grid; [Viewport] maps world coordinates onto it.
// [Model] is a Bubble Tea program that steps a scene live and routes the
// mouse to grab and drag particles. [App] adds a scene and preset menu.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single step while paused
//	R     - Rebuild the scene
//	T     - Cycle color themes
//	[ ]   - Replay recent ticks
//	?     - Show help overlay
package viz
