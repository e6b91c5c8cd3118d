// Package viz provides terminal-based views of calibration runs.
//
// The package implements a live fitting TUI using the Bubble Tea framework
// plus ASCII chart helpers:
//
//   - [FitModel]: live view of a running calibration, fed by a channel of
//     [FitUpdate] values
//   - [Plot], [Overlay]: asciigraph line charts for trajectories
//
// # Key Bindings
//
//	Q - Quit the live view (the calibration keeps running)
package viz
