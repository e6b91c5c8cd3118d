// Package analysis provides frequency and phase-space analysis of motion
// logs.
//
//   - [Spectrum]: one-sided power spectrum of a position series
//   - [DominantFrequency]: strongest non-DC component
//   - [PhasePortrait]: position/velocity trajectory of a log
//   - [PoincareSection]: stroboscopic crossings of a position threshold
//
// # Example
//
// Find the swing frequency of a free-swinging arm:
//
//	freq, _ := analysis.DominantFrequency(log.Positions(), period)
package analysis
