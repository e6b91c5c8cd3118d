// Package model implements the parametric actuator dynamics being
// calibrated: a DC motor torque law plus multi-regime gearbox friction.
//
// The package defines the capability contract consumed by the simulator
// and the calibration driver:
//
//   - [Dynamics]: motor torque, friction, hysteresis lifecycle
//   - [Model]: the concrete variant, regimes selected by [Config]
//   - [Hysteresis]: dwell-time friction memory
//
// Friction regimes compose additively. The Coulomb floor is always
// present; load-dependent terms scale with the torque transmitted through
// the gearbox; Stribeck terms raise friction near zero velocity and decay
// with speed; dwell-time hysteresis low-pass filters the estimate with
// separate stick and slip time constants.
//
// # Example
//
//	m, _ := model.New("m9")
//	m.Reset()
//	loss, damping := m.Frictions(0, 1.0, 0, 0.01)
//
// # Thread Safety
//
// Model instances are NOT thread-safe: Frictions mutates hysteresis
// state. Parallel calibration builds a fresh instance per evaluation.
package model
