// Package metrics computes scalar quality statistics over recorded logs.
// A log that tracks poorly, saturates the servo or barely moves makes a
// weak calibration target; these numbers surface that before a fit is run.
package metrics

import (
	"math"

	"github.com/san-kum/servofit/internal/logs"
	"github.com/san-kum/servofit/internal/sim"
)

// Metric accumulates one statistic over a log's samples.
type Metric interface {
	Name() string
	Observe(e logs.Entry)
	Value() float64
	Reset()
}

// TrackingError is the RMS position error against the commanded goal,
// over the samples that carried one.
type TrackingError struct {
	name    string
	sumSq   float64
	samples int
}

func NewTrackingError() *TrackingError {
	return &TrackingError{name: "tracking_error"}
}

func (t *TrackingError) Name() string {
	return t.name
}

func (t *TrackingError) Observe(e logs.Entry) {
	if e.GoalPosition == nil {
		return
	}
	err := *e.GoalPosition - e.Position
	t.sumSq += err * err
	t.samples++
}

func (t *TrackingError) Value() float64 {
	if t.samples == 0 {
		return 0
	}
	return math.Sqrt(t.sumSq / float64(t.samples))
}

func (t *TrackingError) Reset() {
	t.sumSq = 0
	t.samples = 0
}

// ControlEffort is the mean absolute servo load.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{name: "control_effort"}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(e logs.Entry) {
	c.sum += math.Abs(e.Load)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// Energy is the mean mechanical energy of the arm, kinetic plus potential
// measured from the hanging rest pose.
type Energy struct {
	name        string
	mass        float64
	length      float64
	gravity     float64
	totalEnergy float64
	samples     int
}

func NewEnergy(mass, length, gravity float64) *Energy {
	return &Energy{
		name:    "energy",
		mass:    mass,
		length:  length,
		gravity: gravity,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s logs.Entry) {
	ke := 0.5 * e.mass * e.length * e.length * s.Speed * s.Speed
	pe := e.mass * e.gravity * e.length * (1 - math.Cos(s.Position))
	e.totalEnergy += ke + pe
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// Saturation is the fraction of samples with the load at or beyond a
// threshold of full scale. A clipped actuator hides its own dynamics, so
// high saturation makes the log a poor fitting target.
type Saturation struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewSaturation(threshold float64) *Saturation {
	return &Saturation{
		name:      "saturation",
		threshold: threshold,
	}
}

func (s *Saturation) Name() string {
	return s.name
}

func (s *Saturation) Observe(e logs.Entry) {
	s.samples++
	if math.Abs(e.Load) >= s.threshold {
		s.violations++
	}
}

func (s *Saturation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.violations) / float64(s.samples)
}

func (s *Saturation) Reset() {
	s.violations = 0
	s.samples = 0
}

// Standard returns the default metric set for a log, configured from its
// rig constants. Load full scale is 1.0, so saturation trips at 95%.
func Standard(log *logs.Log) []Metric {
	return []Metric{
		NewTrackingError(),
		NewControlEffort(),
		NewEnergy(log.Mass, log.Length, sim.Gravity),
		NewSaturation(0.95),
	}
}

// Evaluate streams the log through every metric and returns the values
// keyed by metric name.
func Evaluate(log *logs.Log, ms ...Metric) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	for _, e := range log.Entries {
		for _, m := range ms {
			m.Observe(e)
		}
	}
	values := make(map[string]float64, len(ms))
	for _, m := range ms {
		values[m.Name()] = m.Value()
	}
	return values
}
