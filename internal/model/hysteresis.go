package model

import "math"

// Hysteresis is the dwell-time friction memory: an asymmetric exponential
// moving average of the instantaneous friction estimate. The stored value
// climbs toward a higher estimate with the stick time constant and falls
// toward a lower one with the slip time constant. The mode is re-derived
// on every update by comparing estimate against state; there is no
// persisted mode flag.
//
// The zero value has no history. Reset returns to that state and must be
// called between independent trajectory replays.
type Hysteresis struct {
	value float64
	valid bool
}

// Reset clears the memory so the next Update stores its input verbatim.
func (h *Hysteresis) Reset() {
	h.value = 0
	h.valid = false
}

// Set replaces the stored value, bypassing the filter.
func (h *Hysteresis) Set(v float64) {
	h.value = v
	h.valid = true
}

// Value reports the stored friction and whether any history exists.
func (h *Hysteresis) Value() (float64, bool) {
	return h.value, h.valid
}

// Update filters instant into the stored value over one timestep dt and
// returns the new stored value. With no prior history the instant is
// stored unfiltered.
func (h *Hysteresis) Update(instant, dt, stickTau, slipTau float64) float64 {
	if !h.valid {
		h.Set(instant)
		return h.value
	}
	tau := slipTau
	if instant > h.value {
		tau = stickTau
	}
	mix := math.Exp(-dt / tau)
	h.value = mix*h.value + (1-mix)*instant
	return h.value
}
