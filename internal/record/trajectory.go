package record

import (
	"fmt"
	"math"
	"sort"
)

// Trajectory generates the reference motion for a recording session. At
// returns the goal angle in radians and whether the servo should hold
// torque at time t seconds.
type Trajectory interface {
	At(t float64) (goal float64, enable bool)
	Name() string
}

// Square alternates between +Amplitude and -Amplitude every half Period.
// Step responses expose static friction and the torque limits.
type Square struct {
	Amplitude float64
	Period    float64
}

func (s Square) At(t float64) (float64, bool) {
	if math.Mod(t, s.Period) < s.Period/2 {
		return s.Amplitude, true
	}
	return -s.Amplitude, true
}

func (s Square) Name() string { return "square" }

// SinTimeSquare sweeps a sine whose phase grows with t², covering slow and
// fast oscillation in one session.
type SinTimeSquare struct {
	Amplitude float64
	Rate      float64
}

func (s SinTimeSquare) At(t float64) (float64, bool) {
	return s.Amplitude * math.Sin(s.Rate*t*t), true
}

func (s SinTimeSquare) Name() string { return "sin_time_square" }

// SinSin modulates a carrier sine by a slow envelope, producing repeated
// stop-and-reverse crossings at varying speed.
type SinSin struct {
	Amplitude float64
	Carrier   float64
	Envelope  float64
}

func (s SinSin) At(t float64) (float64, bool) {
	return s.Amplitude * math.Sin(s.Carrier*t) * math.Sin(s.Envelope*t), true
}

func (s SinSin) Name() string { return "sin_sin" }

// Nothing keeps torque disabled for the whole session. The arm swings free
// under gravity, which isolates the passive friction terms.
type Nothing struct{}

func (Nothing) At(t float64) (float64, bool) { return 0, false }

func (Nothing) Name() string { return "nothing" }

var trajectories = map[string]func() Trajectory{
	"square":          func() Trajectory { return Square{Amplitude: math.Pi / 4, Period: 2} },
	"sin_time_square": func() Trajectory { return SinTimeSquare{Amplitude: math.Pi / 4, Rate: 1} },
	"sin_sin":         func() Trajectory { return SinSin{Amplitude: math.Pi / 4, Carrier: 2, Envelope: 0.39} },
	"nothing":         func() Trajectory { return Nothing{} },
}

// New returns the named trajectory with its default parameters.
func New(name string) (Trajectory, error) {
	factory, ok := trajectories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTrajectory, name)
	}
	return factory(), nil
}

// Names returns the registered trajectory names in sorted order.
func Names() []string {
	names := make([]string, 0, len(trajectories))
	for name := range trajectories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
