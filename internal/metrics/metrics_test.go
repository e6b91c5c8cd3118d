package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/servofit/internal/logs"
)

func goal(v float64) *float64 { return &v }

func TestTrackingErrorRMS(t *testing.T) {
	m := NewTrackingError()
	m.Observe(logs.Entry{Position: 0.0, GoalPosition: goal(0.3)})
	m.Observe(logs.Entry{Position: 0.4, GoalPosition: goal(0.0)})
	m.Observe(logs.Entry{Position: 1.0}) // no goal, must not count

	want := math.Sqrt((0.3*0.3 + 0.4*0.4) / 2)
	if got := m.Value(); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %g, got %g", want, got)
	}

	m.Reset()
	if got := m.Value(); got != 0 {
		t.Errorf("expected 0 after reset, got %g", got)
	}
}

func TestControlEffortMeanAbsLoad(t *testing.T) {
	m := NewControlEffort()
	m.Observe(logs.Entry{Load: 0.5})
	m.Observe(logs.Entry{Load: -0.3})

	if got := m.Value(); math.Abs(got-0.4) > 1e-12 {
		t.Errorf("expected 0.4, got %g", got)
	}
}

func TestEnergyAtRestIsZero(t *testing.T) {
	m := NewEnergy(0.2, 0.1, 9.81)
	m.Observe(logs.Entry{Position: 0, Speed: 0})

	if got := m.Value(); got != 0 {
		t.Errorf("expected 0 at the rest pose, got %g", got)
	}
}

func TestEnergyKineticPlusPotential(t *testing.T) {
	mass, length, g := 0.2, 0.1, 9.81
	m := NewEnergy(mass, length, g)
	m.Observe(logs.Entry{Position: math.Pi / 2, Speed: 2.0})

	ke := 0.5 * mass * length * length * 4.0
	pe := mass * g * length
	if got := m.Value(); math.Abs(got-(ke+pe)) > 1e-12 {
		t.Errorf("expected %g, got %g", ke+pe, got)
	}
}

func TestSaturationFraction(t *testing.T) {
	m := NewSaturation(0.95)
	m.Observe(logs.Entry{Load: 1.0})
	m.Observe(logs.Entry{Load: -0.97})
	m.Observe(logs.Entry{Load: 0.5})
	m.Observe(logs.Entry{Load: 0.0})

	if got := m.Value(); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("expected 0.5, got %g", got)
	}
}

func TestEvaluateKeysByName(t *testing.T) {
	log := &logs.Log{
		Mass:   0.2,
		Length: 0.1,
		Entries: []logs.Entry{
			{Position: 0.1, Speed: 1.0, Load: 0.2, GoalPosition: goal(0.15)},
			{Position: 0.2, Speed: 0.5, Load: 1.0, GoalPosition: goal(0.2)},
		},
	}

	values := Evaluate(log, Standard(log)...)
	for _, name := range []string{"tracking_error", "control_effort", "energy", "saturation"} {
		if _, ok := values[name]; !ok {
			t.Errorf("expected metric %s in result", name)
		}
	}
	if values["saturation"] != 0.5 {
		t.Errorf("expected saturation 0.5, got %g", values["saturation"])
	}
}

func TestEvaluateResetsBetweenLogs(t *testing.T) {
	log := &logs.Log{Entries: []logs.Entry{{Load: 1.0}}}
	m := NewControlEffort()

	Evaluate(log, m)
	values := Evaluate(log, m)
	if values["control_effort"] != 1.0 {
		t.Errorf("expected 1.0 on second pass, got %g", values["control_effort"])
	}
}
