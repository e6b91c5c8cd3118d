package record

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestNames(t *testing.T) {
	want := []string{"nothing", "sin_sin", "sin_time_square", "square"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestNewUnknown(t *testing.T) {
	if _, err := New("figure_eight"); !errors.Is(err, ErrUnknownTrajectory) {
		t.Errorf("expected ErrUnknownTrajectory, got %v", err)
	}
}

func TestSquareAlternates(t *testing.T) {
	traj := Square{Amplitude: 1, Period: 2}

	goal, enable := traj.At(0.5)
	if !enable || goal != 1 {
		t.Errorf("expected (1, true) in first half period, got (%v, %v)", goal, enable)
	}
	goal, enable = traj.At(1.5)
	if !enable || goal != -1 {
		t.Errorf("expected (-1, true) in second half period, got (%v, %v)", goal, enable)
	}
	goal, _ = traj.At(2.5)
	if goal != 1 {
		t.Errorf("expected wave to repeat after full period, got %v", goal)
	}
}

func TestSinTimeSquareSweeps(t *testing.T) {
	traj := SinTimeSquare{Amplitude: 0.5, Rate: 1}

	goal, enable := traj.At(0)
	if !enable || goal != 0 {
		t.Errorf("expected (0, true) at t=0, got (%v, %v)", goal, enable)
	}
	for _, tt := range []float64{0.5, 1, 2, 5, 10} {
		goal, _ := traj.At(tt)
		if math.Abs(goal) > 0.5 {
			t.Errorf("expected |goal| <= amplitude at t=%v, got %v", tt, goal)
		}
	}
}

func TestSinSinBounded(t *testing.T) {
	traj := SinSin{Amplitude: 0.8, Carrier: 2, Envelope: 0.39}

	for tt := 0.0; tt < 20; tt += 0.1 {
		goal, enable := traj.At(tt)
		if !enable {
			t.Fatalf("expected torque enabled at t=%v", tt)
		}
		if math.Abs(goal) > 0.8 {
			t.Errorf("expected |goal| <= amplitude at t=%v, got %v", tt, goal)
		}
	}
}

func TestNothingDisablesTorque(t *testing.T) {
	traj := Nothing{}
	for _, tt := range []float64{0, 1, 10} {
		goal, enable := traj.At(tt)
		if enable {
			t.Errorf("expected torque disabled at t=%v", tt)
		}
		if goal != 0 {
			t.Errorf("expected zero goal at t=%v, got %v", tt, goal)
		}
	}
}

func TestRegisteredDefaults(t *testing.T) {
	for _, name := range Names() {
		traj, err := New(name)
		if err != nil {
			t.Fatalf("new %s: %v", name, err)
		}
		if traj.Name() != name {
			t.Errorf("expected name %s, got %s", name, traj.Name())
		}
	}
}
