package fit

import (
	"errors"
	"testing"

	"github.com/san-kum/servofit/internal/logs"
	"github.com/san-kum/servofit/internal/model"
	"github.com/san-kum/servofit/internal/sim"
)

func newVariant(t *testing.T, name string) *model.Model {
	t.Helper()
	m, err := model.New(name)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// staticLog records a disconnected motor holding still at zero, with the
// ground truth offset away from the prediction for every entry after the
// seeding one. Static friction keeps the replay at exactly zero, so the
// expected score is offset*(n-1)/n.
func staticLog(n int, offset float64) *logs.Log {
	log := &logs.Log{Mass: 0.1, Length: 0.1}
	for i := 0; i < n; i++ {
		position := offset
		if i == 0 {
			position = 0
		}
		log.Entries = append(log.Entries, logs.Entry{
			Timestamp: float64(i) * 0.01,
			Dt:        0.01,
			Position:  position,
		})
	}
	return log
}

func TestScorePerfectPrediction(t *testing.T) {
	score, err := Score(newVariant(t, "m1"), staticLog(20, 0))
	if err != nil {
		t.Fatal(err)
	}
	if score != 0 {
		t.Errorf("expected zero score, got %g", score)
	}
}

func TestScoreMeanAbsoluteDeviation(t *testing.T) {
	score, err := Score(newVariant(t, "m1"), staticLog(5, 0.1))
	if err != nil {
		t.Fatal(err)
	}
	want := 0.1 * 4 / 5
	if diff := score - want; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("expected score %g, got %g", want, score)
	}
}

func TestScoreEmptyLog(t *testing.T) {
	_, err := Score(newVariant(t, "m1"), &logs.Log{Mass: 1, Length: 1})
	if !errors.Is(err, sim.ErrEmptyLog) {
		t.Errorf("expected ErrEmptyLog, got %v", err)
	}
}

func TestObjectiveAveragesOverLogs(t *testing.T) {
	collection := &logs.Collection{Logs: []*logs.Log{
		staticLog(5, 0),
		staticLog(5, 0.1),
	}}

	got, err := Objective(newVariant(t, "m1"), collection)
	if err != nil {
		t.Fatal(err)
	}
	want := (0.0 + 0.1*4/5) / 2
	if diff := got - want; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("expected objective %g, got %g", want, got)
	}
}

func TestObjectiveEmptyCollection(t *testing.T) {
	_, err := Objective(newVariant(t, "m1"), &logs.Collection{})
	if !errors.Is(err, ErrNoLogs) {
		t.Errorf("expected ErrNoLogs, got %v", err)
	}
	_, err = Objective(newVariant(t, "m1"), nil)
	if !errors.Is(err, ErrNoLogs) {
		t.Errorf("expected ErrNoLogs for nil collection, got %v", err)
	}
}

func TestObjectiveIdempotent(t *testing.T) {
	volts := 2.0
	log := &logs.Log{Mass: 0.2, Length: 0.1}
	for i := 0; i < 50; i++ {
		log.Entries = append(log.Entries, logs.Entry{
			Timestamp:    float64(i) * 0.005,
			Dt:           0.005,
			Volts:        &volts,
			TorqueEnable: true,
		})
	}
	collection := &logs.Collection{Logs: []*logs.Log{log}}

	// Hysteresis state must not leak between evaluations.
	m := newVariant(t, "m9")
	first, err := Objective(m, collection)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Objective(m, collection)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("expected identical scores, got %g then %g", first, second)
	}
}
