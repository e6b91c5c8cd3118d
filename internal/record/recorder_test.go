package record

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/san-kum/servofit/internal/servo"
)

// scriptedServo records every command and answers telemetry reads with a
// fixed sample.
type scriptedServo struct {
	torque    []bool
	gains     []uint8
	goals     []float64
	telemetry servo.Telemetry
	readErr   error
}

func (s *scriptedServo) SetTorque(enable bool) error {
	s.torque = append(s.torque, enable)
	return nil
}

func (s *scriptedServo) SetPGain(gain uint8) error {
	s.gains = append(s.gains, gain)
	return nil
}

func (s *scriptedServo) SetGoalPosition(rad float64) error {
	s.goals = append(s.goals, rad)
	return nil
}

func (s *scriptedServo) ReadTelemetry() (servo.Telemetry, error) {
	return s.telemetry, s.readErr
}

func TestRunRecordsSamples(t *testing.T) {
	driver := &scriptedServo{telemetry: servo.Telemetry{
		Position:   0.3,
		Speed:      -0.1,
		InputVolts: 7.4,
		Temp:       30,
	}}
	rec := &Recorder{
		Servo:  driver,
		Mass:   0.5,
		Length: 0.1,
		Kp:     32,
		Period: time.Millisecond,
	}

	log, err := rec.Run(context.Background(), Square{Amplitude: 0.5, Period: 2}, 5*time.Millisecond)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(log.Entries) < 2 {
		t.Fatalf("expected at least 2 entries, got %d", len(log.Entries))
	}
	if log.Name != "square" || log.Mass != 0.5 || log.Length != 0.1 || log.Kp != 32 {
		t.Errorf("unexpected log header: %+v", log)
	}
	if log.Vin != 7.4 {
		t.Errorf("expected supply voltage from telemetry, got %v", log.Vin)
	}

	for i, e := range log.Entries {
		if i > 0 && e.Timestamp <= log.Entries[i-1].Timestamp {
			t.Fatalf("expected increasing timestamps, got %v after %v", e.Timestamp, log.Entries[i-1].Timestamp)
		}
		if !e.TorqueEnable {
			t.Errorf("expected torque enabled for square trajectory at entry %d", i)
		}
		if e.GoalPosition == nil {
			t.Errorf("expected goal position recorded at entry %d", i)
		}
		if e.Volts != nil {
			t.Errorf("expected no direct voltage command at entry %d", i)
		}
		if e.Position != 0.3 {
			t.Errorf("expected telemetry position at entry %d, got %v", i, e.Position)
		}
	}

	if len(driver.gains) != 1 || driver.gains[0] != 32 {
		t.Errorf("expected one P gain write of 32, got %v", driver.gains)
	}
	if len(driver.torque) == 0 || driver.torque[len(driver.torque)-1] != false {
		t.Errorf("expected torque released at the end, got %v", driver.torque)
	}
	if len(driver.goals) != len(log.Entries) {
		t.Errorf("expected one goal write per sample, got %d for %d entries", len(driver.goals), len(log.Entries))
	}
}

func TestRunNothingKeepsTorqueOff(t *testing.T) {
	driver := &scriptedServo{telemetry: servo.Telemetry{InputVolts: 8.0, Temp: 28}}
	rec := &Recorder{Servo: driver, Period: time.Millisecond}

	log, err := rec.Run(context.Background(), Nothing{}, 3*time.Millisecond)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for i, e := range log.Entries {
		if e.TorqueEnable {
			t.Errorf("expected torque disabled at entry %d", i)
		}
		if e.GoalPosition != nil {
			t.Errorf("expected no goal position at entry %d", i)
		}
	}
	if len(driver.goals) != 0 {
		t.Errorf("expected no goal writes, got %v", driver.goals)
	}
}

func TestRunCanceledReturnsPartialLog(t *testing.T) {
	driver := &scriptedServo{telemetry: servo.Telemetry{InputVolts: 7.0, Temp: 30}}
	rec := &Recorder{Servo: driver, Period: time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(3 * time.Millisecond)
		cancel()
	}()

	log, err := rec.Run(ctx, Square{Amplitude: 0.5, Period: 2}, time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if log == nil || len(log.Entries) == 0 {
		t.Fatal("expected partial log on cancellation")
	}
	if driver.torque[len(driver.torque)-1] != false {
		t.Errorf("expected torque released on cancellation, got %v", driver.torque)
	}
}

func TestRunReadFailureReleasesTorque(t *testing.T) {
	driver := &scriptedServo{readErr: errors.New("bus noise")}
	rec := &Recorder{Servo: driver, Period: time.Millisecond}

	_, err := rec.Run(context.Background(), Square{Amplitude: 0.5, Period: 2}, time.Second)
	if err == nil {
		t.Fatal("expected telemetry error to abort the run")
	}
	if len(driver.torque) == 0 || driver.torque[len(driver.torque)-1] != false {
		t.Errorf("expected torque released after failure, got %v", driver.torque)
	}
}
