// Package record drives a servo through reference trajectories and captures
// the telemetry stream as a motion log for calibration.
package record

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/servofit/internal/logs"
	"github.com/san-kum/servofit/internal/servo"
)

// Actuator is the servo surface the recorder drives. *servo.Servo satisfies
// it; tests substitute a scripted fake.
type Actuator interface {
	SetTorque(enable bool) error
	SetPGain(gain uint8) error
	SetGoalPosition(rad float64) error
	ReadTelemetry() (servo.Telemetry, error)
}

// Recorder samples one servo at a fixed period while a trajectory plays.
type Recorder struct {
	Servo  Actuator
	Mass   float64 // kg, payload at the arm tip
	Length float64 // m, pivot to payload
	Kp     float64 // proportional gain, written to the servo
	Vin    float64 // V, supply voltage; 0 means take it from telemetry
	Period time.Duration
	Log    *zap.Logger
}

// Run plays the trajectory for the given duration and returns the recorded
// log. On cancellation the partial log is returned along with the context
// error. Torque is always released before returning.
func (r *Recorder) Run(ctx context.Context, traj Trajectory, duration time.Duration) (*logs.Log, error) {
	zlog := r.Log
	if zlog == nil {
		zlog = zap.NewNop()
	}
	zlog = zlog.With(zap.String("trajectory", traj.Name()))

	if err := r.Servo.SetPGain(uint8(r.Kp)); err != nil {
		return nil, err
	}
	defer func() {
		if err := r.Servo.SetTorque(false); err != nil {
			zlog.Warn("release torque", zap.Error(err))
		}
	}()

	out := &logs.Log{
		Name:   traj.Name(),
		Mass:   r.Mass,
		Length: r.Length,
		Kp:     r.Kp,
		Vin:    r.Vin,
	}

	var torqueOn, torqueKnown bool
	prev := 0.0
	sample := func(t float64) error {
		goal, enable := traj.At(t)
		if !torqueKnown || torqueOn != enable {
			if err := r.Servo.SetTorque(enable); err != nil {
				return err
			}
			torqueOn, torqueKnown = enable, true
		}
		if enable {
			if err := r.Servo.SetGoalPosition(goal); err != nil {
				return err
			}
		}

		tel, err := r.Servo.ReadTelemetry()
		if err != nil {
			return err
		}
		if out.Vin == 0 && tel.InputVolts > 0 {
			out.Vin = tel.InputVolts
		}

		entry := logs.Entry{
			Timestamp:    t,
			Dt:           t - prev,
			Position:     tel.Position,
			Speed:        tel.Speed,
			Load:         tel.Load,
			TorqueEnable: enable,
			InputVolts:   tel.InputVolts,
			Temp:         tel.Temp,
		}
		if enable {
			g := goal
			entry.GoalPosition = &g
		}
		out.Entries = append(out.Entries, entry)
		prev = t

		zlog.Debug("sample",
			zap.Float64("t", t),
			zap.Float64("goal", goal),
			zap.Float64("position", tel.Position))
		return nil
	}

	zlog.Info("recording",
		zap.Duration("duration", duration),
		zap.Duration("period", r.Period))

	start := time.Now()
	ticker := time.NewTicker(r.Period)
	defer ticker.Stop()

	if err := sample(0); err != nil {
		return nil, err
	}
	for {
		select {
		case <-ctx.Done():
			zlog.Info("recording canceled", zap.Int("entries", len(out.Entries)))
			return out, ctx.Err()
		case now := <-ticker.C:
			t := now.Sub(start).Seconds()
			if err := sample(t); err != nil {
				return out, err
			}
			if t >= duration.Seconds() {
				zlog.Info("recording done", zap.Int("entries", len(out.Entries)))
				return out, nil
			}
		}
	}
}
