package sim

import (
	"math"

	"github.com/san-kum/servofit/internal/logs"
	"github.com/san-kum/servofit/internal/model"
)

// Gravity is the gravitational acceleration applied to the test rig [m/s^2].
const Gravity = 9.81

// Pendulum replays trajectories on a single-joint rig: a point mass on a
// rigid arm driven by the actuator under test. Angle is measured from the
// hanging rest position.
type Pendulum struct {
	Mass   float64
	Length float64

	// Recording-time controller gain and supply voltage, used to turn
	// goal positions into applied voltages when a log carries no direct
	// voltage samples.
	Kp  float64
	Vin float64

	model  model.Dynamics
	theta  float64
	dtheta float64
}

func NewPendulum(mass, length float64, m model.Dynamics) *Pendulum {
	return &Pendulum{Mass: mass, Length: length, model: m}
}

// Reset seeds the joint state and clears the model's hysteresis memory.
// Required before each independent replay.
func (p *Pendulum) Reset(theta, dtheta float64) {
	p.theta = theta
	p.dtheta = dtheta
	p.model.Reset()
}

// State returns the current joint position and velocity.
func (p *Pendulum) State() (theta, dtheta float64) {
	return p.theta, p.dtheta
}

// Step advances the joint by one timestep under an applied voltage.
// A nil voltage leaves the motor disconnected. Semi-implicit Euler:
// velocity first, then position with the new velocity.
func (p *Pendulum) Step(volts *float64, dt float64) {
	motor := p.model.MotorTorque(volts, p.dtheta)
	gravity := -p.Mass * Gravity * p.Length * math.Sin(p.theta)
	frictionLoss, damping := p.model.Frictions(motor, gravity, p.dtheta, dt)

	inertia := p.Mass*p.Length*p.Length + p.model.ExtraInertia()
	drive := motor + gravity - damping*p.dtheta

	// Static friction holds the joint until the drive torque breaks away.
	if p.dtheta == 0 && math.Abs(drive) <= frictionLoss {
		return
	}

	var friction float64
	if p.dtheta != 0 {
		friction = math.Copysign(frictionLoss, p.dtheta)
	} else {
		friction = math.Copysign(frictionLoss, drive)
	}

	next := p.dtheta + (drive-friction)/inertia*dt

	// Coulomb friction may stop the joint within a step, never reverse it.
	if p.dtheta != 0 && next*p.dtheta < 0 {
		undamped := p.dtheta + drive/inertia*dt
		if undamped*p.dtheta >= 0 {
			next = 0
		}
	}

	p.dtheta = next
	p.theta += next * dt
}

// command resolves the voltage applied at one log entry. Direct voltage
// samples win; goal positions are converted through the proportional
// controller the recorder ran; anything else is a disconnected motor.
func (p *Pendulum) command(entry logs.Entry) *float64 {
	if entry.Volts != nil {
		return entry.Volts
	}
	if entry.TorqueEnable && entry.GoalPosition != nil {
		v := p.Kp * (*entry.GoalPosition - p.theta)
		if v > p.Vin {
			v = p.Vin
		} else if v < -p.Vin {
			v = -p.Vin
		}
		return &v
	}
	return nil
}

// Rollout replays a log and returns predicted positions aligned one to
// one with the log's entries. The state is seeded from the first entry,
// and each position is recorded before its entry's command is applied.
// Deterministic: identical inputs produce identical sequences.
func (p *Pendulum) Rollout(log *logs.Log) ([]float64, error) {
	if len(log.Entries) == 0 {
		return nil, ErrEmptyLog
	}

	first := log.Entries[0]
	p.Reset(first.Position, first.Speed)

	positions := make([]float64, 0, len(log.Entries))
	for _, entry := range log.Entries {
		positions = append(positions, p.theta)
		p.Step(p.command(entry), entry.Dt)
	}
	return positions, nil
}

// Replay builds a rig from the log's recorded constants and rolls the
// model through it.
func Replay(log *logs.Log, m model.Dynamics) ([]float64, error) {
	p := NewPendulum(log.Mass, log.Length, m)
	p.Kp = log.Kp
	p.Vin = log.Vin
	return p.Rollout(log)
}
