package model

import (
	"math"

	"github.com/san-kum/servofit/internal/param"
)

// Config selects the friction regimes a variant carries. The flags are
// fixed at construction and fully determine which parameters exist.
type Config struct {
	LoadDependent bool
	Stribeck      bool
	DwellTime     bool
}

// Dynamics is the capability contract the simulator and the calibration
// driver consume.
type Dynamics interface {
	// MotorTorque returns the net motor torque for an applied voltage and
	// angular velocity. A nil voltage means the motor is electrically
	// disconnected: no torque, no back-EMF.
	MotorTorque(volts *float64, velocity float64) float64

	// Frictions returns the Coulomb-type friction magnitude and the
	// viscous damping coefficient for one timestep. Scaling the damping
	// term by velocity is the caller's job.
	Frictions(motorTorque, externalTorque, velocity, dt float64) (frictionLoss, damping float64)

	// Reset clears hysteresis memory. Required before each independent
	// trajectory replay.
	Reset()

	// ExtraInertia returns the rotor inertia added to the rig's own.
	ExtraInertia() float64

	Params() *param.Registry
	Name() string
}

// Model is a DC motor driving a gearbox with composable friction regimes.
type Model struct {
	name string
	cfg  Config

	params *param.Registry

	kt       *param.Parameter
	res      *param.Parameter
	armature *param.Parameter

	frictionBase     *param.Parameter
	frictionStribeck *param.Parameter
	loadBase         *param.Parameter
	loadStribeck     *param.Parameter
	dthetaStribeck   *param.Parameter
	alpha            *param.Parameter
	frictionViscous  *param.Parameter
	stickConstant    *param.Parameter
	slipConstant     *param.Parameter

	friction Hysteresis
}

// NewModel builds a variant from its regime configuration. Registration
// order is stable so search vectors map identically across instances.
func NewModel(name string, cfg Config) *Model {
	m := &Model{name: name, cfg: cfg, params: param.NewRegistry()}

	// Torque constant [Nm/A] and winding resistance [Ohm]
	m.kt = m.params.Add("kt", param.New(1.6, 1.0, 3.0))
	m.res = m.params.Add("R", param.New(2.0, 1.0, 3.5))

	// Rotor inertia [kg m^2]
	m.armature = m.params.Add("armature", param.New(0.005, 0.001, 0.05))

	// Coulomb floor [Nm]; stribeck terms add on top near zero velocity
	m.frictionBase = m.params.Add("friction_base", param.New(0.05, 0.0, 0.2))
	if cfg.Stribeck {
		m.frictionStribeck = m.params.Add("friction_stribeck", param.New(0.05, 0.0, 0.2))
	}

	// Friction scaling with torque transmitted through the gearbox [1/Nm terms]
	if cfg.LoadDependent {
		m.loadBase = m.params.Add("load_friction_base", param.New(0.05, 0.0, 0.2))
		if cfg.Stribeck {
			m.loadStribeck = m.params.Add("load_friction_stribeck", param.New(0.05, 0.0, 1.0))
		}
	}

	if cfg.Stribeck {
		// Stribeck velocity [rad/s] and curvature
		m.dthetaStribeck = m.params.Add("dtheta_stribeck", param.New(0.2, 0.01, 3.0))
		m.alpha = m.params.Add("alpha", param.New(1.35, 0.5, 2.0))
	}

	// Viscous friction [Nm/(rad/s)]
	m.frictionViscous = m.params.Add("friction_viscous", param.New(0.1, 0.0, 1.0))

	if cfg.DwellTime {
		// Dwell filter time constants [s]
		m.stickConstant = m.params.Add("stick_constant", param.New(0.01, 0.0001, 0.1))
		m.slipConstant = m.params.Add("slip_constant", param.New(0.01, 0.0001, 0.1))
	}

	return m
}

func (m *Model) Name() string {
	return m.name
}

// Regimes returns the feature flags the variant was built with.
func (m *Model) Regimes() Config {
	return m.cfg
}

func (m *Model) Params() *param.Registry {
	return m.params
}

func (m *Model) Reset() {
	m.friction.Reset()
}

func (m *Model) ExtraInertia() float64 {
	return m.armature.Value
}

func (m *Model) MotorTorque(volts *float64, velocity float64) float64 {
	if volts == nil {
		return 0.0
	}

	torque := m.kt.Value * *volts / m.res.Value

	// Back EMF
	torque -= m.kt.Value * m.kt.Value * velocity / m.res.Value

	return torque
}

func (m *Model) Frictions(motorTorque, externalTorque, velocity, dt float64) (float64, float64) {
	// Torque applied to the gearbox
	gearboxTorque := math.Abs(externalTorque - motorTorque)

	frictionLoss := m.frictionBase.Value
	if m.cfg.LoadDependent {
		frictionLoss += m.loadBase.Value * gearboxTorque
	}

	if m.cfg.Stribeck {
		coeff := m.stribeckCoeff(velocity)
		frictionLoss += coeff * m.frictionStribeck.Value

		if m.cfg.LoadDependent {
			frictionLoss += m.loadStribeck.Value * gearboxTorque * coeff
		}
	}

	damping := m.frictionViscous.Value

	if m.cfg.DwellTime {
		return m.friction.Update(frictionLoss, dt, m.stickConstant.Value, m.slipConstant.Value), damping
	}
	m.friction.Set(frictionLoss)
	return frictionLoss, damping
}

// stribeckCoeff is 1 when stopped and decays toward 0 as speed grows.
func (m *Model) stribeckCoeff(velocity float64) float64 {
	return math.Exp(-math.Pow(math.Abs(velocity/m.dthetaStribeck.Value), m.alpha.Value))
}
