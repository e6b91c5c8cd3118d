package model_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/servofit/internal/model"
)

var _ = Describe("Variant registry", func() {
	It("publishes the five calibrated variants", func() {
		Expect(model.Names()).To(Equal([]string{"m1", "m2", "m3", "m5", "m9"}))
	})

	It("constructs every published variant", func() {
		for _, name := range model.Names() {
			m, err := model.New(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Name()).To(Equal(name))
		}
	})

	It("rejects unregistered names", func() {
		_, err := model.New("m7")
		Expect(err).To(MatchError(model.ErrUnknownModel))
	})
})

var _ = Describe("Motor torque", func() {
	var m *model.Model

	BeforeEach(func() {
		var err error
		m, err = model.New("m1")
		Expect(err).NotTo(HaveOccurred())
	})

	It("vanishes when the motor is disconnected", func() {
		for _, velocity := range []float64{-5, 0, 5} {
			Expect(m.MotorTorque(nil, velocity)).To(BeZero())
		}
	})

	It("opposes rotation through back EMF", func() {
		zero := 0.0
		Expect(m.MotorTorque(&zero, 2.0)).To(BeNumerically("<", 0))
		Expect(m.MotorTorque(&zero, -2.0)).To(BeNumerically(">", 0))
	})

	It("exposes the rotor inertia", func() {
		Expect(m.ExtraInertia()).To(BeNumerically("~", 0.005, 1e-12))
	})
})

var _ = Describe("Stribeck regime", func() {
	It("raises friction near zero velocity", func() {
		m, err := model.New("m2")
		Expect(err).NotTo(HaveOccurred())
		m.Reset()

		atRest, _ := m.Frictions(0, 0, 0, 0.01)
		m.Reset()
		moving, _ := m.Frictions(0, 0, 10, 0.01)

		Expect(atRest).To(BeNumerically(">", moving))
	})
})

var _ = Describe("Dwell-time friction", func() {
	var m *model.Model

	BeforeEach(func() {
		var err error
		m, err = model.New("m9")
		Expect(err).NotTo(HaveOccurred())
		m.Reset()
	})

	It("creeps toward the loaded estimate while load dwells", func() {
		first, _ := m.Frictions(0, 1.0, 0, 0.01)
		var last float64
		for i := 0; i < 30; i++ {
			last, _ = m.Frictions(0, 1.0, 0, 0.01)
		}
		Expect(last).To(BeNumerically(">=", first))
	})

	It("releases after the load drops", func() {
		for i := 0; i < 30; i++ {
			m.Frictions(0, 1.0, 0, 0.01)
		}
		high, _ := m.Frictions(0, 1.0, 0, 0.01)
		var low float64
		for i := 0; i < 30; i++ {
			low, _ = m.Frictions(0, 0, 0, 0.01)
		}
		Expect(low).To(BeNumerically("<", high))
	})

	It("forgets its history on reset", func() {
		for i := 0; i < 30; i++ {
			m.Frictions(0, 1.0, 0, 0.01)
		}
		m.Reset()

		fresh, err := model.New("m9")
		Expect(err).NotTo(HaveOccurred())
		fresh.Reset()
		want, _ := fresh.Frictions(0, 0, 0, 0.01)

		got, _ := m.Frictions(0, 0, 0, 0.01)
		Expect(got).To(BeNumerically("~", want, 1e-12))
	})
})
