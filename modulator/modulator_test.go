package modulator_test

import (
	"math"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pelab/npcsim/gates"
	"github.com/pelab/npcsim/modulator"
)

func TestModulator(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Modulator Suite")
}

var _ = Describe("Carrier", func() {
	var carrier *modulator.Carrier

	BeforeEach(func() {
		carrier = modulator.NewCarrier(5)
	})

	It("should start at zero, ascending, with no pulse", func() {
		Expect(carrier.Value()).To(Equal(uint32(0)))
		Expect(carrier.Rising()).To(BeTrue())
		Expect(carrier.Valley()).To(BeFalse())
		Expect(carrier.Peak()).To(BeFalse())
	})

	It("should pulse peak exactly once at the maximum", func() {
		for i := 0; i < 3; i++ {
			carrier.Tick()
			Expect(carrier.Peak()).To(BeFalse())
		}
		carrier.Tick()
		Expect(carrier.Value()).To(Equal(uint32(4)))
		Expect(carrier.Peak()).To(BeTrue())
		Expect(carrier.Rising()).To(BeFalse())

		carrier.Tick()
		Expect(carrier.Peak()).To(BeFalse())
		Expect(carrier.Value()).To(Equal(uint32(3)))
	})

	It("should pulse valley exactly once at the minimum", func() {
		for i := 0; i < 7; i++ {
			carrier.Tick()
			Expect(carrier.Valley()).To(BeFalse())
		}
		carrier.Tick()
		Expect(carrier.Value()).To(Equal(uint32(0)))
		Expect(carrier.Valley()).To(BeTrue())
		Expect(carrier.Rising()).To(BeTrue())

		carrier.Tick()
		Expect(carrier.Valley()).To(BeFalse())
		Expect(carrier.Value()).To(Equal(uint32(1)))
	})

	It("should assert valley once per full period", func() {
		valleys := 0
		for i := 0; i < 80; i++ {
			carrier.Tick()
			if carrier.Valley() {
				valleys++
			}
		}
		// Period is 2*(max-1) = 8 ticks.
		Expect(valleys).To(Equal(10))
	})

	It("should stay within bounds and alternate direction", func() {
		rising := carrier.Rising()
		for i := 0; i < 1000; i++ {
			carrier.Tick()
			Expect(carrier.Value()).To(BeNumerically("<", 5))
			if carrier.Peak() || carrier.Valley() {
				Expect(carrier.Rising()).NotTo(Equal(rising))
				rising = carrier.Rising()
			}
		}
	})
})

var _ = Describe("Modulator", func() {
	const carrierMax = 10

	// tickUntilValley advances until the carrier valley pulse fires,
	// holding the given references at the inputs.
	tickUntilValley := func(m *modulator.Modulator, refs [modulator.NumPhases]int32) {
		for i := 0; i < 4*carrierMax; i++ {
			m.Tick(refs)
			if m.CarrierTick() {
				return
			}
		}
		Fail("no valley pulse observed")
	}

	It("should command neutral on all phases after reset", func() {
		m := modulator.New(carrierMax)
		for phase := 0; phase < modulator.NumPhases; phase++ {
			Expect(m.Level(phase)).To(Equal(gates.LevelNeutral))
		}
	})

	It("should commit the level two ticks after the sampling valley", func() {
		m := modulator.New(carrierMax)
		refs := [modulator.NumPhases]int32{5, 0, 0}

		tickUntilValley(m, refs)
		Expect(m.SampleTick()).To(BeTrue())
		Expect(m.Level(0)).To(Equal(gates.LevelNeutral))

		m.Tick(refs)
		Expect(m.Level(0)).To(Equal(gates.LevelNeutral))

		m.Tick(refs)
		Expect(m.Level(0)).To(Equal(gates.LevelPositive))
	})

	It("should delay one more tick with the output register", func() {
		m := modulator.New(carrierMax, modulator.WithOutputRegister())
		refs := [modulator.NumPhases]int32{5, 0, 0}

		tickUntilValley(m, refs)
		m.Tick(refs)
		m.Tick(refs)
		Expect(m.Level(0)).To(Equal(gates.LevelNeutral))

		m.Tick(refs)
		Expect(m.Level(0)).To(Equal(gates.LevelPositive))
	})

	It("should return to neutral once the carrier reaches the magnitude", func() {
		m := modulator.New(carrierMax)
		refs := [modulator.NumPhases]int32{5, 0, 0}

		tickUntilValley(m, refs)
		m.Tick(refs)
		m.Tick(refs)
		Expect(m.Level(0)).To(Equal(gates.LevelPositive))

		// The pipelined carrier rises one step per tick; at 5 the
		// comparison ties and ties resolve to neutral.
		sawNeutral := false
		for i := 0; i < carrierMax; i++ {
			m.Tick(refs)
			if m.Level(0) == gates.LevelNeutral {
				sawNeutral = true
				break
			}
		}
		Expect(sawNeutral).To(BeTrue())
	})

	It("should decide per phase independently", func() {
		m := modulator.New(carrierMax)
		refs := [modulator.NumPhases]int32{7, -7, 0}

		tickUntilValley(m, refs)
		m.Tick(refs)
		m.Tick(refs)

		Expect(m.Level(0)).To(Equal(gates.LevelPositive))
		Expect(m.Level(1)).To(Equal(gates.LevelNegative))
		Expect(m.Level(2)).To(Equal(gates.LevelNeutral))
	})

	It("should saturate out-of-range references instead of wrapping", func() {
		m := modulator.New(carrierMax)
		refs := [modulator.NumPhases]int32{math.MaxInt32, math.MinInt32, 0}

		tickUntilValley(m, refs)
		m.Tick(refs)
		m.Tick(refs)

		// Full-scale magnitude exceeds every carrier value, so the
		// level holds for the whole period.
		for i := 0; i < 4*carrierMax; i++ {
			Expect(m.Level(0)).To(Equal(gates.LevelPositive))
			Expect(m.Level(1)).To(Equal(gates.LevelNegative))
			m.Tick(refs)
		}
	})

	It("should hold the latched reference between valleys", func() {
		m := modulator.New(carrierMax)
		refs := [modulator.NumPhases]int32{5, 0, 0}

		tickUntilValley(m, refs)
		// Change the input mid-period; the pipeline must keep using
		// the latched value until the next valley.
		quiet := [modulator.NumPhases]int32{}
		m.Tick(quiet)
		m.Tick(quiet)
		Expect(m.Level(0)).To(Equal(gates.LevelPositive))

		tickUntilValley(m, quiet)
		m.Tick(quiet)
		m.Tick(quiet)
		Expect(m.Level(0)).To(Equal(gates.LevelNeutral))
	})

	It("should sample at the peak as well when configured", func() {
		m := modulator.New(carrierMax, modulator.WithBothEdgesSampling())

		samples := 0
		quiet := [modulator.NumPhases]int32{}
		for i := 0; i < 2*(carrierMax-1); i++ {
			m.Tick(quiet)
			if m.SampleTick() {
				samples++
			}
		}
		// One full period holds one valley and one peak.
		Expect(samples).To(Equal(2))
	})
})
