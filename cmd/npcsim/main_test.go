// Package main provides tests for the CLI reference source.
package main

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pelab/npcsim/config"
)

func TestCLI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "CLI Suite")
}

var _ = Describe("Sine References", func() {
	var cfg *config.Config

	BeforeEach(func() {
		cfg = config.Default()
	})

	It("should stay within the scaled carrier amplitude", func() {
		refs := sineReferences(cfg, 50, 0.8)
		limit := int32(float64(cfg.CarrierMax())*0.8) + 1
		for tick := uint64(0); tick < 100_000; tick += 37 {
			for _, r := range refs(tick) {
				Expect(r).To(BeNumerically("<=", limit))
				Expect(r).To(BeNumerically(">=", -limit))
			}
		}
	})

	It("should start phase A at zero", func() {
		refs := sineReferences(cfg, 50, 0.8)
		Expect(refs(0)[0]).To(Equal(int32(0)))
	})

	It("should shift the phases apart", func() {
		refs := sineReferences(cfg, 50, 1.0)
		// A quarter fundamental period: phase A at its crest.
		quarter := uint64(float64(cfg.ClockFrequencyHz) / 50 / 4)
		r := refs(quarter)
		Expect(r[0]).To(BeNumerically(">", int32(cfg.CarrierMax()/2)))
		Expect(r[0]).NotTo(Equal(r[1]))
		Expect(r[1]).NotTo(Equal(r[2]))
	})
})
