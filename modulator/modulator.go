// Package modulator implements the carrier and level-decision
// pipeline of a three-level NPC modulator.
//
// The pipeline tracks a triangular carrier counter, latches the three
// phase references at the carrier valley, rectifies them into a
// saturated magnitude and sign one tick later, and commits one of
// three logical levels per phase one tick after that. A reference
// crosses a fixed 3 register stages from the input to the committed
// level, or 4 with the optional output register.
package modulator

import "github.com/pelab/npcsim/gates"

// NumPhases is the number of inverter legs fed by one pipeline.
const NumPhases = 3

// Modulator is the complete carrier and level-decision pipeline.
type Modulator struct {
	carrier *Carrier
	sampler *Sampler

	// Register stage 2: rectified references with the carrier value
	// pipelined in lock-step.
	rectified   [NumPhases]magSign
	carrierPipe uint32

	// Register stage 3: committed levels.
	levels [NumPhases]gates.Level

	// Optional register stage 4.
	outputRegister bool
	levelsOut      [NumPhases]gates.Level
}

// Option configures a Modulator.
type Option func(*Modulator)

// WithBothEdgesSampling latches the references at the carrier peak as
// well as the valley.
func WithBothEdgesSampling() Option {
	return func(m *Modulator) {
		m.sampler = NewSampler(true)
	}
}

// WithOutputRegister adds one more register stage after the level
// decision, raising the pipeline latency to 4 ticks.
func WithOutputRegister() Option {
	return func(m *Modulator) {
		m.outputRegister = true
	}
}

// New creates a modulator pipeline for the given carrier amplitude.
// All registers reset to zero, every level to neutral.
func New(carrierMax uint32, opts ...Option) *Modulator {
	m := &Modulator{
		carrier: NewCarrier(carrierMax),
		sampler: NewSampler(false),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Tick advances every pipeline register by one clock tick. Stages are
// updated output-first so each consumes the previous tick's register
// values, matching the synchronous single-writer discipline of the
// hardware.
func (m *Modulator) Tick(refs [NumPhases]int32) {
	if m.outputRegister {
		m.levelsOut = m.levels
	}

	for i := range m.rectified {
		m.levels[i] = decideLevel(m.rectified[i], m.carrierPipe)
	}

	m.carrierPipe = m.carrier.Value()
	latched := m.sampler.Refs()
	for i := range latched {
		m.rectified[i] = rectify(latched[i], m.carrier.Max())
	}

	m.sampler.clearPulse()
	m.carrier.Tick()
	m.sampler.Tick(m.carrier.Valley(), m.carrier.Peak(), refs)
}

// Level returns the committed logical level for the given phase.
func (m *Modulator) Level(phase int) gates.Level {
	if m.outputRegister {
		return m.levelsOut[phase]
	}
	return m.levels[phase]
}

// Levels returns the committed logical levels for all phases.
func (m *Modulator) Levels() [NumPhases]gates.Level {
	if m.outputRegister {
		return m.levelsOut
	}
	return m.levels
}

// CarrierTick reports the one-tick valley pulse, exposed for external
// control-loop synchronization.
func (m *Modulator) CarrierTick() bool {
	return m.carrier.Valley()
}

// SampleTick reports the one-tick pulse asserted when references were
// latched this tick.
func (m *Modulator) SampleTick() bool {
	return m.sampler.Sampled()
}

// CarrierValue returns the current carrier counter value.
func (m *Modulator) CarrierValue() uint32 {
	return m.carrier.Value()
}

// CarrierMax returns the carrier amplitude.
func (m *Modulator) CarrierMax() uint32 {
	return m.carrier.Max()
}
