package modulator

import "github.com/pelab/npcsim/gates"

// Sampler latches the three reference inputs at the carrier valley,
// and optionally also at the peak. Until the first sampling instant
// after reset the latched references are zero.
type Sampler struct {
	bothEdges bool
	refs      [NumPhases]int32
	sampled   bool
}

// NewSampler creates a reference sampler. With bothEdges set the
// references are latched at both carrier extremes.
func NewSampler(bothEdges bool) *Sampler {
	return &Sampler{bothEdges: bothEdges}
}

// Tick latches the inputs when a sampling pulse is asserted.
func (s *Sampler) Tick(valley, peak bool, inputs [NumPhases]int32) {
	if valley || (s.bothEdges && peak) {
		s.refs = inputs
		s.sampled = true
	}
}

// Sampled reports the one-tick pulse of the most recent Tick having
// latched new references.
func (s *Sampler) Sampled() bool {
	return s.sampled
}

// Refs returns the latched references.
func (s *Sampler) Refs() [NumPhases]int32 {
	return s.refs
}

// clearPulse drops the sample pulse at the start of a tick.
func (s *Sampler) clearPulse() {
	s.sampled = false
}

// magSign is the registered output of the magnitude/sign stage for
// one phase.
type magSign struct {
	mag      uint32
	negative bool
}

// rectify converts a signed reference into a saturated unsigned
// magnitude and a sign bit. Out-of-range references clamp to max;
// they never wrap.
func rectify(ref int32, max uint32) magSign {
	var out magSign
	// Widen before negating so math.MinInt32 cannot overflow.
	v := int64(ref)
	if v < 0 {
		out.negative = true
		v = -v
	}
	if v > int64(max) {
		out.mag = max
	} else {
		out.mag = uint32(v)
	}
	return out
}

// decideLevel compares a magnitude against the time-aligned carrier
// value. Equality counts as neutral: leaving the midpoint requires a
// strictly greater magnitude.
func decideLevel(ms magSign, carrier uint32) gates.Level {
	if ms.mag <= carrier {
		return gates.LevelNeutral
	}
	if ms.negative {
		return gates.LevelNegative
	}
	return gates.LevelPositive
}
