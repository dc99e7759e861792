// Package inverter composes the modulator pipeline with three
// safe-switching machines into a complete three-phase NPC modulator.
package inverter

import (
	"github.com/pelab/npcsim/config"
	"github.com/pelab/npcsim/gates"
	"github.com/pelab/npcsim/modulator"
	"github.com/pelab/npcsim/switching"
)

// Statistics holds per-run counters for the inverter.
type Statistics struct {
	// Ticks is the total number of clock ticks simulated.
	Ticks uint64
	// CarrierPeriods is the number of carrier valleys observed.
	CarrierPeriods uint64
	// StateChanges counts switching-machine state changes per phase.
	StateChanges [modulator.NumPhases]uint64
	// FaultEvents is the number of ticks on which a new forbidden
	// transition was reported by any phase.
	FaultEvents uint64
	// MinPulseViolations is the number of ticks on which any phase
	// reported a min-pulse violation.
	MinPulseViolations uint64
}

// SwitchingRate returns state changes per tick, averaged over all
// phases.
func (s Statistics) SwitchingRate() float64 {
	if s.Ticks == 0 {
		return 0
	}
	var total uint64
	for _, n := range s.StateChanges {
		total += n
	}
	return float64(total) / float64(modulator.NumPhases) / float64(s.Ticks)
}

// Input carries the per-tick external inputs of the inverter.
type Input struct {
	// Refs are the three signed phase references.
	Refs [modulator.NumPhases]int32
	// Enable is the raw enable level, broadcast to every phase.
	Enable bool
	// Clear is the fault-clear pulse, broadcast to every phase.
	Clear bool
}

// Inverter instantiates the pipeline once and one switching machine
// per phase. The machines share the pipeline's read-only outputs and
// own their state exclusively; the aggregator holds no state besides
// statistics.
type Inverter struct {
	mod  *modulator.Modulator
	legs [modulator.NumPhases]*switching.Machine

	invertOutputs bool
	prevStates    [modulator.NumPhases]switching.State

	stats Statistics
}

// New builds an inverter from the configuration. The configuration is
// assumed to be validated.
func New(cfg *config.Config) *Inverter {
	var opts []modulator.Option
	if cfg.SampleBothEdges {
		opts = append(opts, modulator.WithBothEdgesSampling())
	}
	if cfg.OutputRegister {
		opts = append(opts, modulator.WithOutputRegister())
	}

	inv := &Inverter{
		mod:           modulator.New(cfg.CarrierMax(), opts...),
		invertOutputs: cfg.InvertOutputs,
	}

	legCfg := switching.Config{
		DeadTimeTicks:      cfg.DeadTimeTicks,
		MinPulseWidthTicks: cfg.MinPulseWidthTicks,
		WaitShutdownTicks:  cfg.WaitShutdownTicks,
	}
	for i := range inv.legs {
		inv.legs[i] = switching.New(legCfg)
	}

	return inv
}

// Tick advances the whole inverter by one clock tick.
func (inv *Inverter) Tick(in Input) {
	inv.mod.Tick(in.Refs)

	sync := inv.mod.CarrierTick()
	for i, leg := range inv.legs {
		leg.Tick(switching.Input{
			Level:  inv.mod.Level(i),
			Enable: in.Enable,
			Sync:   sync,
			Clear:  in.Clear,
		})
	}

	inv.stats.Ticks++
	if sync {
		inv.stats.CarrierPeriods++
	}
	for i, leg := range inv.legs {
		if leg.State() != inv.prevStates[i] {
			inv.stats.StateChanges[i]++
			inv.prevStates[i] = leg.State()
		}
	}
	if inv.ForbiddenTransition() {
		inv.stats.FaultEvents++
	}
	if inv.MinPulseViolation() {
		inv.stats.MinPulseViolations++
	}
}

// Gate returns the gate vector of one phase, inverted when the
// configuration asks for active-low outputs.
func (inv *Inverter) Gate(phase int) gates.Vector {
	v := inv.legs[phase].Gate()
	if inv.invertOutputs {
		v = v.Invert()
	}
	return v
}

// Gates returns the gate vectors of all three phases.
func (inv *Inverter) Gates() [modulator.NumPhases]gates.Vector {
	var out [modulator.NumPhases]gates.Vector
	for i := range out {
		out[i] = inv.Gate(i)
	}
	return out
}

// Leg returns the switching machine of one phase.
func (inv *Inverter) Leg(phase int) *switching.Machine {
	return inv.legs[phase]
}

// Modulator returns the shared carrier and level-decision pipeline.
func (inv *Inverter) Modulator() *modulator.Modulator {
	return inv.mod
}

// Fault reports the OR of the three latched fault flags.
func (inv *Inverter) Fault() bool {
	for _, leg := range inv.legs {
		if leg.Fault() {
			return true
		}
	}
	return false
}

// Active reports the AND of the three active flags.
func (inv *Inverter) Active() bool {
	for _, leg := range inv.legs {
		if !leg.Active() {
			return false
		}
	}
	return true
}

// ForbiddenTransition reports the OR of the three one-tick forbidden
// pulses.
func (inv *Inverter) ForbiddenTransition() bool {
	for _, leg := range inv.legs {
		if leg.ForbiddenTransition() {
			return true
		}
	}
	return false
}

// MinPulseViolation reports the OR of the three one-tick min-pulse
// violation pulses.
func (inv *Inverter) MinPulseViolation() bool {
	for _, leg := range inv.legs {
		if leg.MinPulseViolation() {
			return true
		}
	}
	return false
}

// CarrierTick reports the one-tick valley pulse for external loop
// synchronization.
func (inv *Inverter) CarrierTick() bool {
	return inv.mod.CarrierTick()
}

// SampleTick reports the one-tick reference-sampling pulse.
func (inv *Inverter) SampleTick() bool {
	return inv.mod.SampleTick()
}

// Stats returns a copy of the run statistics.
func (inv *Inverter) Stats() Statistics {
	return inv.stats
}
