// Package switching implements the safe-switching state machine of
// one NPC inverter leg.
//
// The machine turns the logical level commanded by the modulator
// pipeline into a literal 4-bit gate vector while enforcing the
// physical constraints of the power stage: a mandatory dead time in
// the single-switch intermediate states, a minimum pulse width in the
// committed states, forced pass-through-neutral for rail reversals,
// a fixed ordered shutdown sequence, and a latched fault that only an
// external clear pulse can release. Enable changes take effect at the
// valley sync tick, never mid-cycle.
package switching

import (
	"math"

	"github.com/pelab/npcsim/gates"
)

// Config holds the per-leg timing parameters, in clock ticks.
type Config struct {
	// DeadTimeTicks is the residency enforced in PosDead and NegDead
	// before the opposite switch pair may engage.
	DeadTimeTicks uint32
	// MinPulseWidthTicks is the residency enforced in Zero, Pos and
	// Neg before a new transition request is honored.
	MinPulseWidthTicks uint32
	// WaitShutdownTicks is the quiescent period in WaitShutdown, with
	// enable low, before the machine returns to Off.
	WaitShutdownTicks uint32
}

// Input carries the per-tick inputs of the machine.
type Input struct {
	// Level is the logical level commanded by the pipeline.
	Level gates.Level
	// Enable is the raw enable input. It reaches the decision logic
	// only through the sync register, at the next Sync tick.
	Enable bool
	// Sync is the valley-aligned synchronization pulse.
	Sync bool
	// Clear releases the latched fault. It never moves the machine.
	Clear bool
}

// Machine is the safe-switching state machine for one leg. Every
// register updates exactly once per Tick from the same tick's inputs
// and the prior state.
type Machine struct {
	cfg Config

	state State

	// Residency counter, shared by the dead-time and min-pulse
	// thresholds. Reset on every state change.
	counter     uint32
	deadTimeMet bool
	minPulseMet bool

	// Quiescent counter, running only in WaitShutdown while the
	// synchronized enable stays low.
	waitCount uint32

	enableSync bool
	fault      bool
	prevLevel  gates.Level

	// One-tick pulses.
	forbidden    bool
	minViolation bool
}

// New creates a machine in the Off state with all-off gates.
func New(cfg Config) *Machine {
	return &Machine{cfg: cfg}
}

// Tick evaluates one clock tick.
func (m *Machine) Tick(in Input) {
	m.forbidden = false
	m.minViolation = false

	if in.Sync {
		m.enableSync = in.Enable
	}
	if in.Clear {
		m.fault = false
	}

	// Latch the threshold flags. The dead-state exits fire on the
	// rising edge of the dead-time flag, so residency there is
	// exactly DeadTimeTicks.
	deadTimeJust := false
	if !m.deadTimeMet && m.counter >= m.cfg.DeadTimeTicks-1 {
		m.deadTimeMet = true
		deadTimeJust = true
	}
	if !m.minPulseMet && m.counter >= m.cfg.MinPulseWidthTicks-1 {
		m.minPulseMet = true
	}

	shutdown := !m.enableSync || m.fault

	next := m.state
	switch m.state {
	case StateOff:
		if m.enableSync && !m.fault &&
			in.Level == gates.LevelNeutral && m.prevLevel != gates.LevelNeutral {
			next = StateZero
		}

	case StateZero:
		switch {
		case shutdown:
			next = StateOff
		case m.minPulseMet && in.Level == gates.LevelPositive:
			next = StatePosDead
		case m.minPulseMet && in.Level == gates.LevelNegative:
			next = StateNegDead
		case !m.minPulseMet && in.Level != gates.LevelNeutral:
			m.minViolation = true
		}

	case StatePosDead:
		if deadTimeJust {
			switch {
			case shutdown:
				next = StateWaitShutdown
			case in.Level == gates.LevelPositive:
				next = StatePos
			default:
				next = StateZero
			}
		}

	case StatePos:
		requested := shutdown || in.Level != gates.LevelPositive
		switch {
		case requested && m.minPulseMet:
			next = StatePosDead
		case requested:
			m.minViolation = true
		}

	case StateNegDead:
		if deadTimeJust {
			switch {
			case shutdown:
				next = StateWaitShutdown
			case in.Level == gates.LevelNegative:
				next = StateNeg
			default:
				next = StateZero
			}
		}

	case StateNeg:
		requested := shutdown || in.Level != gates.LevelNegative
		switch {
		case requested && m.minPulseMet:
			next = StateNegDead
		case requested:
			m.minViolation = true
		}

	case StateWaitShutdown:
		if m.enableSync {
			// Re-enabling restarts the quiescent period.
			m.waitCount = 0
		} else {
			m.waitCount++
			if m.waitCount >= m.cfg.WaitShutdownTicks {
				next = StateOff
			}
		}
	}

	m.commit(next)
	m.prevLevel = in.Level
}

// commit moves the machine to the next state, guarded by the
// forbidden-transition interlock. A commit that skips an intermediate
// registered state is refused: the machine holds its position, pulses
// the forbidden indicator and latches the fault, and the shutdown
// rules unwind it on the following ticks.
func (m *Machine) commit(next State) {
	if next == m.state {
		if m.counter < math.MaxUint32 {
			m.counter++
		}
		return
	}

	if !legalNext(m.state, next) {
		m.forbidden = true
		m.fault = true
		if m.counter < math.MaxUint32 {
			m.counter++
		}
		return
	}

	m.state = next
	m.counter = 0
	m.deadTimeMet = false
	m.minPulseMet = false
	if next == StateWaitShutdown {
		m.waitCount = 0
	}
}

// State returns the current machine state.
func (m *Machine) State() State {
	return m.state
}

// Gate returns the gate vector driven this tick.
func (m *Machine) Gate() gates.Vector {
	return m.state.Gate()
}

// Fault reports the latched fault flag.
func (m *Machine) Fault() bool {
	return m.fault
}

// ForbiddenTransition reports the one-tick forbidden-transition pulse.
func (m *Machine) ForbiddenTransition() bool {
	return m.forbidden
}

// MinPulseViolation reports the one-tick pulse asserted when a
// transition request is deferred by the min-pulse interlock. It is
// informational only and never latches.
func (m *Machine) MinPulseViolation() bool {
	return m.minViolation
}

// Active reports whether the leg is running. It is false only in Off.
func (m *Machine) Active() bool {
	return m.state != StateOff
}

// EnableSynced returns the registered enable as of the last sync tick.
func (m *Machine) EnableSynced() bool {
	return m.enableSync
}
