package switching

import (
	"fmt"

	"github.com/pelab/npcsim/gates"
)

// State identifies the position of the safe-switching machine.
type State uint8

// Machine states. Off is the reset state and the only state reachable
// after a completed shutdown.
const (
	StateOff State = iota
	StateZero
	StatePosDead
	StatePos
	StateNegDead
	StateNeg
	StateWaitShutdown
)

// String returns a short human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateOff:
		return "OFF"
	case StateZero:
		return "ZERO"
	case StatePosDead:
		return "POS_DEAD"
	case StatePos:
		return "POS"
	case StateNegDead:
		return "NEG_DEAD"
	case StateNeg:
		return "NEG"
	case StateWaitShutdown:
		return "WAIT_SHUTDOWN"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Gate returns the literal gate pattern driven while resident in the
// state.
func (s State) Gate() gates.Vector {
	switch s {
	case StateZero:
		return gates.VecNeutral
	case StatePosDead:
		return gates.VecPosDead
	case StatePos:
		return gates.VecPositive
	case StateNegDead:
		return gates.VecNegDead
	case StateNeg:
		return gates.VecNegative
	default:
		// Off and WaitShutdown hold every switch open.
		return gates.VecAllOff
	}
}

// legalNext reports whether a single-tick transition from one state to
// another honors the pass-through-neutral sequencing. Any commit that
// would skip an intermediate registered state is illegal and trips the
// forbidden-transition interlock.
func legalNext(from, to State) bool {
	if from == to {
		return true
	}
	switch from {
	case StateOff:
		return to == StateZero
	case StateZero:
		return to == StatePosDead || to == StateNegDead || to == StateOff
	case StatePosDead:
		return to == StatePos || to == StateZero || to == StateWaitShutdown
	case StatePos:
		return to == StatePosDead
	case StateNegDead:
		return to == StateNeg || to == StateZero || to == StateWaitShutdown
	case StateNeg:
		return to == StateNegDead
	case StateWaitShutdown:
		return to == StateOff
	default:
		return false
	}
}
