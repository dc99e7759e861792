// Package gates provides the three-level logical state and 4-bit gate
// vector definitions for a neutral-point-clamped inverter leg.
package gates

import "fmt"

// Level represents the logical output level commanded for one phase.
type Level uint8

// Logical levels. Neutral is the zero value so that a freshly reset
// pipeline commands the midpoint.
const (
	LevelNeutral Level = iota
	LevelPositive
	LevelNegative
)

// String returns a short human-readable name for the level.
func (l Level) String() string {
	switch l {
	case LevelNeutral:
		return "NEUTRAL"
	case LevelPositive:
		return "POSITIVE"
	case LevelNegative:
		return "NEGATIVE"
	default:
		return fmt.Sprintf("Level(%d)", uint8(l))
	}
}

// Vector is a 4-bit gate pattern for one NPC leg. Bit 3 is S1 (top
// outer), bit 2 is S2 (top inner), bit 1 is S3 (bottom inner), bit 0
// is S4 (bottom outer). A set bit means the switch conducts.
type Vector uint8

// Gate patterns for one leg.
const (
	// VecAllOff opens every switch. Safe fallback during shutdown
	// and fault handling.
	VecAllOff Vector = 0b0000
	// VecNeutral clamps the output to the DC midpoint (S2, S3).
	VecNeutral Vector = 0b0110
	// VecPositive connects the output to the positive rail (S1, S2).
	VecPositive Vector = 0b1100
	// VecNegative connects the output to the negative rail (S3, S4).
	VecNegative Vector = 0b0011
	// VecPosDead is the dead-time intermediate between neutral and
	// positive: only S2 conducts.
	VecPosDead Vector = 0b0100
	// VecNegDead is the dead-time intermediate between neutral and
	// negative: only S3 conducts.
	VecNegDead Vector = 0b0010
)

// TopRailOn reports whether the top outer switch (S1) conducts.
func (v Vector) TopRailOn() bool {
	return v&0b1000 != 0
}

// BottomRailOn reports whether the bottom outer switch (S4) conducts.
func (v Vector) BottomRailOn() bool {
	return v&0b0001 != 0
}

// RailConflict reports whether the pattern conducts on both outer
// rails at once. No reachable pattern may ever satisfy this; a true
// result would short the DC bus through the leg.
func (v Vector) RailConflict() bool {
	return v.TopRailOn() && v.BottomRailOn()
}

// Invert returns the pattern with all four gate lines complemented,
// for driver boards with active-low inputs.
func (v Vector) Invert() Vector {
	return ^v & 0b1111
}

// On reports whether switch n (1..4, S1..S4) conducts.
func (v Vector) On(n int) bool {
	if n < 1 || n > 4 {
		return false
	}
	return v&(1<<(4-n)) != 0
}

// String renders the vector as four binary digits, S1 first.
func (v Vector) String() string {
	return fmt.Sprintf("%04b", uint8(v&0b1111))
}
