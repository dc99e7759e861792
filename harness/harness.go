// Package harness drives an inverter on the Akita simulation engine.
//
// The inverter is wrapped as a ticking component running at the
// configured clock frequency on a serial engine. The harness stops
// the simulation after a fixed number of ticks by reporting no
// further progress.
package harness

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/pelab/npcsim/inverter"
	"github.com/pelab/npcsim/modulator"
)

// ReferenceSource produces the three phase references for a tick.
// It models the upstream control loop.
type ReferenceSource func(tick uint64) [modulator.NumPhases]int32

// ZeroReferences is a ReferenceSource that holds every phase at the
// midpoint.
func ZeroReferences(uint64) [modulator.NumPhases]int32 {
	return [modulator.NumPhases]int32{}
}

// Harness runs an inverter for a fixed number of ticks. It implements
// the Akita Ticker interface.
type Harness struct {
	inv      *inverter.Inverter
	refs     ReferenceSource
	maxTicks uint64
	tick     uint64

	enable   bool
	trace    *Trace
	observer func(tick uint64, inv *inverter.Inverter)
}

// Option configures a Harness.
type Option func(*Harness)

// WithTrace records every tick into the given trace.
func WithTrace(t *Trace) Option {
	return func(h *Harness) {
		h.trace = t
	}
}

// WithObserver calls fn after every tick, before the tick counter
// advances.
func WithObserver(fn func(tick uint64, inv *inverter.Inverter)) Option {
	return func(h *Harness) {
		h.observer = fn
	}
}

// WithEnable sets the initial enable level. Default: enabled.
func WithEnable(enable bool) Option {
	return func(h *Harness) {
		h.enable = enable
	}
}

// NewHarness wraps an inverter for a bounded run.
func NewHarness(inv *inverter.Inverter, refs ReferenceSource, maxTicks uint64, opts ...Option) *Harness {
	h := &Harness{
		inv:      inv,
		refs:     refs,
		maxTicks: maxTicks,
		enable:   true,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SetEnable changes the enable level applied on subsequent ticks.
func (h *Harness) SetEnable(enable bool) {
	h.enable = enable
}

// Tick advances the inverter by one clock tick. It returns false once
// the tick budget is exhausted, which lets the engine run out of
// events and stop.
func (h *Harness) Tick() bool {
	if h.tick >= h.maxTicks {
		return false
	}

	h.inv.Tick(inverter.Input{
		Refs:   h.refs(h.tick),
		Enable: h.enable,
	})
	if h.trace != nil {
		h.trace.Record(h.tick, h.inv)
	}
	if h.observer != nil {
		h.observer(h.tick, h.inv)
	}
	h.tick++
	return true
}

// Ticks returns the number of ticks executed so far.
func (h *Harness) Ticks() uint64 {
	return h.tick
}

// Run executes the harness on a serial Akita engine at the given
// clock frequency.
func Run(h *Harness, clockHz uint64) error {
	engine := sim.NewSerialEngine()
	comp := sim.NewTickingComponent(
		"Inverter", engine, sim.Freq(clockHz)*sim.Hz, h)
	comp.TickLater()

	if err := engine.Run(); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	if h.trace != nil {
		if err := h.trace.Flush(); err != nil {
			return fmt.Errorf("failed to flush trace: %w", err)
		}
	}
	return nil
}
