package harness

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pelab/npcsim/inverter"
)

// Trace records a per-tick waveform of the inverter as CSV, for
// offline inspection of carrier, levels, gates and flags.
type Trace struct {
	w   *csv.Writer
	err error
}

// traceHeader is the column layout of a trace file.
var traceHeader = []string{
	"tick", "carrier", "valley",
	"level_a", "level_b", "level_c",
	"gate_a", "gate_b", "gate_c",
	"fault", "active",
}

// NewTrace creates a trace writing to w and emits the header row.
func NewTrace(w io.Writer) *Trace {
	t := &Trace{w: csv.NewWriter(w)}
	t.err = t.w.Write(traceHeader)
	return t
}

// Record appends one tick to the trace. After the first write error
// the trace goes inert; the error surfaces from Flush.
func (t *Trace) Record(tick uint64, inv *inverter.Inverter) {
	if t.err != nil {
		return
	}

	mod := inv.Modulator()
	row := []string{
		strconv.FormatUint(tick, 10),
		strconv.FormatUint(uint64(mod.CarrierValue()), 10),
		boolDigit(inv.CarrierTick()),
		mod.Level(0).String(),
		mod.Level(1).String(),
		mod.Level(2).String(),
		inv.Gate(0).String(),
		inv.Gate(1).String(),
		inv.Gate(2).String(),
		boolDigit(inv.Fault()),
		boolDigit(inv.Active()),
	}
	t.err = t.w.Write(row)
}

// Flush writes any buffered rows and returns the first error seen.
func (t *Trace) Flush() error {
	if t.err != nil {
		return t.err
	}
	t.w.Flush()
	return t.w.Error()
}

func boolDigit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
