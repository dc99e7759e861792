// Package main provides the NPCSim command line interface.
// NPCSim is a cycle-accurate three-level NPC inverter modulator.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/pelab/npcsim/config"
	"github.com/pelab/npcsim/harness"
	"github.com/pelab/npcsim/inverter"
	"github.com/pelab/npcsim/modulator"
	"github.com/pelab/npcsim/stream"
)

var (
	configPath  = flag.String("config", "", "Path to configuration JSON file")
	writeConfig = flag.String("write-config", "", "Write the default configuration to a file and exit")
	ticks       = flag.Uint64("ticks", 1_000_000, "Number of clock ticks to simulate")
	refFreq     = flag.Float64("ref-freq", 50, "Reference fundamental frequency in Hz")
	modIndex    = flag.Float64("mod-index", 0.8, "Modulation index (reference amplitude / carrier amplitude)")
	csvPath     = flag.String("csv", "", "Write a per-tick CSV waveform trace to a file")
	serialDev   = flag.String("serial", "", "Stream gate frames to a serial device (e.g. /dev/ttyACM0)")
	verbose     = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if *writeConfig != "" {
		if err := config.Default().Save(*writeConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote default configuration to %s\n", *writeConfig)
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Clock: %d Hz, switching: %d Hz, carrier max: %d\n",
			cfg.ClockFrequencyHz, cfg.SwitchingFrequencyHz, cfg.CarrierMax())
		fmt.Printf("Dead time: %d ticks, min pulse: %d ticks, shutdown wait: %d ticks\n",
			cfg.DeadTimeTicks, cfg.MinPulseWidthTicks, cfg.WaitShutdownTicks)
	}

	inv := inverter.New(cfg)
	opts := []harness.Option{}

	if *csvPath != "" {
		f, err := os.Create(*csvPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating trace file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		opts = append(opts, harness.WithTrace(harness.NewTrace(f)))
	}

	if *serialDev != "" {
		port, err := stream.Open(stream.DefaultConfig(*serialDev))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening serial port: %v\n", err)
			os.Exit(1)
		}
		writer := stream.NewWriter(port)
		defer writer.Close()
		opts = append(opts, harness.WithObserver(streamFrames(writer)))
	}

	refs := sineReferences(cfg, *refFreq, *modIndex)
	h := harness.NewHarness(inv, refs, *ticks, opts...)

	if err := harness.Run(h, cfg.ClockFrequencyHz); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printStats(inv, cfg)
}

// sineReferences builds the upstream-collaborator reference source:
// three 120-degree-shifted sinusoids scaled by the modulation index.
func sineReferences(cfg *config.Config, freq, index float64) harness.ReferenceSource {
	amplitude := index * float64(cfg.CarrierMax())
	omega := 2 * math.Pi * freq / float64(cfg.ClockFrequencyHz)
	return func(tick uint64) [modulator.NumPhases]int32 {
		var refs [modulator.NumPhases]int32
		for i := range refs {
			phase := omega*float64(tick) - float64(i)*2*math.Pi/3
			refs[i] = int32(amplitude * math.Sin(phase))
		}
		return refs
	}
}

// streamFrames forwards the gate state to the driver board on every
// sample tick.
func streamFrames(w *stream.Writer) func(tick uint64, inv *inverter.Inverter) {
	return func(tick uint64, inv *inverter.Inverter) {
		if !inv.SampleTick() {
			return
		}
		frame := stream.Frame{
			Tick:        uint32(tick),
			Gates:       inv.Gates(),
			Fault:       inv.Fault(),
			Active:      inv.Active(),
			CarrierTick: inv.CarrierTick(),
		}
		if err := w.WriteFrame(frame); err != nil {
			fmt.Fprintf(os.Stderr, "Serial write failed: %v\n", err)
		}
	}
}

func printStats(inv *inverter.Inverter, cfg *config.Config) {
	stats := inv.Stats()
	fmt.Printf("Ticks simulated:      %d\n", stats.Ticks)
	fmt.Printf("Carrier periods:      %d\n", stats.CarrierPeriods)
	for i, n := range stats.StateChanges {
		fmt.Printf("Phase %c state changes: %d\n", 'A'+i, n)
	}
	fmt.Printf("Switching rate:       %.6f changes/tick\n", stats.SwitchingRate())
	fmt.Printf("Fault events:         %d\n", stats.FaultEvents)
	fmt.Printf("Min-pulse violations: %d\n", stats.MinPulseViolations)
	fmt.Printf("Fault latched:        %v\n", inv.Fault())
	fmt.Printf("Active:               %v\n", inv.Active())
	if *verbose {
		for i := 0; i < modulator.NumPhases; i++ {
			fmt.Printf("Phase %c final gates:   %s (%s)\n",
				'A'+i, inv.Gate(i), inv.Leg(i).State())
		}
	}
}
