// Package main provides the entry point for NPCSim.
// NPCSim is a cycle-accurate three-level NPC inverter modulator.
//
// For the full CLI, use: go run ./cmd/npcsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("NPCSim - Three-Level NPC Inverter Modulator")
	fmt.Println("")
	fmt.Println("Usage: npcsim [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to configuration JSON file")
	fmt.Println("  -ticks     Number of clock ticks to simulate")
	fmt.Println("  -csv       Write a per-tick waveform trace")
	fmt.Println("  -serial    Stream gate frames to a serial device")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/npcsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/npcsim' instead.")
	}
}
