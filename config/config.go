// Package config holds the modulator configuration and its JSON
// file representation.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the timing and topology parameters of the modulator.
// Tick counts are in clock ticks.
type Config struct {
	// ClockFrequencyHz is the frequency of the synchronous clock
	// driving every register. Default: 100 MHz.
	ClockFrequencyHz uint64 `json:"clock_frequency_hz"`

	// SwitchingFrequencyHz is the desired PWM switching frequency.
	// Together with ClockFrequencyHz it fixes the carrier amplitude:
	// CarrierMax = clock / switching / 2. Default: 10 kHz.
	SwitchingFrequencyHz uint64 `json:"switching_frequency_hz"`

	// DeadTimeTicks is the mandatory residency in a dead state before
	// the opposite switch pair may engage. Default: 50.
	DeadTimeTicks uint32 `json:"dead_time_ticks"`

	// MinPulseWidthTicks is the mandatory residency in an active state
	// before a new transition request is honored. Default: 100.
	MinPulseWidthTicks uint32 `json:"min_pulse_width_ticks"`

	// WaitShutdownTicks is the quiescent period spent in the shutdown
	// wait state, with enable low, before the machine returns to off.
	// Default: 1000.
	WaitShutdownTicks uint32 `json:"wait_shutdown_ticks"`

	// SampleBothEdges latches the references at the carrier peak as
	// well as the valley, doubling the effective sampling rate.
	// Default: false.
	SampleBothEdges bool `json:"sample_both_edges"`

	// InvertOutputs complements every gate line for active-low driver
	// inputs. Default: false.
	InvertOutputs bool `json:"invert_outputs"`

	// OutputRegister adds one more register stage after the level
	// decision for timing margin, raising the pipeline latency from
	// 3 to 4 ticks. Default: false.
	OutputRegister bool `json:"output_register"`
}

// Default returns a Config with the reference parameter set used
// throughout the test bench: 100 MHz clock, 10 kHz switching,
// 0.5 us dead time, 1 us minimum pulse, 10 us shutdown wait.
func Default() *Config {
	return &Config{
		ClockFrequencyHz:     100_000_000,
		SwitchingFrequencyHz: 10_000,
		DeadTimeTicks:        50,
		MinPulseWidthTicks:   100,
		WaitShutdownTicks:    1000,
		SampleBothEdges:      false,
		InvertOutputs:        false,
		OutputRegister:       false,
	}
}

// CarrierMax derives the carrier counter amplitude from the clock and
// switching frequencies.
func (c *Config) CarrierMax() uint32 {
	return uint32(c.ClockFrequencyHz / c.SwitchingFrequencyHz / 2)
}

// Load reads a Config from a JSON file. Missing fields keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// Save writes the Config to a JSON file.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the parameters describe a realizable modulator.
func (c *Config) Validate() error {
	if c.SwitchingFrequencyHz == 0 {
		return fmt.Errorf("switching_frequency_hz must be > 0")
	}
	if c.ClockFrequencyHz == 0 {
		return fmt.Errorf("clock_frequency_hz must be > 0")
	}
	if c.CarrierMax() < 2 {
		return fmt.Errorf("clock_frequency_hz must be at least 4x switching_frequency_hz")
	}
	if c.DeadTimeTicks == 0 {
		return fmt.Errorf("dead_time_ticks must be > 0")
	}
	if c.MinPulseWidthTicks == 0 {
		return fmt.Errorf("min_pulse_width_ticks must be > 0")
	}
	if c.WaitShutdownTicks == 0 {
		return fmt.Errorf("wait_shutdown_ticks must be > 0")
	}
	return nil
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
