// Package stream sends gate frames to a downstream driver board over
// a serial link.
package stream

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// Port is the transport a frame writer streams into. The abstraction
// keeps tests off real hardware.
type Port interface {
	io.WriteCloser
}

// Config holds serial port parameters.
type Config struct {
	// Device is the port path, e.g. "/dev/ttyACM0" or "COM3".
	Device string
	// Baud is the line rate. USB CDC devices ignore it.
	Baud int
	// ReadTimeout bounds blocking reads, in milliseconds.
	ReadTimeout int
}

// DefaultConfig returns the standard configuration for a gate-driver
// link on the given device.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100,
	}
}

// nativePort wraps a physical serial port.
type nativePort struct {
	port *serial.Port
}

// Open opens the physical serial port described by cfg.
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	return &nativePort{port: port}, nil
}

func (p *nativePort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

func (p *nativePort) Close() error {
	return p.port.Close()
}
