package stream

import (
	"encoding/binary"
	"fmt"

	"github.com/pelab/npcsim/gates"
	"github.com/pelab/npcsim/modulator"
)

// Frame layout, 10 bytes:
//
//	0     sync byte (0xA5)
//	1..4  tick, little endian
//	5..7  gate vectors, phases A..C (low nibble)
//	8     flags: bit0 fault, bit1 active, bit2 carrier tick
//	9     XOR checksum over bytes 0..8
const (
	frameSync = 0xA5
	// FrameSize is the encoded size of one gate frame.
	FrameSize = 10
)

// Frame flag bits.
const (
	FlagFault uint8 = 1 << iota
	FlagActive
	FlagCarrierTick
)

// Frame is one sampled gate state sent to the driver board.
type Frame struct {
	Tick        uint32
	Gates       [modulator.NumPhases]gates.Vector
	Fault       bool
	Active      bool
	CarrierTick bool
}

// Encode appends the wire form of the frame to dst and returns the
// extended slice.
func (f Frame) Encode(dst []byte) []byte {
	start := len(dst)
	dst = append(dst, frameSync)
	dst = binary.LittleEndian.AppendUint32(dst, f.Tick)
	for _, g := range f.Gates {
		dst = append(dst, uint8(g))
	}

	var flags uint8
	if f.Fault {
		flags |= FlagFault
	}
	if f.Active {
		flags |= FlagActive
	}
	if f.CarrierTick {
		flags |= FlagCarrierTick
	}
	dst = append(dst, flags)

	var sum uint8
	for _, b := range dst[start:] {
		sum ^= b
	}
	return append(dst, sum)
}

// Decode parses one frame from b.
func Decode(b []byte) (Frame, error) {
	var f Frame
	if len(b) < FrameSize {
		return f, fmt.Errorf("short frame: %d bytes", len(b))
	}
	if b[0] != frameSync {
		return f, fmt.Errorf("bad sync byte 0x%02X", b[0])
	}

	var sum uint8
	for _, x := range b[:FrameSize-1] {
		sum ^= x
	}
	if sum != b[FrameSize-1] {
		return f, fmt.Errorf("checksum mismatch: got 0x%02X, want 0x%02X", b[FrameSize-1], sum)
	}

	f.Tick = binary.LittleEndian.Uint32(b[1:5])
	for i := range f.Gates {
		f.Gates[i] = gates.Vector(b[5+i] & 0b1111)
	}
	f.Fault = b[8]&FlagFault != 0
	f.Active = b[8]&FlagActive != 0
	f.CarrierTick = b[8]&FlagCarrierTick != 0
	return f, nil
}

// Writer streams frames into a Port.
type Writer struct {
	port Port
	buf  []byte
}

// NewWriter creates a frame writer on the given port.
func NewWriter(port Port) *Writer {
	return &Writer{
		port: port,
		buf:  make([]byte, 0, FrameSize),
	}
}

// WriteFrame encodes and sends one frame.
func (w *Writer) WriteFrame(f Frame) error {
	w.buf = f.Encode(w.buf[:0])
	if _, err := w.port.Write(w.buf); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// Close closes the underlying port.
func (w *Writer) Close() error {
	return w.port.Close()
}
