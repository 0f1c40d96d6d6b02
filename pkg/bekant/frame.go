// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package bekant

import (
	"encoding/binary"
	"fmt"
)

// Frame is a single request or response on the wire:
//
//	[STX, command, length, payload..., checksum]
//
// For responses the first payload byte is the desk status.
type Frame struct {
	Command  Command
	Payload  []byte
	Checksum byte
}

// NewFrame builds a frame and computes its checksum
func NewFrame(cmd Command, payload []byte) Frame {
	f := Frame{Command: cmd, Payload: append([]byte(nil), payload...)}
	f.Checksum = Checksum(f.header())
	f.Checksum ^= Checksum(f.Payload)
	return f
}

// Encode returns the wire bytes of a request for cmd
func Encode(cmd Command, payload []byte) []byte {
	return NewFrame(cmd, payload).Bytes()
}

func (f Frame) header() []byte {
	return []byte{STX, byte(f.Command), byte(len(f.Payload))}
}

// Bytes returns the wire encoding of the frame
func (f Frame) Bytes() []byte {
	buf := make([]byte, 0, len(f.Payload)+4)
	buf = append(buf, f.header()...)
	buf = append(buf, f.Payload...)
	return append(buf, f.Checksum)
}

// Length returns the payload length
func (f Frame) Length() int {
	return len(f.Payload)
}

// Status returns the desk status byte of a response frame
func (f Frame) Status() byte {
	if len(f.Payload) == 0 {
		return 0
	}
	return f.Payload[0]
}

// Data returns the response payload following the status byte
func (f Frame) Data() []byte {
	if len(f.Payload) < 2 {
		return nil
	}
	return f.Payload[1:]
}

// Uint8 returns the single data byte of a response
func (f Frame) Uint8() uint8 {
	data := f.Data()
	if len(data) < 1 {
		return 0
	}
	return data[0]
}

// Uint16 returns the big-endian data word of a response
func (f Frame) Uint16() uint16 {
	data := f.Data()
	if len(data) < 2 {
		return 0
	}
	return binary.BigEndian.Uint16(data)
}

// Version returns a three byte version response as "major.minor.patch"
func (f Frame) Version() string {
	data := f.Data()
	if len(data) < 3 {
		return ""
	}
	return fmt.Sprintf("%d.%d.%d", data[0], data[1], data[2])
}

// ASCII returns the data bytes of a response as text
func (f Frame) ASCII() string {
	return string(f.Data())
}

// Decode validates raw as the response to cmd and returns the frame.
//
// Checks run in a fixed order so that the first violation is reported:
// minimum size, start byte, response command, checksum, length byte, desk
// status and finally the expected total length.
func Decode(cmd Command, expectedLength int, raw []byte) (Frame, error) {
	if len(raw) < MinFrameSize {
		return Frame{}, hostError(cmd, HostInvalidLength, "got %d bytes, need at least %d", len(raw), MinFrameSize)
	}

	if raw[0] != STX {
		return Frame{}, hostError(cmd, HostInvalidIdentifier, "start byte 0x%02X", raw[0])
	}

	want := byte(cmd) | ResponseFlag
	if raw[1] != want {
		return Frame{}, hostError(cmd, HostInvalidCommand, "command 0x%02X, want 0x%02X", raw[1], want)
	}

	last := len(raw) - 1
	if cc := Checksum(raw[:last]); cc != raw[last] {
		return Frame{}, hostError(cmd, HostInvalidChecksum, "checksum 0x%02X, computed 0x%02X", raw[last], cc)
	}

	if raw[2] < 1 {
		return Frame{}, hostError(cmd, HostInvalidLength, "empty payload")
	}

	if status := raw[3]; status != 0 {
		return Frame{}, &DeskError{Code: DeskErrorCode(status), Op: cmd}
	}

	if len(raw) != expectedLength {
		return Frame{}, hostError(cmd, HostInvalidLength, "got %d bytes, want %d", len(raw), expectedLength)
	}

	return Frame{
		Command:  Command(raw[1]),
		Payload:  append([]byte(nil), raw[3:last]...),
		Checksum: raw[last],
	}, nil
}
