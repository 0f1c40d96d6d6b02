// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package as1115 drives the AS1115 LED display and keyscan controller of
// the desk control panel over I²C.
package as1115

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"

	"github.com/Thermoquad/lyft/pkg/controller"
)

// DefaultAddr is the I²C address of the AS1115 with its address pins open
const DefaultAddr uint16 = 0x00

// ErrConnectionFailed is returned when the controller does not answer
var ErrConnectionFailed = errors.New("failed to connect to AS1115")

type register uint8

const (
	regDigit0     register = 0x01
	regDecodeMode register = 0x09
	regIntensity  register = 0x0A
	regScanLimit  register = 0x0B
	regShutdown   register = 0x0C
	regFeature    register = 0x0E
	regTestMode   register = 0x0F
	regKeyscanA   register = 0x1C
	regKeyscanB   register = 0x1D
)

type decodeMode uint8

const (
	modeNumeric decodeMode = iota
	modeAlphanumeric
)

// Register values
const (
	decodeNumeric      = 0x3F // code B on digits 0..5
	decodeAlphanumeric = 0x00
	blankNumeric       = 0x0F
	blankAlphanumeric  = 0x00
	decimalPoint       = 0x80
	scanDigits0to3     = 0x03
	featureBlink       = 1 << 4
	featureBlinkSlow   = 1 << 5
	maxIntensity       = 15
)

// Keyscan bits of register A, after inversion, mapped to panel buttons.
// Bits 0x08 and 0x10 are not wired.
var keyBits = []struct {
	mask   byte
	button controller.Button
}{
	{0x01, controller.ButtonDown},
	{0x02, controller.Button2},
	{0x04, controller.Button4},
	{0x20, controller.Button3},
	{0x40, controller.Button1},
	{0x80, controller.ButtonUp},
}

// Dev is a handle to an AS1115. It implements controller.HMI.
//
// The HMI methods do not return errors. The first bus error is kept and
// reported by Err; later writes are still attempted.
type Dev struct {
	c    conn.Conn
	mode decodeMode
	err  error
	log  hclog.Logger
}

// New initializes the controller for four digits in numeric mode and
// discards any latched key presses
func New(b i2c.Bus, addr uint16, log hclog.Logger) (*Dev, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}

	d := &Dev{
		c:    &i2c.Dev{Bus: b, Addr: addr},
		mode: modeNumeric,
		log:  log,
	}

	for _, w := range [][2]byte{
		{byte(regScanLimit), scanDigits0to3},
		{byte(regDecodeMode), decodeNumeric},
		{byte(regShutdown), 0x01},
	} {
		if err := d.c.Tx(w[:], nil); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
		}
	}

	for _, r := range []register{regKeyscanA, regKeyscanB} {
		if _, err := d.read(r); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
		}
	}

	return d, nil
}

// String implements conn.Resource
func (d *Dev) String() string {
	return "AS1115"
}

// Halt resets the feature register and shuts the controller down.
//
// Halt implements conn.Resource.
func (d *Dev) Halt() error {
	if err := d.write(regFeature, 0x02); err != nil {
		return err
	}
	return d.write(regShutdown, 0x00)
}

// Err returns the first bus error since the last call and clears it
func (d *Dev) Err() error {
	err := d.err
	d.err = nil
	return err
}

// Blink enables or disables blinking of the whole display
func (d *Dev) Blink(enable, slow bool) error {
	v := byte(0x80)
	if enable {
		v |= featureBlink
	}
	if slow {
		v |= featureBlinkSlow
	}
	return d.write(regFeature, v)
}

// Test lights all segments while enabled
func (d *Dev) Test(enable bool) error {
	var v byte
	if enable {
		v = 0x01
	}
	return d.write(regTestMode, v)
}

// Clear blanks all four digits
func (d *Dev) Clear() {
	blank := byte(blankNumeric)
	if d.mode == modeAlphanumeric {
		blank = blankAlphanumeric
	}
	for i := 0; i < 4; i++ {
		d.keep(d.write(regDigit0+register(i), blank))
	}
}

// SetBrightness sets the global intensity, 0..15. Other values are ignored.
func (d *Dev) SetBrightness(level uint8) {
	if level > maxIntensity {
		d.log.Debug("ignoring intensity out of range", "level", level)
		return
	}
	d.keep(d.write(regIntensity, level))
}

// ShowNumber shows a three digit number with an optional decimal point
// after the tens digit
func (d *Dev) ShowNumber(value int, dp bool) {
	d.setMode(modeNumeric)

	digits := NumberDigits(value)
	for i, ch := range digits {
		code := byte(blankNumeric)
		if ch != ' ' {
			code = ch - '0'
		}
		if i == 1 && dp {
			code |= decimalPoint
		}
		d.keep(d.write(regDigit0+register(i), code))
	}
}

// ShowText shows a four character page text. Texts of any other length
// are ignored.
func (d *Dev) ShowText(text string) {
	d.setMode(modeAlphanumeric)

	digits, ok := TextDigits(text)
	if !ok {
		d.log.Debug("ignoring text with wrong length", "text", text)
		return
	}
	for i, ch := range digits {
		d.keep(d.write(regDigit0+register(i), d.segments(ch)))
	}
}

// UpdateCharacter replaces one digit of the text shown, position 0 being
// the rightmost digit. It has no effect in numeric mode.
func (d *Dev) UpdateCharacter(ch byte, position int) {
	if d.mode != modeAlphanumeric {
		return
	}
	digit, ok := CharacterDigit(position)
	if !ok {
		return
	}
	d.keep(d.write(regDigit0+register(digit), d.segments(ch)))
}

// SilentIndicator shows "*" in the indicator cell, or clears the display
func (d *Dev) SilentIndicator(on bool) {
	if !on {
		d.Clear()
		return
	}
	d.setMode(modeAlphanumeric)
	d.keep(d.write(regDigit0+3, segments['*']))
}

// PressedKeys reads the keyscan register. A failed read reports no keys.
func (d *Dev) PressedKeys() controller.Keys {
	v, err := d.read(regKeyscanA)
	if err != nil {
		d.keep(err)
		return 0
	}
	return decodeKeys(v)
}

func decodeKeys(scan byte) controller.Keys {
	mask := scan ^ 0xFF

	var keys controller.Keys
	for _, k := range keyBits {
		if mask&k.mask != 0 {
			keys |= controller.KeysOf(k.button)
		}
	}
	return keys
}

func (d *Dev) setMode(mode decodeMode) {
	if d.mode == mode {
		return
	}

	d.Clear()
	v := byte(decodeNumeric)
	if mode == modeAlphanumeric {
		v = decodeAlphanumeric
	}
	d.keep(d.write(regDecodeMode, v))
	d.mode = mode
	d.Clear()
}

func (d *Dev) segments(ch byte) byte {
	s, ok := segments[ch]
	if !ok {
		d.log.Debug("no segment pattern for character", "char", string(ch))
	}
	return s
}

func (d *Dev) write(reg register, value byte) error {
	if err := d.c.Tx([]byte{byte(reg), value}, nil); err != nil {
		return fmt.Errorf("as1115: write register 0x%02X: %w", byte(reg), err)
	}
	return nil
}

func (d *Dev) read(reg register) (byte, error) {
	var buf [1]byte
	if err := d.c.Tx([]byte{byte(reg)}, buf[:]); err != nil {
		return 0, fmt.Errorf("as1115: read register 0x%02X: %w", byte(reg), err)
	}
	return buf[0], nil
}

func (d *Dev) keep(err error) {
	if err == nil {
		return
	}
	if d.err == nil {
		d.err = err
		d.log.Error("bus error", "error", err)
	}
}

var _ conn.Resource = &Dev{}
var _ controller.HMI = &Dev{}
