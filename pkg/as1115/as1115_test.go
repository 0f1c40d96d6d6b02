// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package as1115

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/Thermoquad/lyft/pkg/controller"
)

func w(reg register, v byte) i2ctest.IO {
	return i2ctest.IO{Addr: DefaultAddr, W: []byte{byte(reg), v}}
}

func r(reg register, v byte) i2ctest.IO {
	return i2ctest.IO{Addr: DefaultAddr, W: []byte{byte(reg)}, R: []byte{v}}
}

func initOps() []i2ctest.IO {
	return []i2ctest.IO{
		w(regScanLimit, 0x03),
		w(regDecodeMode, 0x3F),
		w(regShutdown, 0x01),
		r(regKeyscanA, 0xFF),
		r(regKeyscanB, 0xFF),
	}
}

func clearOps(blank byte) []i2ctest.IO {
	return []i2ctest.IO{
		w(regDigit0, blank),
		w(regDigit0+1, blank),
		w(regDigit0+2, blank),
		w(regDigit0+3, blank),
	}
}

func toAlphanumeric() []i2ctest.IO {
	ops := clearOps(0x0F)
	ops = append(ops, w(regDecodeMode, 0x00))
	return append(ops, clearOps(0x00)...)
}

func newTestDev(t *testing.T, ops ...i2ctest.IO) (*Dev, *i2ctest.Playback) {
	t.Helper()

	bus := &i2ctest.Playback{Ops: append(initOps(), ops...)}
	d, err := New(bus, DefaultAddr, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d, bus
}

func closePlayback(t *testing.T, bus *i2ctest.Playback) {
	t.Helper()
	if err := bus.Close(); err != nil {
		t.Errorf("not all bus operations ran: %v", err)
	}
}

func TestNew(t *testing.T) {
	d, bus := newTestDev(t)
	defer closePlayback(t, bus)

	if d.String() != "AS1115" {
		t.Errorf("String() = %q", d.String())
	}
}

func TestNewConnectionFailed(t *testing.T) {
	bus := &i2ctest.Playback{DontPanic: true}

	_, err := New(bus, DefaultAddr, nil)
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("New() error = %v, want ErrConnectionFailed", err)
	}
}

func TestShowNumber(t *testing.T) {
	d, bus := newTestDev(t,
		w(regDigit0, 1),
		w(regDigit0+1, 5),
		w(regDigit0+2, 4),
		w(regDigit0+3, 0x0F),
	)
	defer closePlayback(t, bus)

	d.ShowNumber(154, false)

	if err := d.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}

func TestShowNumberBlankHundredsWithPoint(t *testing.T) {
	d, bus := newTestDev(t,
		w(regDigit0, 0x0F),
		w(regDigit0+1, 6|0x80),
		w(regDigit0+2, 0),
		w(regDigit0+3, 0x0F),
	)
	defer closePlayback(t, bus)

	d.ShowNumber(60, true)
}

func TestShowText(t *testing.T) {
	ops := toAlphanumeric()
	ops = append(ops,
		w(regDigit0, 0x4F),   // E
		w(regDigit0+1, 0x15), // n
		w(regDigit0+2, 0x3D), // d
		w(regDigit0+3, 0x00), // blank indicator
		w(regDigit0+2, 0x30), // 1 at position 0
	)
	d, bus := newTestDev(t, ops...)
	defer closePlayback(t, bus)

	d.ShowText("E nd")
	d.ShowText("toolong")
	d.UpdateCharacter('1', 0)
	d.UpdateCharacter('1', 3)
}

func TestUpdateCharacterIgnoredInNumericMode(t *testing.T) {
	d, bus := newTestDev(t)
	defer closePlayback(t, bus)

	d.UpdateCharacter('3', 0)
}

func TestSilentIndicator(t *testing.T) {
	ops := toAlphanumeric()
	ops = append(ops, w(regDigit0+3, 0x10))
	ops = append(ops, clearOps(0x00)...)
	d, bus := newTestDev(t, ops...)
	defer closePlayback(t, bus)

	d.SilentIndicator(true)
	d.SilentIndicator(false)
}

func TestSetBrightness(t *testing.T) {
	d, bus := newTestDev(t, w(regIntensity, 8))
	defer closePlayback(t, bus)

	d.SetBrightness(8)
	d.SetBrightness(16)
}

func TestPressedKeys(t *testing.T) {
	tests := []struct {
		name string
		scan byte
		want controller.Keys
	}{
		{"none", 0xFF, 0},
		{"up", 0xFF ^ 0x80, controller.KeysOf(controller.ButtonUp)},
		{"up and down", 0xFF ^ 0x81, controller.KeysOf(controller.ButtonUp, controller.ButtonDown)},
		{"button 3", 0xFF ^ 0x20, controller.KeysOf(controller.Button3)},
		{"unwired bits", 0xFF ^ 0x18, 0},
		{"memory buttons", 0xFF ^ 0x46, controller.KeysOf(controller.Button1, controller.Button2, controller.Button4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, bus := newTestDev(t, r(regKeyscanA, tt.scan))
			defer closePlayback(t, bus)

			if got := d.PressedKeys(); got != tt.want {
				t.Errorf("PressedKeys() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBusErrorIsSticky(t *testing.T) {
	d, bus := newTestDev(t)
	bus.DontPanic = true

	if keys := d.PressedKeys(); keys != 0 {
		t.Errorf("PressedKeys() = %s on bus error, want none", keys)
	}
	d.SetBrightness(3)

	if err := d.Err(); err == nil {
		t.Error("Err() = nil after bus error")
	}
	if err := d.Err(); err != nil {
		t.Errorf("Err() = %v after it was reported", err)
	}
}

func TestHalt(t *testing.T) {
	d, bus := newTestDev(t, w(regFeature, 0x02), w(regShutdown, 0x00))
	defer closePlayback(t, bus)

	if err := d.Halt(); err != nil {
		t.Errorf("Halt() error = %v", err)
	}
}

func TestLayout(t *testing.T) {
	if got := NumberDigits(154); got != (Digits{'1', '5', '4', ' '}) {
		t.Errorf("NumberDigits(154) = %q", got[:])
	}
	if got := NumberDigits(60); got != (Digits{' ', '6', '0', ' '}) {
		t.Errorf("NumberDigits(60) = %q", got[:])
	}

	got, ok := TextDigits("L: 4")
	if !ok || got != (Digits{'L', ' ', '4', ':'}) {
		t.Errorf("TextDigits(L: 4) = %q, %v", got[:], ok)
	}

	for pos, want := range []int{2, 1, 0} {
		if got, ok := CharacterDigit(pos); !ok || got != want {
			t.Errorf("CharacterDigit(%d) = %d, %v", pos, got, ok)
		}
	}
	if _, ok := CharacterDigit(3); ok {
		t.Error("CharacterDigit(3) should be rejected")
	}

	if s, ok := Segments('P'); !ok || s != 0x67 {
		t.Errorf("Segments(P) = 0x%02X, %v", s, ok)
	}
}
