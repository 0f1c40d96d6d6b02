// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package controller

import (
	"math/bits"
	"strings"
)

// Button is a logical key on the control panel
type Button uint8

const (
	ButtonNone Button = iota
	Button1
	Button2
	Button3
	Button4
	ButtonUp
	ButtonDown
)

func (b Button) String() string {
	switch b {
	case Button1:
		return "1"
	case Button2:
		return "2"
	case Button3:
		return "3"
	case Button4:
		return "4"
	case ButtonUp:
		return "UP"
	case ButtonDown:
		return "DOWN"
	default:
		return "NONE"
	}
}

// Slot returns the memory slot (1..4) of a memory button, or 0
func (b Button) Slot() int {
	if b >= Button1 && b <= Button4 {
		return int(b)
	}
	return 0
}

// Digit returns the character shown for a memory button
func (b Button) Digit() byte {
	if s := b.Slot(); s > 0 {
		return byte('0' + s)
	}
	return ' '
}

// Keys is the set of buttons held during one sample
type Keys uint8

// KeysOf builds a key set
func KeysOf(buttons ...Button) Keys {
	var k Keys
	for _, b := range buttons {
		if b != ButtonNone {
			k |= 1 << b
		}
	}
	return k
}

// Has reports whether b is held
func (k Keys) Has(b Button) bool {
	return b != ButtonNone && k&(1<<b) != 0
}

// Len returns the number of held buttons
func (k Keys) Len() int {
	return bits.OnesCount8(uint8(k))
}

// Only returns the held button when exactly one is held, else ButtonNone
func (k Keys) Only() Button {
	if k.Len() != 1 {
		return ButtonNone
	}
	return Button(bits.TrailingZeros8(uint8(k)))
}

// Buttons returns the held buttons in ascending order
func (k Keys) Buttons() []Button {
	var out []Button
	for b := Button1; b <= ButtonDown; b++ {
		if k.Has(b) {
			out = append(out, b)
		}
	}
	return out
}

func (k Keys) String() string {
	buttons := k.Buttons()
	if len(buttons) == 0 {
		return "-"
	}
	names := make([]string, len(buttons))
	for i, b := range buttons {
		names[i] = b.String()
	}
	return strings.Join(names, "+")
}
