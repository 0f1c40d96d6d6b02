// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package panel emulates the control panel, buzzer, status LED and reset
// button in memory so the controller can run without board hardware.
package panel

import (
	"strings"
	"sync"

	"github.com/Thermoquad/lyft/pkg/as1115"
	"github.com/Thermoquad/lyft/pkg/controller"
)

// Panel implements controller.HMI, controller.Indicators and
// controller.ResetButton. Keys are toggled rather than held since a
// terminal reports no key releases.
type Panel struct {
	mu sync.Mutex

	digits     as1115.Digits
	point      bool
	numeric    bool
	brightness uint8

	keys   controller.Keys
	reset  bool
	buzzer bool
	led    bool

	changed chan struct{}
}

// View is a copy of the panel state
type View struct {
	Digits     as1115.Digits
	Point      bool
	Brightness uint8
	Keys       controller.Keys
	Reset      bool
	Buzzer     bool
	LED        bool
}

// New creates a blank panel at full brightness
func New() *Panel {
	return &Panel{
		digits:     as1115.Blank,
		numeric:    true,
		brightness: 15,
		changed:    make(chan struct{}, 1),
	}
}

// Changed delivers a signal after any update. Signals are coalesced.
func (p *Panel) Changed() <-chan struct{} {
	return p.changed
}

// View returns the current panel state
func (p *Panel) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	return View{
		Digits:     p.digits,
		Point:      p.point,
		Brightness: p.brightness,
		Keys:       p.keys,
		Reset:      p.reset,
		Buzzer:     p.buzzer,
		LED:        p.led,
	}
}

func (p *Panel) update(fn func()) {
	p.mu.Lock()
	fn()
	p.mu.Unlock()

	select {
	case p.changed <- struct{}{}:
	default:
	}
}

// ---- HMI ----

func (p *Panel) ShowNumber(value int, dp bool) {
	p.update(func() {
		p.numeric = true
		p.digits = as1115.NumberDigits(value)
		p.point = dp
	})
}

func (p *Panel) ShowText(text string) {
	p.update(func() {
		p.numeric = false
		p.point = false
		if d, ok := as1115.TextDigits(text); ok {
			p.digits = d
		}
	})
}

func (p *Panel) UpdateCharacter(ch byte, position int) {
	p.update(func() {
		if p.numeric {
			return
		}
		if digit, ok := as1115.CharacterDigit(position); ok {
			p.digits[digit] = ch
		}
	})
}

func (p *Panel) SetBrightness(level uint8) {
	p.update(func() {
		if level <= 15 {
			p.brightness = level
		}
	})
}

func (p *Panel) Clear() {
	p.update(func() {
		p.digits = as1115.Blank
		p.point = false
	})
}

func (p *Panel) SilentIndicator(on bool) {
	p.update(func() {
		p.point = false
		if !on {
			p.digits = as1115.Blank
			return
		}
		if p.numeric {
			p.numeric = false
			p.digits = as1115.Blank
		}
		p.digits[3] = '*'
	})
}

func (p *Panel) PressedKeys() controller.Keys {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.keys
}

// ---- Indicators and reset button ----

func (p *Panel) Buzzer(on bool) {
	p.update(func() { p.buzzer = on })
}

func (p *Panel) BoardLED(on bool) {
	p.update(func() { p.led = on })
}

func (p *Panel) Pressed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reset
}

// ---- Input ----

// Toggle presses b if it is released and releases it otherwise
func (p *Panel) Toggle(b controller.Button) {
	p.update(func() { p.keys ^= controller.KeysOf(b) })
}

// ToggleReset presses or releases the reset button
func (p *Panel) ToggleReset() {
	p.update(func() { p.reset = !p.reset })
}

// ReleaseAll releases every key and the reset button
func (p *Panel) ReleaseAll() {
	p.update(func() {
		p.keys = 0
		p.reset = false
	})
}

// String renders the panel as label, indicator cell and two value digits.
// The decimal point follows the tens digit.
func (v View) String() string {
	var b strings.Builder
	b.WriteByte(v.Digits[0])
	b.WriteByte(v.Digits[3])
	b.WriteByte(v.Digits[1])
	if v.Point {
		b.WriteByte('.')
	}
	b.WriteByte(v.Digits[2])
	return b.String()
}

var (
	_ controller.HMI         = (*Panel)(nil)
	_ controller.Indicators  = (*Panel)(nil)
	_ controller.ResetButton = (*Panel)(nil)
)
