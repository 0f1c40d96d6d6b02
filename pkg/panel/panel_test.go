// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package panel

import (
	"testing"

	"github.com/Thermoquad/lyft/pkg/controller"
)

func TestShowNumber(t *testing.T) {
	p := New()

	p.ShowNumber(154, false)
	if got := p.View().String(); got != "1 54" {
		t.Errorf("View() = %q, want %q", got, "1 54")
	}

	p.ShowNumber(606, true)
	if got := p.View().String(); got != "6 0.6" {
		t.Errorf("View() = %q, want %q", got, "6 0.6")
	}

	p.ShowNumber(72, false)
	if got := p.View().String(); got != "  72" {
		t.Errorf("View() = %q, want %q", got, "  72")
	}
}

func TestShowTextAndUpdate(t *testing.T) {
	p := New()

	// Characters only change in text mode
	p.ShowNumber(154, false)
	p.UpdateCharacter('9', 0)
	if got := p.View().String(); got != "1 54" {
		t.Errorf("View() = %q, want %q", got, "1 54")
	}

	p.ShowText("L: 4")
	if got := p.View().String(); got != "L: 4" {
		t.Errorf("View() = %q, want %q", got, "L: 4")
	}

	p.UpdateCharacter('3', 0)
	p.UpdateCharacter('-', 2)
	if got := p.View().String(); got != "-: 3" {
		t.Errorf("View() = %q, want %q", got, "-: 3")
	}
}

func TestSilentIndicator(t *testing.T) {
	p := New()
	p.ShowNumber(154, false)

	p.SilentIndicator(true)
	if got := p.View().String(); got != " *  " {
		t.Errorf("View() = %q, want %q", got, " *  ")
	}

	p.SilentIndicator(false)
	if got := p.View().String(); got != "    " {
		t.Errorf("View() = %q, want blank", got)
	}
}

func TestKeysToggle(t *testing.T) {
	p := New()

	p.Toggle(controller.ButtonUp)
	p.Toggle(controller.ButtonDown)
	if got := p.PressedKeys(); got != controller.KeysOf(controller.ButtonUp, controller.ButtonDown) {
		t.Errorf("PressedKeys() = %s", got)
	}

	p.Toggle(controller.ButtonUp)
	if got := p.PressedKeys(); got != controller.KeysOf(controller.ButtonDown) {
		t.Errorf("PressedKeys() = %s", got)
	}

	p.ToggleReset()
	if !p.Pressed() {
		t.Error("reset should be pressed")
	}

	p.ReleaseAll()
	if p.PressedKeys() != 0 || p.Pressed() {
		t.Error("ReleaseAll() should release everything")
	}
}

func TestChangedIsCoalesced(t *testing.T) {
	p := New()

	p.Buzzer(true)
	p.BoardLED(true)
	p.SetBrightness(8)

	select {
	case <-p.Changed():
	default:
		t.Fatal("no change signalled")
	}
	select {
	case <-p.Changed():
		t.Fatal("changes should be coalesced")
	default:
	}

	v := p.View()
	if !v.Buzzer || !v.LED || v.Brightness != 8 {
		t.Errorf("View() = %+v", v)
	}
}
