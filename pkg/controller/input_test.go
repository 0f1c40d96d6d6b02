// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package controller

import (
	"errors"
	"testing"
	"time"

	"github.com/Thermoquad/lyft/pkg/settings"
)

// ============================================================
// Keys
// ============================================================

func TestKeys(t *testing.T) {
	k := KeysOf(ButtonUp, Button2)

	if !k.Has(ButtonUp) || !k.Has(Button2) || k.Has(Button1) {
		t.Errorf("Has() wrong for %s", k)
	}
	if k.Len() != 2 {
		t.Errorf("Len() = %d, want 2", k.Len())
	}
	if k.Only() != ButtonNone {
		t.Errorf("Only() = %s, want NONE", k.Only())
	}
	if k.String() != "2+UP" {
		t.Errorf("String() = %q, want %q", k.String(), "2+UP")
	}

	if got := KeysOf(ButtonDown).Only(); got != ButtonDown {
		t.Errorf("Only() = %s, want DOWN", got)
	}
	if KeysOf(ButtonNone) != 0 {
		t.Error("KeysOf(ButtonNone) should be empty")
	}
	if Keys(0).String() != "-" {
		t.Errorf("empty String() = %q", Keys(0).String())
	}
}

func TestButtonSlot(t *testing.T) {
	tests := []struct {
		button Button
		slot   int
		digit  byte
	}{
		{Button1, 1, '1'},
		{Button4, 4, '4'},
		{ButtonUp, 0, ' '},
		{ButtonNone, 0, ' '},
	}

	for _, tt := range tests {
		if got := tt.button.Slot(); got != tt.slot {
			t.Errorf("%s.Slot() = %d, want %d", tt.button, got, tt.slot)
		}
		if got := tt.button.Digit(); got != tt.digit {
			t.Errorf("%s.Digit() = %q, want %q", tt.button, got, tt.digit)
		}
	}
}

// ============================================================
// Debouncer
// ============================================================

func TestDebouncerHold(t *testing.T) {
	d := NewDebouncer(100 * time.Millisecond)
	up := KeysOf(ButtonUp)

	d.Sample(up)
	if !d.JustPressed() {
		t.Error("first sample should be a fresh press")
	}

	d.Sample(up)
	if d.JustPressed() {
		t.Error("second sample is not a fresh press")
	}
	if d.HeldLongerThan(MoveDelay) {
		t.Error("200ms is not longer than the move delay")
	}

	d.Sample(up)
	if !d.HeldLongerThan(MoveDelay) {
		t.Error("300ms should exceed the move delay")
	}
	if d.PressTicks() != 3 {
		t.Errorf("PressTicks() = %d, want 3", d.PressTicks())
	}
}

func TestDebouncerChangedSetRestarts(t *testing.T) {
	d := NewDebouncer(100 * time.Millisecond)

	d.Sample(KeysOf(ButtonUp))
	d.Sample(KeysOf(ButtonUp))
	d.Sample(KeysOf(ButtonUp, ButtonDown))

	if d.PressTicks() != 1 {
		t.Errorf("PressTicks() = %d, want 1", d.PressTicks())
	}
	if d.Held() != KeysOf(ButtonUp, ButtonDown) {
		t.Errorf("Held() = %s", d.Held())
	}
}

func TestDebouncerIdle(t *testing.T) {
	d := NewDebouncer(100 * time.Millisecond)

	for i := 0; i < 40; i++ {
		d.Sample(0)
	}
	if d.IdleLongerThan(SettingsLeaveDelay) {
		t.Error("4000ms is not longer than the leave delay")
	}

	d.Sample(0)
	if !d.IdleLongerThan(SettingsLeaveDelay) {
		t.Error("4100ms should exceed the leave delay")
	}

	d.Sample(KeysOf(Button1))
	if d.IdleTicks() != 0 {
		t.Errorf("IdleTicks() = %d after press, want 0", d.IdleTicks())
	}

	d.Reset()
	if d.PressTicks() != 0 || d.IdleTicks() != 0 || d.Held() != 0 {
		t.Error("Reset() should clear all counters")
	}
}

func TestDebouncerLatch(t *testing.T) {
	d := NewDebouncer(100 * time.Millisecond)
	combo := KeysOf(ButtonUp, ButtonDown)

	d.Sample(combo)
	d.Latch()

	for i := 0; i < 30; i++ {
		d.Sample(combo)
	}
	d.Sample(KeysOf(ButtonUp))
	if d.JustPressed() || d.HeldLongerThan(0) {
		t.Error("latched press should not register")
	}

	d.Sample(0)
	d.Sample(KeysOf(ButtonUp))
	if !d.JustPressed() {
		t.Error("press after release should register")
	}
}

// ============================================================
// Supervisor
// ============================================================

type countingWatchdog struct {
	feeds int
	err   error
}

func (w *countingWatchdog) Feed() error {
	w.feeds++
	return w.err
}

func TestSupervisorBudget(t *testing.T) {
	s := NewSupervisor(ErrorBudget, nil, nil)
	fail := errors.New("timeout")

	for i := 0; i < ErrorBudget; i++ {
		s.Fail("position", fail)
	}
	if s.Exceeded() {
		t.Errorf("Exceeded() with %d failures", s.Count())
	}

	s.Fail("position", fail)
	if !s.Exceeded() {
		t.Errorf("Exceeded() = false with %d failures", s.Count())
	}

	s.Succeed()
	if s.Count() != 0 || s.Exceeded() {
		t.Error("Succeed() should clear the count")
	}

	s.Fail("position", fail)
	s.Reset()
	if s.Count() != 0 {
		t.Error("Reset() should clear the count")
	}
}

func TestSupervisorFeed(t *testing.T) {
	wd := &countingWatchdog{err: errors.New("closed")}
	s := NewSupervisor(ErrorBudget, wd, nil)

	s.Feed()
	s.Feed()

	if wd.feeds != 2 {
		t.Errorf("feeds = %d, want 2", wd.feeds)
	}
}

// ============================================================
// Height
// ============================================================

func TestPositionToHeight(t *testing.T) {
	tests := []struct {
		name     string
		position uint16
		offset   int
		unit     settings.Unit
		want     int
	}{
		{"cm", 9400, 0, settings.UnitCM, 154},
		{"cm truncates", 9499, 0, settings.UnitCM, 154},
		{"cm offset", 9400, -2, settings.UnitCM, 152},
		{"zero", 0, 0, settings.UnitCM, 60},
		{"inch tenths", 9400, 0, settings.UnitInch, 606},
		{"inch offset", 9400, 10, settings.UnitInch, 645},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PositionToHeight(tt.position, tt.offset, tt.unit); got != tt.want {
				t.Errorf("PositionToHeight(%d, %d, %s) = %d, want %d",
					tt.position, tt.offset, tt.unit, got, tt.want)
			}
		})
	}
}

func TestStateString(t *testing.T) {
	if got := stateReady.String(); got != "RUNNING.READY" {
		t.Errorf("String() = %q", got)
	}
	if got := settingsPage(PageOffset).String(); got != "SETTINGS.OFFSET" {
		t.Errorf("String() = %q", got)
	}
}
