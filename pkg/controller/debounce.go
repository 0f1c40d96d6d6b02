// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package controller

import "time"

// Dwell thresholds. A hold qualifies once its duration is strictly greater.
const (
	MoveDelay          = 200 * time.Millisecond
	MemoryDelay        = 500 * time.Millisecond
	SettingsEnterDelay = 2000 * time.Millisecond
	SettingsLeaveDelay = 4000 * time.Millisecond
	ResetButtonDelay   = 5000 * time.Millisecond
)

// Debouncer turns per-tick key samples into idle and press durations
type Debouncer struct {
	period time.Duration

	held       Keys
	pressTicks int
	idleTicks  int
	latched    bool
}

// NewDebouncer creates a debouncer sampled once per period
func NewDebouncer(period time.Duration) *Debouncer {
	return &Debouncer{period: period}
}

// Sample records the keys held during one tick. The press counter restarts
// whenever the held set changes.
func (d *Debouncer) Sample(keys Keys) {
	if keys == 0 {
		d.idleTicks++
		d.pressTicks = 0
		d.held = 0
		d.latched = false
		return
	}

	d.idleTicks = 0
	if keys == d.held {
		d.pressTicks++
	} else {
		d.held = keys
		d.pressTicks = 1
	}
}

// Reset clears both counters
func (d *Debouncer) Reset() {
	d.held = 0
	d.pressTicks = 0
	d.idleTicks = 0
}

// Latch ignores presses until all keys have been released once
func (d *Debouncer) Latch() {
	d.latched = true
}

// Held returns the key set of the current press
func (d *Debouncer) Held() Keys {
	return d.held
}

// PressTicks returns the number of ticks the current key set has been held
func (d *Debouncer) PressTicks() int {
	return d.pressTicks
}

// IdleTicks returns the number of ticks without any key held
func (d *Debouncer) IdleTicks() int {
	return d.idleTicks
}

// JustPressed reports whether the current key set was first seen this tick
func (d *Debouncer) JustPressed() bool {
	return !d.latched && d.pressTicks == 1
}

// HeldLongerThan reports whether the current key set has been held for
// strictly longer than threshold
func (d *Debouncer) HeldLongerThan(threshold time.Duration) bool {
	return !d.latched && time.Duration(d.pressTicks)*d.period > threshold
}

// IdleLongerThan reports whether no key has been held for strictly longer
// than threshold
func (d *Debouncer) IdleLongerThan(threshold time.Duration) bool {
	return time.Duration(d.idleTicks)*d.period > threshold
}
