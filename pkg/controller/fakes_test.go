// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package controller

import (
	"fmt"
	"testing"

	"github.com/Thermoquad/lyft/pkg/bekant"
	"github.com/Thermoquad/lyft/pkg/settings"
)

// ============================================================
// Fake collaborators
// ============================================================

type fakeDesk struct {
	position uint16
	upper    uint16
	lower    uint16
	state    bekant.DeskState

	errs    map[string][]error // queued per operation
	failAll error

	calls   []string
	targets []uint16
}

func newFakeDesk() *fakeDesk {
	return &fakeDesk{
		position: 9400,
		upper:    6500,
		lower:    150,
		state:    bekant.StateOperationMovingUp,
		errs:     make(map[string][]error),
	}
}

func (d *fakeDesk) next(op string) error {
	d.calls = append(d.calls, op)
	if d.failAll != nil {
		return d.failAll
	}
	if q := d.errs[op]; len(q) > 0 {
		d.errs[op] = q[1:]
		return q[0]
	}
	return nil
}

func (d *fakeDesk) queue(op string, errs ...error) {
	d.errs[op] = append(d.errs[op], errs...)
}

func (d *fakeDesk) count(op string) int {
	n := 0
	for _, c := range d.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (d *fakeDesk) Startup() error        { return d.next("startup") }
func (d *fakeDesk) Calibrate() error      { return d.next("calibrate") }
func (d *fakeDesk) Stop() error           { return d.next("stop") }
func (d *fakeDesk) WatchdogEnable() error { return d.next("watchdog") }

func (d *fakeDesk) SetPosition(p uint16) error {
	if err := d.next("set_position"); err != nil {
		return err
	}
	d.targets = append(d.targets, p)
	return nil
}

func (d *fakeDesk) State() (bekant.DeskState, error) {
	return d.state, d.next("state")
}

func (d *fakeDesk) Position() (uint16, error) {
	return d.position, d.next("position")
}

func (d *fakeDesk) UpperLimit() (uint16, error) {
	return d.upper, d.next("upper_limit")
}

func (d *fakeDesk) LowerLimit() (uint16, error) {
	if err := d.next("lower_limit"); err != nil {
		return 0, err
	}
	if d.lower == 0 {
		return 0, &bekant.HostError{Kind: bekant.HostInvalidData, Op: bekant.CmdDeskLowerLimit}
	}
	return d.lower, nil
}

type fakeHMI struct {
	keys Keys

	numbers    []string
	texts      []string
	chars      []string
	brightness []uint8
	clears     int
	silent     bool
	keyReads   int
}

func (h *fakeHMI) ShowNumber(v int, dp bool) {
	h.numbers = append(h.numbers, fmt.Sprintf("%d/%v", v, dp))
}
func (h *fakeHMI) ShowText(s string) { h.texts = append(h.texts, s) }
func (h *fakeHMI) UpdateCharacter(c byte, pos int) {
	h.chars = append(h.chars, fmt.Sprintf("%c@%d", c, pos))
}
func (h *fakeHMI) SetBrightness(l uint8)   { h.brightness = append(h.brightness, l) }
func (h *fakeHMI) Clear()                  { h.clears++ }
func (h *fakeHMI) SilentIndicator(on bool) { h.silent = on }
func (h *fakeHMI) PressedKeys() Keys {
	h.keyReads++
	return h.keys
}

func (h *fakeHMI) lastText() string {
	if len(h.texts) == 0 {
		return ""
	}
	return h.texts[len(h.texts)-1]
}

func (h *fakeHMI) lastNumber() string {
	if len(h.numbers) == 0 {
		return ""
	}
	return h.numbers[len(h.numbers)-1]
}

type fakeIndicators struct {
	buzzer    bool
	buzzerOns int
	led       bool
}

func (f *fakeIndicators) Buzzer(on bool) {
	if on {
		f.buzzerOns++
	}
	f.buzzer = on
}
func (f *fakeIndicators) BoardLED(on bool) { f.led = on }

type fakeButton struct{ pressed bool }

func (b *fakeButton) Pressed() bool { return b.pressed }

type fakeWatchdog struct{ feeds int }

func (w *fakeWatchdog) Feed() error {
	w.feeds++
	return nil
}

type fakeStore struct {
	saved []settings.Settings
}

func (s *fakeStore) Save(v settings.Settings) error {
	s.saved = append(s.saved, v)
	return nil
}

// ============================================================
// Rig
// ============================================================

type rig struct {
	t     *testing.T
	m     *Machine
	desk  *fakeDesk
	hmi   *fakeHMI
	ind   *fakeIndicators
	reset *fakeButton
	wd    *fakeWatchdog
	store *fakeStore
}

func newRig(t *testing.T) *rig {
	t.Helper()

	r := &rig{
		t:     t,
		desk:  newFakeDesk(),
		hmi:   &fakeHMI{},
		ind:   &fakeIndicators{},
		reset: &fakeButton{},
		wd:    &fakeWatchdog{},
		store: &fakeStore{},
	}

	m, err := New(Options{
		Desk:        r.desk,
		HMI:         r.hmi,
		Store:       r.store,
		Settings:    settings.Defaults(),
		Indicators:  r.ind,
		ResetButton: r.reset,
		Watchdog:    r.wd,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	r.m = m
	return r
}

func (r *rig) step(n int) {
	for i := 0; i < n; i++ {
		r.m.Step()
	}
}

// until steps until the machine reaches want, failing after limit ticks
func (r *rig) until(want State, limit int) int {
	r.t.Helper()
	for i := 1; i <= limit; i++ {
		r.m.Step()
		if r.m.State() == want {
			return i
		}
	}
	r.t.Fatalf("state %s not reached within %d ticks, at %s", want, limit, r.m.State())
	return 0
}

// toReady runs the startup sequence and wakes the machine
func (r *rig) toReady() {
	r.t.Helper()
	r.until(running(PhaseSleep), 40)
	r.m.Wake()
	r.m.Step()
	r.expect(stateReady)
}

func (r *rig) hold(keys ...Button) {
	r.hmi.keys = KeysOf(keys...)
}

func (r *rig) release() {
	r.hmi.keys = 0
}

func (r *rig) expect(want State) {
	r.t.Helper()
	if got := r.m.State(); got != want {
		r.t.Fatalf("state = %s, want %s", got, want)
	}
}
