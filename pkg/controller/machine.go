// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package controller

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/Thermoquad/lyft/pkg/settings"
)

// DefaultTickPeriod is the interval between two state machine steps
const DefaultTickPeriod = 100 * time.Millisecond

var errNoPosition = errors.New("desk reported position 0")

// Options configures a Machine. Desk and HMI are required.
type Options struct {
	Desk        Desk
	HMI         HMI
	Store       SettingsSaver
	Settings    settings.Settings
	Indicators  Indicators
	ResetButton ResetButton
	Watchdog    Watchdog
	Logger      hclog.Logger
	TickPeriod  time.Duration

	// WakeOnKeys polls the panel while asleep, for boards without a
	// panel interrupt
	WakeOnKeys bool
}

type handler func(m *Machine) State

// Machine is the operating state machine of the desk controller. All state
// is owned by Step; only Wake and Snapshot may be called concurrently.
type Machine struct {
	desk       Desk
	hmi        HMI
	store      SettingsSaver
	indicators Indicators
	reset      ResetButton
	log        hclog.Logger
	period     time.Duration
	wakeOnKeys bool

	state    State
	settings settings.Settings
	input    *Debouncer
	fault    *Supervisor
	handlers map[State]handler

	position     uint16
	upperLimit   uint16
	lowerLimit   uint16
	memoryButton Button // last memory button used for a move or picked on the position page
	manualKey    Button // key driving a manual move
	startupDelay int
	restartDelay int
	resetHold    int
	display      displayState

	wake atomic.Bool

	mu       sync.Mutex
	snapshot Snapshot
}

// Snapshot is a copy of the machine state for monitoring
type Snapshot struct {
	State      State
	Position   uint16
	Height     int
	UpperLimit uint16
	LowerLimit uint16
	Errors     int
	Keys       Keys
	Settings   settings.Settings
}

// New creates a machine in Idle mode
func New(opts Options) (*Machine, error) {
	if opts.Desk == nil {
		return nil, fmt.Errorf("controller: desk is required")
	}
	if opts.HMI == nil {
		return nil, fmt.Errorf("controller: hmi is required")
	}
	if err := settings.Validate(opts.Settings); err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}

	m := &Machine{
		desk:       opts.Desk,
		hmi:        opts.HMI,
		store:      opts.Store,
		indicators: opts.Indicators,
		reset:      opts.ResetButton,
		log:        opts.Logger,
		period:     opts.TickPeriod,
		wakeOnKeys: opts.WakeOnKeys,
		state:      stateIdle,
		settings:   opts.Settings,
	}

	if m.indicators == nil {
		m.indicators = nopIndicators{}
	}
	if m.reset == nil {
		m.reset = releasedButton{}
	}
	if m.log == nil {
		m.log = hclog.NewNullLogger()
	}
	if m.period <= 0 {
		m.period = DefaultTickPeriod
	}

	m.input = NewDebouncer(m.period)
	m.fault = NewSupervisor(ErrorBudget, opts.Watchdog, m.log.Named("fault"))
	m.handlers = m.buildHandlers()
	m.publish()

	return m, nil
}

func (m *Machine) buildHandlers() map[State]handler {
	h := map[State]handler{
		stateIdle:    (*Machine).idle,
		stateRestart: (*Machine).restart,

		startup(PhaseInit):           (*Machine).startupInit,
		startup(PhaseInitDelay):      (*Machine).startupInitDelay,
		startup(PhaseReadUpperLimit): (*Machine).startupReadUpperLimit,
		startup(PhaseReadLowerLimit): (*Machine).startupReadLowerLimit,
		startup(PhaseWatchdog):       (*Machine).startupWatchdog,

		running(PhaseWakeUp):            (*Machine).wakeUp,
		running(PhaseReady):             (*Machine).ready,
		running(PhaseMovingManual):      (*Machine).movingManual,
		running(PhaseMovingAutomatic):   (*Machine).movingAutomatic,
		running(PhaseMovingCalibration): (*Machine).movingCalibration,
		running(PhaseMovingEndposition): (*Machine).movingEndposition,
		running(PhasePreSleep):          (*Machine).preSleep,
		running(PhaseSleep):             (*Machine).sleep,
	}

	for _, page := range pageRing {
		h[settingsPage(page)] = func(m *Machine) State { return m.settingsPage(page) }
	}

	return h
}

// Wake requests a wake up from Sleep. It only sets a flag and is safe to
// call from any goroutine, typically an input interrupt.
func (m *Machine) Wake() {
	m.wake.Store(true)
}

// State returns the current mode and phase. It must only be called from
// the goroutine running Step; other goroutines use Snapshot.
func (m *Machine) State() State {
	return m.state
}

// Settings returns the current user settings
func (m *Machine) Settings() settings.Settings {
	return m.settings
}

// Errors returns the consecutive failure count
func (m *Machine) Errors() int {
	return m.fault.Count()
}

// Snapshot returns the state published by the last step
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}

// Step runs one tick of the state machine
func (m *Machine) Step() {
	defer m.publish()
	defer m.fault.Feed()

	if m.fault.Exceeded() {
		m.log.Warn("fault tolerance exceeded, restarting desk controller", "errors", m.fault.Count())
		m.fault.Reset()
		m.hmi.SilentIndicator(true)
		m.enterRestart()
	}

	m.sampleResetButton()

	if m.wake.Swap(false) && m.state == running(PhaseSleep) {
		m.log.Debug("wake up requested")
		m.state = running(PhaseWakeUp)
	}

	switch m.state.Mode {
	case ModeRunning:
		m.pollPosition()
	case ModeSettings:
		m.pollState()
	}

	h, ok := m.handlers[m.state]
	if !ok {
		m.log.Error("no handler for state, returning to idle", "state", m.state)
		m.transition(stateIdle)
	} else {
		m.transition(h(m))
	}

	m.updateDisplay()
}

func (m *Machine) transition(next State) {
	if next == m.state {
		return
	}
	m.log.Trace("transition", "from", m.state, "to", next)
	m.state = next
}

func (m *Machine) enterRestart() {
	m.restartDelay = 0
	m.state = stateRestart
}

func (m *Machine) sampleResetButton() {
	if m.reset.Pressed() && m.state.Mode != ModeRestart {
		m.resetHold++
		m.hmi.SilentIndicator(true)

		if time.Duration(m.resetHold)*m.period > ResetButtonDelay {
			m.log.Info("reset triggered")
			m.indicators.Buzzer(true)
			m.fault.Reset()
			m.resetHold = 0
			m.enterRestart()
		}
		return
	}

	if m.resetHold != 0 {
		m.log.Debug("reset button released")
		m.hmi.SilentIndicator(false)
		// The indicator blanked the panel
		m.display.valid = false
		m.resetHold = 0
	}
}

func (m *Machine) publish() {
	s := Snapshot{
		State:      m.state,
		Position:   m.position,
		Height:     m.height(),
		UpperLimit: m.upperLimit,
		LowerLimit: m.lowerLimit,
		Errors:     m.fault.Count(),
		Keys:       m.input.Held(),
		Settings:   m.settings,
	}

	m.mu.Lock()
	m.snapshot = s
	m.mu.Unlock()
}

func (m *Machine) height() int {
	return PositionToHeight(m.position, m.settings.DeskOffset, m.settings.DisplayUnit)
}

func (m *Machine) inch() bool {
	return m.settings.DisplayUnit == settings.UnitInch
}

// applyBrightness maps the user level 1..4 to the panel intensity
func (m *Machine) applyBrightness() {
	levels := map[int]uint8{1: 1, 2: 4, 3: 8, 4: 15}
	if v, ok := levels[m.settings.DisplayBrightness]; ok {
		m.hmi.SetBrightness(v)
	}
}

func (m *Machine) chirp() {
	if m.settings.Audio {
		m.indicators.Buzzer(true)
	}
}

// onTime returns the idle time before the display goes to sleep
func (m *Machine) onTime() time.Duration {
	return time.Duration(m.settings.DisplayOnTime) * time.Second
}

func (m *Machine) idle() State {
	m.indicators.Buzzer(false)
	return startup(PhaseInit)
}

func (m *Machine) restart() State {
	m.log.Debug("restart cool-down", "tick", m.restartDelay)
	m.hmi.SilentIndicator(true)
	m.restartDelay++

	if m.restartDelay > RestartCooldown {
		m.log.Info("re-initializing desk controller")
		m.fault.Reset()
		return stateIdle
	}
	return m.state
}
