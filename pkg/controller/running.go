// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package controller

import "github.com/Thermoquad/lyft/pkg/bekant"

// pollPosition runs on every Running tick. The traffic also keeps the
// desk-side watchdog satisfied while sleeping.
func (m *Machine) pollPosition() {
	pos, err := m.desk.Position()
	if err == nil && pos == 0 {
		err = errNoPosition
	}
	if err != nil {
		m.fault.Fail("position", err)
		return
	}

	m.fault.Succeed()
	m.position = pos
}

func (m *Machine) wakeUp() State {
	m.hmi.ShowNumber(m.height(), m.inch())
	m.input.Reset()
	return running(PhaseReady)
}

func (m *Machine) ready() State {
	keys := m.hmi.PressedKeys()
	m.indicators.Buzzer(false)
	m.input.Sample(keys)

	switch keys.Len() {
	case 0:
		if m.input.IdleLongerThan(m.onTime()) {
			return running(PhasePreSleep)
		}
	case 1:
		return m.readySingle(keys.Only())
	case 2:
		return m.readyCombo(keys)
	}

	return m.state
}

func (m *Machine) readySingle(b Button) State {
	switch {
	case (b == ButtonUp || b == ButtonDown) && m.input.HeldLongerThan(MoveDelay):
		target := m.upperLimit
		if b == ButtonDown {
			target = m.lowerLimit
		}

		if err := m.desk.SetPosition(target); err != nil {
			return m.moveFailed(err)
		}

		m.fault.Succeed()
		m.memoryButton = ButtonNone
		m.manualKey = b
		m.log.Debug("moving", "direction", b, "target", target)
		return running(PhaseMovingManual)

	case b.Slot() > 0 && m.input.HeldLongerThan(MemoryDelay):
		target, err := m.settings.Preset(b.Slot())
		if err != nil {
			m.log.Error("memory preset unavailable", "button", b, "error", err)
			return m.state
		}
		m.memoryButton = b

		if err := m.desk.SetPosition(target); err != nil {
			return m.moveFailed(err)
		}

		m.fault.Succeed()
		m.log.Info("moving to preset", "slot", b.Slot(), "target", target)
		return running(PhaseMovingAutomatic)
	}

	return m.state
}

// moveFailed handles a rejected move. Hitting a travel limit is not a link
// failure; the panel shows the end position until the keys are released.
func (m *Machine) moveFailed(err error) State {
	if bekant.IsLimitError(err) {
		m.fault.Succeed()
		m.chirp()
		m.log.Debug("end position reached", "error", err)
		return running(PhaseMovingEndposition)
	}

	m.fault.Fail("set position", err)
	return m.state
}

func (m *Machine) readyCombo(keys Keys) State {
	if !m.input.HeldLongerThan(SettingsEnterDelay) {
		return m.state
	}

	switch keys {
	case KeysOf(ButtonUp, ButtonDown):
		m.log.Debug("entering settings")
		m.input.Latch()
		return settingsPage(PagePosition)

	case KeysOf(Button1, Button2):
		if err := m.desk.Calibrate(); err != nil {
			m.fault.Fail("calibrate", err)
			return m.state
		}
		m.fault.Succeed()
		m.log.Info("calibration started")
		return running(PhaseMovingCalibration)
	}

	return m.state
}

func (m *Machine) stop() bool {
	if err := m.desk.Stop(); err != nil {
		m.fault.Fail("stop", err)
		return false
	}
	m.fault.Succeed()
	m.input.Reset()
	return true
}

func (m *Machine) movingManual() State {
	keys := m.hmi.PressedKeys()
	if keys.Len() == 1 && keys.Has(m.manualKey) {
		return m.state
	}

	if !m.stop() {
		return m.state
	}
	m.manualKey = ButtonNone
	return stateReady
}

func (m *Machine) movingAutomatic() State {
	keys := m.hmi.PressedKeys()

	deskState, stateErr := m.desk.State()
	if stateErr != nil {
		m.fault.Fail("state", stateErr)
	} else {
		m.fault.Succeed()
	}

	next := m.state

	switch {
	case keys.Len() == 0:
		// Originating key released; any press from now on stops the move
		m.memoryButton = ButtonNone
	case keys.Len() == 1 && keys.Has(m.memoryButton):
	default:
		if m.stop() {
			next = stateReady
		}
	}

	if stateErr == nil && deskState == bekant.StateOperationNormal {
		m.input.Reset()
		m.chirp()
		next = stateReady
	}

	return next
}

func (m *Machine) movingCalibration() State {
	deskState, err := m.desk.State()
	if err != nil {
		m.fault.Fail("state", err)
		return m.state
	}

	m.fault.Succeed()
	if deskState != bekant.StateOperationNormal {
		return m.state
	}

	m.log.Info("calibration finished")
	m.input.Reset()
	m.chirp()
	return stateReady
}

func (m *Machine) movingEndposition() State {
	if m.hmi.PressedKeys().Len() == 0 {
		return stateReady
	}
	return m.state
}

func (m *Machine) preSleep() State {
	m.input.Reset()
	return running(PhaseSleep)
}

func (m *Machine) sleep() State {
	if m.wakeOnKeys && m.hmi.PressedKeys() != 0 {
		m.log.Debug("key pressed while asleep")
		return running(PhaseWakeUp)
	}
	return m.state
}
