// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package controller

// displayState remembers what the panel shows to avoid redundant writes
type displayState struct {
	phase  Phase
	height int
	valid  bool
}

// updateDisplay renders the panel for the state reached at the end of a tick
func (m *Machine) updateDisplay() {
	phase := m.state.Phase
	entered := !m.display.valid || m.display.phase != phase

	switch m.state.Mode {
	case ModeRunning:
		m.renderRunning(phase, entered)
	case ModeSettings:
		if entered {
			m.hmi.ShowText(pageText(phase, m.settings))
		}
	}

	m.display.phase = phase
	m.display.valid = true
}

func (m *Machine) renderRunning(phase Phase, entered bool) {
	switch phase {
	case PhasePreSleep, PhaseSleep:
		if entered {
			m.hmi.Clear()
		}

	case PhaseReady:
		height := m.height()
		if entered || height != m.display.height {
			m.hmi.ShowNumber(height, m.inch())
			m.display.height = height
		}

	case PhaseMovingManual, PhaseMovingAutomatic:
		height := m.height()
		m.hmi.ShowNumber(height, m.inch())
		m.display.height = height

	case PhaseMovingCalibration:
		if entered {
			m.hmi.ShowText("C AL")
		}

	case PhaseMovingEndposition:
		if entered {
			m.hmi.ShowText("E nd")
		}
	}
}
