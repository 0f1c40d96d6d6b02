// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package controller

import (
	"fmt"

	"github.com/Thermoquad/lyft/pkg/settings"
)

// pollState runs on every Settings tick to keep the desk link alive
func (m *Machine) pollState() {
	if _, err := m.desk.State(); err != nil {
		m.fault.Fail("state", err)
		return
	}
	m.fault.Succeed()
}

// settingsPage handles one tick on a settings page. Keys act on the first
// tick of a single key press; Up and Down step through the page ring.
func (m *Machine) settingsPage(page Phase) State {
	keys := m.hmi.PressedKeys()
	m.input.Sample(keys)

	if keys.Len() == 0 {
		if m.input.IdleLongerThan(SettingsLeaveDelay) {
			return m.leaveSettings(page)
		}
		return m.state
	}

	if keys.Len() != 1 || !m.input.JustPressed() {
		return m.state
	}

	switch b := keys.Only(); b {
	case ButtonUp:
		m.leavePage(page)
		return settingsPage(nextPage(page))
	case ButtonDown:
		m.leavePage(page)
		return settingsPage(previousPage(page))
	default:
		m.editPage(page, b)
		return m.state
	}
}

func (m *Machine) leavePage(page Phase) {
	if page == PagePosition {
		m.storeMemoryPosition()
	}
}

func (m *Machine) leaveSettings(page Phase) State {
	m.leavePage(page)
	m.saveSettings()
	m.input.Reset()
	m.log.Debug("leaving settings")
	return stateReady
}

func (m *Machine) storeMemoryPosition() {
	slot := m.memoryButton.Slot()
	if slot == 0 {
		return
	}
	if err := m.settings.SetPreset(slot, m.position); err != nil {
		m.log.Error("failed to store memory position", "error", err)
		return
	}
	m.log.Info("stored memory position", "slot", slot, "position", m.position)
}

func (m *Machine) saveSettings() {
	if m.store == nil {
		return
	}
	if err := m.store.Save(m.settings); err != nil {
		m.log.Error("failed to save settings", "error", err)
	}
}

func (m *Machine) editPage(page Phase, b Button) {
	s := &m.settings

	switch page {
	case PagePosition:
		if b.Slot() > 0 {
			m.memoryButton = b
			m.hmi.UpdateCharacter(b.Digit(), 0)
		}

	case PageBrightness:
		if b.Slot() > 0 {
			s.DisplayBrightness = b.Slot()
			m.applyBrightness()
			m.hmi.UpdateCharacter(b.Digit(), 0)
		}

	case PageUnit:
		switch b {
		case Button1:
			s.DisplayUnit = settings.UnitCM
		case Button2:
			s.DisplayUnit = settings.UnitInch
		default:
			return
		}
		m.updateValue(unitText(s.DisplayUnit))

	case PageOffset:
		switch {
		case b == Button2 && s.DeskOffset < settings.MaxOffset:
			s.DeskOffset++
		case b == Button1 && s.DeskOffset > settings.MinOffset:
			s.DeskOffset--
		default:
			return
		}
		text := offsetText(s.DeskOffset)
		m.hmi.UpdateCharacter(text[0], 2)
		m.updateValue(text)

	case PageOnTime:
		switch {
		case b == Button2 && s.DisplayOnTime < settings.MaxOnTime:
			s.DisplayOnTime += settings.OnTimeStep
		case b == Button1 && s.DisplayOnTime > settings.MinOnTime:
			s.DisplayOnTime -= settings.OnTimeStep
		default:
			return
		}
		m.updateValue(onTimeText(s.DisplayOnTime))

	case PageAudio:
		switch b {
		case Button1:
			s.Audio = true
		case Button2:
			s.Audio = false
		default:
			return
		}
		m.updateValue(audioText(s.Audio))
	}
}

// updateValue rewrites the two value characters of a page text
func (m *Machine) updateValue(text string) {
	m.hmi.UpdateCharacter(text[2], 1)
	m.hmi.UpdateCharacter(text[3], 0)
}

// Page texts are four characters: label, indicator, two value characters

func pageText(page Phase, s settings.Settings) string {
	switch page {
	case PagePosition:
		return "P: _"
	case PageBrightness:
		return fmt.Sprintf("L: %d", s.DisplayBrightness)
	case PageUnit:
		return unitText(s.DisplayUnit)
	case PageOffset:
		return offsetText(s.DeskOffset)
	case PageOnTime:
		return onTimeText(s.DisplayOnTime)
	case PageAudio:
		return audioText(s.Audio)
	default:
		return "    "
	}
}

func unitText(u settings.Unit) string {
	if u == settings.UnitInch {
		return "U:in"
	}
	return "U: c"
}

// offsetText shows the sign in front of single digits. A magnitude of ten
// needs both value cells, so the label cell carries the sign instead.
func offsetText(offset int) string {
	switch {
	case offset <= -10:
		return "-:10"
	case offset >= 10:
		return "C:10"
	case offset < 0:
		return fmt.Sprintf("C:-%d", -offset)
	default:
		return fmt.Sprintf("C: %d", offset)
	}
}

func onTimeText(seconds int) string {
	return fmt.Sprintf("F:%2d", seconds)
}

func audioText(on bool) string {
	if on {
		return "A:on"
	}
	return "A:oF"
}
