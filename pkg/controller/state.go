// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package controller

import "fmt"

// Mode is the top level operating mode
type Mode uint8

const (
	ModeIdle     Mode = 0x01
	ModeStartup  Mode = 0x02
	ModeRunning  Mode = 0x03
	ModeSettings Mode = 0x04
	ModeRestart  Mode = 0x05
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeStartup:
		return "STARTUP"
	case ModeRunning:
		return "RUNNING"
	case ModeSettings:
		return "SETTINGS"
	case ModeRestart:
		return "RESTART"
	default:
		return fmt.Sprintf("MODE(0x%02X)", uint8(m))
	}
}

// Phase is the sub-state within a mode. Values are unique across modes.
type Phase uint8

const (
	PhaseNone Phase = 0x00

	// Startup
	PhaseInit           Phase = 0x11
	PhaseInitDelay      Phase = 0x12
	PhaseReadUpperLimit Phase = 0x13
	PhaseReadLowerLimit Phase = 0x14
	PhaseWatchdog       Phase = 0x15

	// Running
	PhaseWakeUp            Phase = 0x21
	PhaseReady             Phase = 0x22
	PhaseSleep             Phase = 0x23
	PhasePreSleep          Phase = 0x24
	PhaseMovingManual      Phase = 0x25
	PhaseMovingAutomatic   Phase = 0x26
	PhaseMovingCalibration Phase = 0x27
	PhaseMovingEndposition Phase = 0x28

	// Settings pages
	PagePosition   Phase = 0x31
	PageBrightness Phase = 0x32
	PageOnTime     Phase = 0x33
	PageOffset     Phase = 0x34
	PageUnit       Phase = 0x35
	PageAudio      Phase = 0x36
)

var phaseNames = map[Phase]string{
	PhaseNone:              "NONE",
	PhaseInit:              "INIT",
	PhaseInitDelay:         "INIT_DELAY",
	PhaseReadUpperLimit:    "READ_UPPER_LIMIT",
	PhaseReadLowerLimit:    "READ_LOWER_LIMIT",
	PhaseWatchdog:          "WATCHDOG",
	PhaseWakeUp:            "WAKE_UP",
	PhaseReady:             "READY",
	PhaseSleep:             "SLEEP",
	PhasePreSleep:          "PRE_SLEEP",
	PhaseMovingManual:      "MOVING_MANUAL",
	PhaseMovingAutomatic:   "MOVING_AUTOMATIC",
	PhaseMovingCalibration: "MOVING_CALIBRATION",
	PhaseMovingEndposition: "MOVING_ENDPOSITION",
	PagePosition:           "POSITION",
	PageBrightness:         "BRIGHTNESS",
	PageOnTime:             "ON_TIME",
	PageOffset:             "OFFSET",
	PageUnit:               "UNIT",
	PageAudio:              "AUDIO",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE(0x%02X)", uint8(p))
}

// State is a (mode, phase) pair
type State struct {
	Mode  Mode
	Phase Phase
}

func (s State) String() string {
	return s.Mode.String() + "." + s.Phase.String()
}

var (
	stateIdle    = State{ModeIdle, PhaseNone}
	stateRestart = State{ModeRestart, PhaseNone}
	stateReady   = State{ModeRunning, PhaseReady}
)

func startup(p Phase) State { return State{ModeStartup, p} }

func running(p Phase) State { return State{ModeRunning, p} }

func settingsPage(p Phase) State { return State{ModeSettings, p} }

// pageRing is the order of settings pages when stepping with Up
var pageRing = []Phase{PagePosition, PageBrightness, PageUnit, PageOffset, PageOnTime, PageAudio}

func nextPage(p Phase) Phase {
	return stepPage(p, 1)
}

func previousPage(p Phase) Phase {
	return stepPage(p, len(pageRing)-1)
}

func stepPage(p Phase, delta int) Phase {
	for i, page := range pageRing {
		if page == p {
			return pageRing[(i+delta)%len(pageRing)]
		}
	}
	return PagePosition
}
