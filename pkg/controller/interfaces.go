// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package controller

import (
	"github.com/Thermoquad/lyft/pkg/bekant"
	"github.com/Thermoquad/lyft/pkg/settings"
)

// Desk is the subset of the desk link used by the state machine.
// *bekant.Link implements it.
type Desk interface {
	Startup() error
	Calibrate() error
	Stop() error
	SetPosition(position uint16) error
	State() (bekant.DeskState, error)
	Position() (uint16, error)
	UpperLimit() (uint16, error)
	LowerLimit() (uint16, error)
	WatchdogEnable() error
}

// HMI is the combined display and key scanner of the control panel.
//
// Text positions follow the panel layout: ShowText("abcd") places a, c and d
// on the three digits and b on the indicator cell. UpdateCharacter addresses
// the digits right to left, position 0 being the rightmost.
type HMI interface {
	ShowNumber(value int, decimalPoint bool)
	ShowText(text string)
	UpdateCharacter(ch byte, position int)
	SetBrightness(level uint8)
	Clear()
	PressedKeys() Keys
	SilentIndicator(on bool)
}

// Indicators drives the buzzer and the board status LED
type Indicators interface {
	Buzzer(on bool)
	BoardLED(on bool)
}

// ResetButton reports the state of the manual reset button
type ResetButton interface {
	Pressed() bool
}

// Watchdog is the host watchdog fed once per tick
type Watchdog interface {
	Feed() error
}

// SettingsSaver persists the user settings
type SettingsSaver interface {
	Save(s settings.Settings) error
}

type nopIndicators struct{}

func (nopIndicators) Buzzer(bool) {}
func (nopIndicators) BoardLED(bool) {}

type releasedButton struct{}

func (releasedButton) Pressed() bool { return false }

type nopWatchdog struct{}

func (nopWatchdog) Feed() error { return nil }
