// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package controller

import (
	"errors"

	"github.com/Thermoquad/lyft/pkg/bekant"
)

var errZeroLimit = errors.New("desk reported upper limit 0")

func (m *Machine) startupInit() State {
	next := m.state

	err := m.desk.Startup()
	switch {
	case err == nil:
		m.fault.Succeed()
		m.startupDelay = 0
		m.log.Debug("waiting for desk startup to finish")
		next = startup(PhaseInitDelay)
	case bekant.IsDeskError(err, bekant.DeskNotIdle):
		// Desk is already up and running
		m.fault.Succeed()
		m.log.Debug("desk already initialized")
		next = startup(PhaseReadUpperLimit)
	default:
		m.fault.Fail("startup", err)
	}

	m.hmi.Clear()
	m.applyBrightness()
	m.hmi.Clear()
	m.hmi.PressedKeys() // discard keys latched while starting
	m.input.Reset()
	m.indicators.BoardLED(false)

	return next
}

func (m *Machine) startupInitDelay() State {
	m.startupDelay++
	if m.startupDelay > StartupDelayTicks {
		return startup(PhaseReadUpperLimit)
	}
	return m.state
}

func (m *Machine) startupReadUpperLimit() State {
	limit, err := m.desk.UpperLimit()
	if err == nil && limit == 0 {
		err = errZeroLimit
	}
	if err != nil {
		m.fault.Fail("upper limit", err)
		return m.state
	}

	m.fault.Succeed()
	m.upperLimit = limit
	m.log.Info("desk upper limit", "position", limit)
	return startup(PhaseReadLowerLimit)
}

func (m *Machine) startupReadLowerLimit() State {
	// The link reports a zero lower limit as invalid data
	limit, err := m.desk.LowerLimit()
	if err != nil {
		m.fault.Fail("lower limit", err)
		return m.state
	}

	m.fault.Succeed()
	m.lowerLimit = limit
	m.log.Info("desk lower limit", "position", limit)
	return startup(PhaseWatchdog)
}

func (m *Machine) startupWatchdog() State {
	if err := m.desk.WatchdogEnable(); err != nil {
		m.fault.Fail("watchdog enable", err)
		return m.state
	}

	m.fault.Succeed()
	m.log.Info("desk watchdog enabled")
	return running(PhaseSleep)
}
