// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package controller

import "github.com/hashicorp/go-hclog"

// Fault handling constants
const (
	ErrorBudget       = 5  // consecutive failures tolerated before a restart
	RestartCooldown   = 10 // ticks without desk traffic during a restart
	StartupDelayTicks = 10 // ticks to wait after the desk init call
)

// Supervisor counts consecutive link failures and feeds the host watchdog
type Supervisor struct {
	budget   int
	errors   int
	watchdog Watchdog
	log      hclog.Logger
}

// NewSupervisor creates a supervisor with the given failure budget
func NewSupervisor(budget int, wd Watchdog, log hclog.Logger) *Supervisor {
	if wd == nil {
		wd = nopWatchdog{}
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Supervisor{budget: budget, watchdog: wd, log: log}
}

// Fail records a failed operation
func (s *Supervisor) Fail(op string, err error) {
	s.errors++
	s.log.Debug("operation failed", "op", op, "error", err, "consecutive", s.errors)
}

// Succeed records a successful operation and clears the failure count
func (s *Supervisor) Succeed() {
	s.errors = 0
}

// Exceeded reports whether the failure budget has been used up
func (s *Supervisor) Exceeded() bool {
	return s.errors > s.budget
}

// Reset clears the failure count
func (s *Supervisor) Reset() {
	s.errors = 0
}

// Count returns the number of consecutive failures
func (s *Supervisor) Count() int {
	return s.errors
}

// Feed services the host watchdog
func (s *Supervisor) Feed() {
	if err := s.watchdog.Feed(); err != nil {
		s.log.Error("failed to feed watchdog", "error", err)
	}
}
