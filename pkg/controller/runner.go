// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package controller

import (
	"context"
	"time"
)

// Run steps the machine once per tick period until ctx is cancelled.
// Steps never overlap; a slow step delays the next tick instead.
func Run(ctx context.Context, m *Machine) {
	ticker := time.NewTicker(m.period)
	defer ticker.Stop()

	m.log.Info("state machine started", "period", m.period)

	for {
		select {
		case <-ctx.Done():
			m.log.Info("state machine stopped", "state", m.State())
			return
		case <-ticker.C:
			m.Step()
		}
	}
}
