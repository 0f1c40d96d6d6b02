// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package config

import "strings"

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	cfg.Log.Verbosity = strings.ToLower(cfg.Log.Verbosity)
	cfg.HMI.Driver = strings.ToLower(cfg.HMI.Driver)

	// The panel emulator has no board I/O
	if cfg.HMI.Driver == HMIDriverTUI {
		cfg.Board.Enabled = false
	}
}
