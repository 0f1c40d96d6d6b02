// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package config

import (
	"fmt"
	"net/url"
	"strings"
)

var verbosities = map[string]bool{
	"silent":  true,
	"normal":  true,
	"verbose": true,
	"debug":   true,
}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	// ------------------------------------------------------------
	// LINK
	// ------------------------------------------------------------

	if cfg.Link.Port == "" && cfg.Link.URL == "" {
		return fmt.Errorf("link: either port or url must be set")
	}
	if cfg.Link.Port != "" && cfg.Link.URL != "" {
		return fmt.Errorf("link: port and url are mutually exclusive")
	}
	if cfg.Link.URL != "" {
		u, err := url.Parse(cfg.Link.URL)
		if err != nil {
			return fmt.Errorf("link: invalid url: %v", err)
		}
		if u.Scheme != "ws" && u.Scheme != "wss" {
			return fmt.Errorf("link: unsupported url scheme %q (use ws:// or wss://)", u.Scheme)
		}
	}
	if cfg.Link.Baud <= 0 {
		return fmt.Errorf("link: baud must be positive, got %d", cfg.Link.Baud)
	}
	if cfg.Link.TimeoutMs <= 0 {
		return fmt.Errorf("link: timeout_ms must be positive, got %d", cfg.Link.TimeoutMs)
	}

	// ------------------------------------------------------------
	// TICK
	// ------------------------------------------------------------

	if cfg.Tick.PeriodMs <= 0 {
		return fmt.Errorf("tick: period_ms must be positive, got %d", cfg.Tick.PeriodMs)
	}
	if cfg.Link.TimeoutMs >= cfg.Tick.PeriodMs {
		return fmt.Errorf("link: timeout_ms (%d) must be shorter than tick period_ms (%d)",
			cfg.Link.TimeoutMs, cfg.Tick.PeriodMs)
	}

	// ------------------------------------------------------------
	// SETTINGS / HMI / LOG
	// ------------------------------------------------------------

	if cfg.Settings.Path == "" {
		return fmt.Errorf("settings: path must be set")
	}

	switch strings.ToLower(cfg.HMI.Driver) {
	case HMIDriverAS1115, HMIDriverTUI:
	default:
		return fmt.Errorf("hmi: unknown driver %q", cfg.HMI.Driver)
	}

	if cfg.HMI.Address > 0x7F {
		return fmt.Errorf("hmi: address 0x%X is not a 7-bit I2C address", cfg.HMI.Address)
	}

	if !verbosities[strings.ToLower(cfg.Log.Verbosity)] {
		return fmt.Errorf("log: unknown verbosity %q", cfg.Log.Verbosity)
	}

	// ------------------------------------------------------------
	// BOARD (OPT-IN)
	// ------------------------------------------------------------

	if cfg.Board.Enabled {
		if cfg.Board.ResetButton == "" || cfg.Board.LED == "" || cfg.Board.Buzzer == "" || cfg.Board.HMIIRQ == "" {
			return fmt.Errorf("board: reset_button, led, buzzer and hmi_irq pins must be set")
		}
		if cfg.Board.BuzzerHz <= 0 {
			return fmt.Errorf("board: buzzer_hz must be positive, got %d", cfg.Board.BuzzerHz)
		}
	}

	return nil
}
