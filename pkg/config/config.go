// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package config holds the daemon configuration read from YAML
package config

import "time"

type Config struct {
	Link     LinkConfig     `yaml:"link"`
	Tick     TickConfig     `yaml:"tick"`
	Settings SettingsConfig `yaml:"settings"`
	HMI      HMIConfig      `yaml:"hmi"`
	Board    BoardConfig    `yaml:"board"`
	Log      LogConfig      `yaml:"log"`
}

// ---- LINK ----

type LinkConfig struct {
	Port      string `yaml:"port"`
	Baud      int    `yaml:"baud"`
	TimeoutMs int    `yaml:"timeout_ms"`

	// WebSocket UART bridge (optional, replaces port)
	URL         string `yaml:"url"`
	Username    string `yaml:"username"`
	NoSSLVerify bool   `yaml:"no_ssl_verify"`

	// CBOR exchange trace file (optional)
	Trace string `yaml:"trace"`
}

func (l LinkConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutMs) * time.Millisecond
}

// ---- TICK ----

type TickConfig struct {
	PeriodMs int `yaml:"period_ms"`
}

func (t TickConfig) Period() time.Duration {
	return time.Duration(t.PeriodMs) * time.Millisecond
}

// ---- SETTINGS ----

type SettingsConfig struct {
	Path string `yaml:"path"` // JSON user settings
}

// ---- HMI ----

const (
	HMIDriverAS1115 = "as1115"
	HMIDriverTUI    = "tui"
)

type HMIConfig struct {
	Driver  string `yaml:"driver"`
	I2CBus  string `yaml:"i2c_bus"` // empty selects the first bus
	Address uint16 `yaml:"address"`
}

// ---- BOARD ----

type BoardConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ResetButton string `yaml:"reset_button"`
	LED         string `yaml:"led"`
	Buzzer      string `yaml:"buzzer"`
	HMIIRQ      string `yaml:"hmi_irq"`
	BuzzerHz    int    `yaml:"buzzer_hz"`

	// Host watchdog device, empty disables feeding
	Watchdog string `yaml:"watchdog"`
}

// ---- LOG ----

type LogConfig struct {
	Verbosity string `yaml:"verbosity"` // silent, normal, verbose, debug
}
