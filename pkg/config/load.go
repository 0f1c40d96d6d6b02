// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Link: LinkConfig{
			Baud:      115200,
			TimeoutMs: 80,
		},
		Tick: TickConfig{
			PeriodMs: 100,
		},
		Settings: SettingsConfig{
			Path: "config.json",
		},
		HMI: HMIConfig{
			Driver:  HMIDriverAS1115,
			Address: 0x00,
		},
		Board: BoardConfig{
			ResetButton: "GPIO14",
			LED:         "GPIO27",
			Buzzer:      "GPIO2",
			HMIIRQ:      "GPIO32",
			BuzzerHz:    4000,
		},
		Log: LogConfig{
			Verbosity: "normal",
		},
	}
}

// Load reads a YAML config file on top of Default. Unknown keys are errors.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML config data on top of Default
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
