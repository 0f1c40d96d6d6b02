// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// helper to build a valid config quickly
func serialConfig() *Config {
	cfg := Default()
	cfg.Link.Port = "/dev/ttyUSB0"
	return cfg
}

// ---- parse ----

func TestParse_Full(t *testing.T) {
	data := []byte(`
link:
  port: /dev/ttyS2
  baud: 57600
  timeout_ms: 60
  trace: /tmp/lyft.cbor
tick:
  period_ms: 100
settings:
  path: /data/config.json
hmi:
  driver: tui
board:
  enabled: true
  watchdog: /dev/watchdog
log:
  verbosity: debug
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Link.Port != "/dev/ttyS2" || cfg.Link.Baud != 57600 {
		t.Errorf("link = %+v", cfg.Link)
	}
	if cfg.Link.Timeout() != 60*time.Millisecond {
		t.Errorf("Timeout() = %v", cfg.Link.Timeout())
	}
	if cfg.Tick.Period() != 100*time.Millisecond {
		t.Errorf("Period() = %v", cfg.Tick.Period())
	}
	if cfg.Settings.Path != "/data/config.json" || cfg.HMI.Driver != HMIDriverTUI {
		t.Errorf("settings/hmi = %+v / %+v", cfg.Settings, cfg.HMI)
	}
	// Pins not in the file keep their defaults
	if cfg.Board.ResetButton != "GPIO14" || cfg.Board.BuzzerHz != 4000 {
		t.Errorf("board defaults lost: %+v", cfg.Board)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) error = %v", err)
	}
	if cfg.Tick.PeriodMs != 100 || cfg.Link.TimeoutMs != 80 {
		t.Errorf("Parse(nil) = %+v, want defaults", cfg)
	}
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse([]byte("link:\n  prot: /dev/ttyUSB0\n"))
	if err == nil {
		t.Fatal("Parse() accepted unknown key")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load() succeeded on missing file")
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lyft.yaml")
	if err := os.WriteFile(path, []byte("link:\n  url: ws://bridge.local/uart\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Link.URL != "ws://bridge.local/uart" {
		t.Errorf("URL = %q", cfg.Link.URL)
	}
}

// ---- validate ----

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"serial", func(*Config) {}, ""},
		{"websocket", func(c *Config) { c.Link.Port = ""; c.Link.URL = "wss://x/uart" }, ""},
		{"no transport", func(c *Config) { c.Link.Port = "" }, "either port or url"},
		{"both transports", func(c *Config) { c.Link.URL = "ws://x" }, "mutually exclusive"},
		{"http url", func(c *Config) { c.Link.Port = ""; c.Link.URL = "http://x" }, "scheme"},
		{"zero baud", func(c *Config) { c.Link.Baud = 0 }, "baud"},
		{"timeout not below tick", func(c *Config) { c.Link.TimeoutMs = 100 }, "shorter than tick"},
		{"zero tick", func(c *Config) { c.Tick.PeriodMs = 0 }, "period_ms"},
		{"no settings path", func(c *Config) { c.Settings.Path = "" }, "settings"},
		{"unknown driver", func(c *Config) { c.HMI.Driver = "lcd" }, "unknown driver"},
		{"upper case driver", func(c *Config) { c.HMI.Driver = "TUI" }, ""},
		{"10-bit address", func(c *Config) { c.HMI.Address = 0x200 }, "7-bit"},
		{"unknown verbosity", func(c *Config) { c.Log.Verbosity = "loud" }, "verbosity"},
		{"board missing pin", func(c *Config) { c.Board.Enabled = true; c.Board.LED = "" }, "pins"},
		{"board bad buzzer", func(c *Config) { c.Board.Enabled = true; c.Board.BuzzerHz = 0 }, "buzzer_hz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := serialConfig()
			tt.mutate(cfg)
			err := Validate(cfg)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

// ---- normalize ----

func TestNormalize(t *testing.T) {
	cfg := serialConfig()
	cfg.HMI.Driver = "TUI"
	cfg.Log.Verbosity = "Verbose"
	cfg.Board.Enabled = true

	Normalize(cfg)

	if cfg.HMI.Driver != HMIDriverTUI || cfg.Log.Verbosity != "verbose" {
		t.Errorf("Normalize() = %+v / %+v", cfg.HMI, cfg.Log)
	}
	if cfg.Board.Enabled {
		t.Error("board left enabled for panel emulator")
	}
}
