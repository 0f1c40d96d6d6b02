// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Link and logging flags
	configPath string
	verbosity  string
	timeoutMs  int
)

var rootCmd = &cobra.Command{
	Use:   "lyft",
	Short: "Standing desk controller host",
	Long: `Lyft - Host controller for motorized standing desks.

Drives the desk controller over its serial link, reads the control panel and
runs the operating state machine: startup, manual and memory moves,
calibration, sleep and the settings menu.

Besides the daemon (run), lyft provides commands to probe the desk, issue
single desk commands, monitor link quality and replay exchange traces.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 115200]
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the LYFT_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell history.`,
	Version:      "1.0.0",
	SilenceUsage: true,
}

func init() {
	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	// Link and logging flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVarP(&verbosity, "verbosity", "v", "normal", "Log verbosity (silent, normal, verbose, debug)")
	rootCmd.PersistentFlags().IntVar(&timeoutMs, "timeout", 80, "Desk response timeout in milliseconds")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
