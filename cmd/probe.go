// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/lyft/pkg/bekant"
)

var (
	probeWait int
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Test the link by querying the desk controller",
	Long: `Query the desk controller until it answers or the wait expires.

This command connects to a serial port or WebSocket and repeatedly asks the
controller for its protocol version. Once a valid response arrives it prints
the controller identity, the stored limits and both motors.

Exit codes:
  0 - Controller answered before the wait expired
  1 - No valid response within the wait
  2 - Connection error

Useful for checking wiring before starting the controller daemon.`,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().IntVar(&probeWait, "wait", 10, "Seconds to wait for the controller")
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	link, conn, connInfo, err := openLink(cfg, newLogger(cfg.Log.Verbosity), bekant.WithStatistics(bekant.NewStatistics()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	fmt.Printf("Lyft - Link Probe\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Wait: %d seconds\n\n", probeWait)

	deadline := time.Now().Add(time.Duration(probeWait) * time.Second)
	attempts := 0
	var protocol string
	for {
		attempts++
		protocol, err = link.ProtocolVersion()
		if err == nil {
			break
		}
		if bekant.IsHostError(err, bekant.HostTransport) {
			fmt.Fprintf(os.Stderr, "Read error: %v\n", err)
			conn.Close()
			os.Exit(2)
		}
		if time.Now().After(deadline) {
			fmt.Fprintf(os.Stderr, "TIMEOUT: no valid response within %d seconds (%d attempts, last error: %v)\n",
				probeWait, attempts, err)
			conn.Close()
			os.Exit(1)
		}
		time.Sleep(250 * time.Millisecond)
	}

	fmt.Printf("SUCCESS: controller answered after %d attempt(s)\n", attempts)
	fmt.Printf("  Protocol: %s\n", protocol)
	printProbe("Firmware", link.FirmwareVersion)
	printProbe("Board", link.BoardRevision)
	printProbe("State", link.State)
	printProbe("Position", link.Position)
	printProbe("Drift", link.Drift)
	printProbe("Upper limit", link.UpperLimit)
	printProbe("Lower limit", link.LowerLimit)

	for _, m := range []bekant.Motor{bekant.MotorLeft, bekant.MotorRight} {
		fmt.Printf("  Motor %s:\n", m)
		printMotor("state", m, link.MotorState)
		printMotor("position", m, link.MotorPosition)
		printMotor("node id", m, link.MotorNodeID)
		printMotor("scan id", m, link.MotorScanID)
	}

	fmt.Println()
	fmt.Print(link.Statistics().String())
	return nil
}

func printProbe[T any](name string, query func() (T, error)) {
	v, err := query()
	if err != nil {
		fmt.Printf("  %s: \033[1;31m%v\033[0m\n", name, err)
		return
	}
	fmt.Printf("  %s: %v\n", name, v)
}

func printMotor[T any](name string, m bekant.Motor, query func(bekant.Motor) (T, error)) {
	printProbe("  "+name, func() (T, error) { return query(m) })
}
