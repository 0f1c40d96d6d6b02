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
	pingCount    int
	pingInterval int
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Measure link round trips with protocol version requests",
	Long: `Send protocol version requests to the desk controller and report each
round trip.

The request has no side effects on the desk, so this is safe while the desk
is idle. It verifies:
  - The serial port or WebSocket bridge is reachable
  - HTTP Basic authentication works (WebSocket only)
  - Frames pass in both directions without corruption
  - Round trip latency stays below the response timeout

Exit codes:
  0 - All pings successful
  1 - One or more pings failed
  2 - Connection error`,
	RunE: runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
	pingCmd.Flags().IntVar(&pingCount, "count", 3, "Number of pings to send")
	pingCmd.Flags().IntVar(&pingInterval, "interval", 1000, "Milliseconds between pings")
}

func runPing(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	stats := bekant.NewStatistics()
	link, conn, connInfo, err := openLink(cfg, newLogger(cfg.Log.Verbosity), bekant.WithStatistics(stats))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	fmt.Printf("Lyft - Link Ping\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Timeout: %s per ping\n", cfg.Link.Timeout())
	fmt.Printf("Count: %d pings\n\n", pingCount)

	successCount := 0
	failCount := 0

	for i := 1; i <= pingCount; i++ {
		fmt.Printf("Ping %d/%d: ", i, pingCount)

		start := time.Now()
		version, err := link.ProtocolVersion()
		rtt := time.Since(start)

		switch {
		case err == nil:
			fmt.Printf("protocol %s, rtt=%v\n", version, rtt.Round(100*time.Microsecond))
			successCount++
		case bekant.IsHostError(err, bekant.HostTimeout):
			fmt.Printf("TIMEOUT (no response in %s)\n", cfg.Link.Timeout())
			failCount++
		default:
			fmt.Printf("FAILED: %v\n", err)
			failCount++
		}

		if i < pingCount {
			time.Sleep(time.Duration(pingInterval) * time.Millisecond)
		}
	}

	// Summary
	fmt.Printf("\n--- Ping Statistics ---\n")
	fmt.Printf("%d sent, %d received, %d failed\n", pingCount, successCount, failCount)
	if successCount > 0 {
		fmt.Printf("Average rtt: %v\n", stats.AverageLatency().Round(100*time.Microsecond))
	}

	if failCount > 0 {
		conn.Close()
		os.Exit(1)
	}

	return nil
}
