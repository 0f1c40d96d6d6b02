// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/Thermoquad/lyft/pkg/bekant"
	"github.com/Thermoquad/lyft/pkg/controller"
	"github.com/Thermoquad/lyft/pkg/settings"
)

var (
	showAll         bool
	statsInterval   int
	pollIntervalMs  int
	useTUI          bool
	monitorUnitInch bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Poll the desk and track link errors",
	Long: `Poll desk state and position and track link errors with statistics.

This command exercises the desk link the same way the controller does while
running, and detects:
  - Response timeouts
  - Checksum, identifier, command and length errors
  - Invalid data (position 0)
  - Errors reported by the desk through the status byte
  - Statistics and trends (exchange rate, error rate, latency)

By default, only errors are displayed. Use --show-all to display every sample.

The monitor only reads; it never moves the desk. Do not run it next to the
controller daemon on the same link.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().BoolVar(&showAll, "show-all", false, "Show all samples (not just errors)")
	monitorCmd.Flags().IntVar(&statsInterval, "stats-interval", 10, "Statistics update interval (seconds)")
	monitorCmd.Flags().IntVar(&pollIntervalMs, "interval", 100, "Poll interval (milliseconds)")
	monitorCmd.Flags().BoolVar(&useTUI, "tui", true, "Use terminal UI (false for text mode)")
	monitorCmd.Flags().BoolVar(&monitorUnitInch, "inch", false, "Show heights in inches")
}

// deskSample is the outcome of one poll
type deskSample struct {
	at       time.Time
	state    bekant.DeskState
	stateErr error
	position uint16
	posErr   error
}

func (s deskSample) failed() bool {
	return s.stateErr != nil || s.posErr != nil
}

func (s deskSample) height() int {
	unit := settings.UnitCM
	if monitorUnitInch {
		unit = settings.UnitInch
	}
	return controller.PositionToHeight(s.position, 0, unit)
}

// pollDesk samples state and position every interval until ctx is done
func pollDesk(ctx context.Context, link *bekant.Link, interval time.Duration, out chan<- deskSample) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s := deskSample{at: time.Now()}
		s.state, s.stateErr = link.State()
		s.position, s.posErr = link.Position()
		if s.posErr == nil && s.position == 0 {
			s.posErr = &bekant.HostError{Kind: bekant.HostInvalidData, Op: bekant.CmdDeskPosition, Detail: "position 0"}
		}

		select {
		case out <- s:
		case <-ctx.Done():
			return
		}
	}
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	log := newLogger(cfg.Log.Verbosity)
	if useTUI {
		// Keep the terminal for the UI
		log = hclog.NewNullLogger()
	}

	stats := bekant.NewStatistics()
	link, conn, connInfo, err := openLink(cfg, log, bekant.WithStatistics(stats))
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	samples := make(chan deskSample, 16)
	go pollDesk(ctx, link, time.Duration(pollIntervalMs)*time.Millisecond, samples)

	if useTUI {
		return runTUIMode(ctx, connInfo, stats, samples)
	}
	return runTextMode(ctx, connInfo, stats, samples)
}

// printSampleErrors prints the failures of a sample in highlighted format
func printSampleErrors(s deskSample) {
	timestamp := s.at.Format("15:04:05.000")
	for _, err := range []error{s.stateErr, s.posErr} {
		if err == nil {
			continue
		}
		color := "1;31" // host errors in red
		var de *bekant.DeskError
		if errors.As(err, &de) {
			color = "1;33"
		}
		fmt.Printf("[%s] \033[%smERROR:\033[0m %v\n", timestamp, color, err)
	}
}

// printSample prints a successful sample
func printSample(s deskSample) {
	timestamp := s.at.Format("15:04:05.000")
	fmt.Printf("[%s] \033[1;32mDESK:\033[0m %s position=%d height=%d\n", timestamp, s.state, s.position, s.height())
}

// runTUIMode runs the monitor in TUI mode
func runTUIMode(ctx context.Context, connInfo string, stats *bekant.Statistics, samples <-chan deskSample) error {
	m := initialModel(connInfo, statsInterval, showAll, stats, samples)
	p := tea.NewProgram(m, tea.WithContext(ctx))

	// Run TUI
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("TUI error: %v", err)
	}

	return nil
}

// runTextMode runs the monitor in text mode
func runTextMode(ctx context.Context, connInfo string, stats *bekant.Statistics, samples <-chan deskSample) error {
	fmt.Printf("Lyft - Desk Monitor\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Statistics interval: %d seconds\n", statsInterval)
	if showAll {
		fmt.Printf("Mode: All samples\n")
	} else {
		fmt.Printf("Mode: Errors only\n")
	}
	fmt.Printf("Press Ctrl+C to exit\n\n")

	// Statistics ticker
	statsTicker := time.NewTicker(time.Duration(statsInterval) * time.Second)
	defer statsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			fmt.Print(stats.String())
			return nil

		case s := <-samples:
			if s.failed() {
				printSampleErrors(s)
			} else if showAll {
				printSample(s)
			}

		case <-statsTicker.C:
			// Print statistics
			fmt.Println()
			fmt.Print(stats.String())
			fmt.Println()
		}
	}
}
