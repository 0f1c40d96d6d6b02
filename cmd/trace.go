// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/lyft/pkg/bekant"
)

var (
	traceErrorsOnly bool
	traceNoStats    bool
)

var traceCmd = &cobra.Command{
	Use:   "trace <file>",
	Short: "Display a recorded exchange trace in human-readable format",
	Long: `Decode and display a CBOR exchange trace written by "lyft run --trace".

Each exchange is printed with timestamp, command, raw request and response
bytes, latency and the error it produced. A statistics summary of the whole
trace follows.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrace,
}

func init() {
	rootCmd.AddCommand(traceCmd)
	traceCmd.Flags().BoolVar(&traceErrorsOnly, "errors-only", false, "Only print failed exchanges")
	traceCmd.Flags().BoolVar(&traceNoStats, "no-stats", false, "Skip the statistics summary")
}

func runTrace(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open trace: %w", err)
	}
	defer f.Close()

	return replayTrace(f, os.Stdout, traceErrorsOnly, !traceNoStats)
}

// replayTrace prints every exchange of a trace followed by a summary
func replayTrace(r io.Reader, w io.Writer, errorsOnly, summary bool) error {
	reader := bekant.NewTraceReader(r)
	stats := bekant.NewStatistics()

	var first, last bekant.Exchange
	count := 0
	for {
		e, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("exchange %d: %w", count+1, err)
		}

		if count == 0 {
			first = e
		}
		last = e
		count++

		stats.Update(e.Command, e.Duration, e.Err)
		if errorsOnly && e.Err == nil {
			continue
		}
		fmt.Fprintln(w, bekant.FormatExchange(e))
	}

	if !summary {
		return nil
	}

	fmt.Fprintln(w)
	if count == 0 {
		fmt.Fprintln(w, "Trace is empty")
		return nil
	}
	fmt.Fprintf(w, "%d exchanges from %s to %s\n", count,
		first.At.Format("2006-01-02 15:04:05.000"), last.At.Format("15:04:05.000"))
	fmt.Fprint(w, stats.String())
	return nil
}
