// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// logLevel maps a verbosity name to a log level
func logLevel(v string) hclog.Level {
	switch strings.ToLower(v) {
	case "silent":
		return hclog.Warn
	case "verbose":
		return hclog.Debug
	case "debug":
		return hclog.Trace
	default:
		return hclog.Info
	}
}

// newLogger creates the root logger writing to stderr
func newLogger(v string) hclog.Logger {
	return newLoggerTo(os.Stderr, v, hclog.AutoColor)
}

func newLoggerTo(w io.Writer, v string, color hclog.ColorOption) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "lyft",
		Level:  logLevel(v),
		Output: w,
		Color:  color,
	})
}

// lineWriter hands complete log lines to a channel without blocking.
// Lines are dropped when the reader falls behind.
type lineWriter struct {
	lines chan string
}

func newLineWriter(size int) *lineWriter {
	return &lineWriter{lines: make(chan string, size)}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}
		select {
		case w.lines <- line:
		default:
		}
	}
	return len(p), nil
}
