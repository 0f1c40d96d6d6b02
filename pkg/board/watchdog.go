// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package board

import (
	"fmt"
	"os"
)

// Watchdog feeds a Linux watchdog device such as /dev/watchdog
type Watchdog struct {
	f *os.File
}

// OpenWatchdog opens the device. The watchdog starts counting as soon as
// the device is open.
func OpenWatchdog(path string) (*Watchdog, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open watchdog %s: %w", path, err)
	}
	return &Watchdog{f: f}, nil
}

// Feed restarts the watchdog timer
func (w *Watchdog) Feed() error {
	if _, err := w.f.Write([]byte{0}); err != nil {
		return fmt.Errorf("failed to feed watchdog: %w", err)
	}
	return nil
}

// Close disarms the watchdog with the magic close character and closes
// the device
func (w *Watchdog) Close() error {
	if _, err := w.f.Write([]byte("V")); err != nil {
		w.f.Close()
		return fmt.Errorf("failed to disarm watchdog: %w", err)
	}
	return w.f.Close()
}
