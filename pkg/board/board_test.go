// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package board

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

type testPins struct {
	reset, led, buzzer, irq *gpiotest.Pin
}

func newTestBoard(t *testing.T) (*Board, *testPins) {
	t.Helper()

	p := &testPins{
		reset:  &gpiotest.Pin{N: "RESET"},
		led:    &gpiotest.Pin{N: "LED"},
		buzzer: &gpiotest.Pin{N: "BUZZER"},
		irq:    &gpiotest.Pin{N: "IRQ", EdgesChan: make(chan gpio.Level, 4)},
	}

	b, err := New(p.reset, p.led, p.buzzer, p.irq, 0, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return b, p
}

func TestNewConfiguresPins(t *testing.T) {
	b, p := newTestBoard(t)

	if p.reset.P != gpio.PullUp {
		t.Errorf("reset pull = %s, want PullUp", p.reset.P)
	}
	if p.led.L != gpio.High {
		t.Error("led should start off (high)")
	}
	if b.freq != DefaultBuzzerFrequency {
		t.Errorf("buzzer frequency = %s, want %s", b.freq, DefaultBuzzerFrequency)
	}
}

func TestResetButtonActiveLow(t *testing.T) {
	b, p := newTestBoard(t)

	if b.Pressed() {
		t.Error("released button reported pressed")
	}

	p.reset.L = gpio.Low
	if !b.Pressed() {
		t.Error("held button not reported")
	}
}

func TestBoardLED(t *testing.T) {
	b, p := newTestBoard(t)

	b.BoardLED(true)
	if p.led.L != gpio.Low {
		t.Error("led on should drive low")
	}

	b.BoardLED(false)
	if p.led.L != gpio.High {
		t.Error("led off should drive high")
	}
}

func TestBuzzer(t *testing.T) {
	b, p := newTestBoard(t)

	b.Buzzer(true)
	if p.buzzer.D != gpio.DutyHalf || p.buzzer.F != DefaultBuzzerFrequency {
		t.Errorf("buzzer pwm = %s at %s", p.buzzer.D, p.buzzer.F)
	}

	b.Buzzer(false)
	if b.buzzing || p.buzzer.L != gpio.Low {
		t.Error("buzzer should be off")
	}
}

func TestWatchWake(t *testing.T) {
	b, p := newTestBoard(t)

	var wakes atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.WatchWake(ctx, func() { wakes.Add(1) })
		close(done)
	}()

	p.irq.EdgesChan <- gpio.Low
	p.irq.EdgesChan <- gpio.Low

	deadline := time.Now().Add(2 * time.Second)
	for wakes.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if wakes.Load() != 2 {
		t.Errorf("wakes = %d, want 2", wakes.Load())
	}
}

func TestWatchdog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchdog")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	wd, err := OpenWatchdog(path)
	if err != nil {
		t.Fatalf("OpenWatchdog() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := wd.Feed(); err != nil {
			t.Fatalf("Feed() error = %v", err)
		}
	}
	if err := wd.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "\x00\x00\x00V" {
		t.Errorf("device writes = %q", data)
	}

	if _, err := OpenWatchdog(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("OpenWatchdog() on missing device should fail")
	}
}
