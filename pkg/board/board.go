// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package board drives the GPIO attached to the controller board: the
// manual reset button, the status LED, the buzzer and the panel interrupt.
package board

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// DefaultBuzzerFrequency drives the piezo at its resonance
const DefaultBuzzerFrequency = 4 * physic.KiloHertz

// edgePoll bounds how long WatchWake blocks before checking its context
const edgePoll = 100 * time.Millisecond

// Pins names the board pins as known to the host driver
type Pins struct {
	ResetButton     string
	LED             string
	Buzzer          string
	HMIIRQ          string
	BuzzerFrequency physic.Frequency
}

// Board implements controller.Indicators and controller.ResetButton.
// Reset button and LED are active low.
type Board struct {
	reset  gpio.PinIO
	led    gpio.PinIO
	buzzer gpio.PinIO
	irq    gpio.PinIO
	freq   physic.Frequency

	buzzing bool
	log     hclog.Logger
}

// Open initializes the host drivers and configures the named pins
func Open(p Pins, log hclog.Logger) (*Board, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize host drivers: %w", err)
	}

	pins := make([]gpio.PinIO, 0, 4)
	for _, name := range []string{p.ResetButton, p.LED, p.Buzzer, p.HMIIRQ} {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, fmt.Errorf("failed to find pin %q", name)
		}
		pins = append(pins, pin)
	}

	return New(pins[0], pins[1], pins[2], pins[3], p.BuzzerFrequency, log)
}

// New configures already resolved pins
func New(reset, led, buzzer, irq gpio.PinIO, freq physic.Frequency, log hclog.Logger) (*Board, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	if freq <= 0 {
		freq = DefaultBuzzerFrequency
	}

	b := &Board{reset: reset, led: led, buzzer: buzzer, irq: irq, freq: freq, log: log}

	if err := reset.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("failed to configure reset button %s: %w", reset, err)
	}
	if err := irq.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return nil, fmt.Errorf("failed to configure panel interrupt %s: %w", irq, err)
	}
	if err := led.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("failed to configure led %s: %w", led, err)
	}
	if err := buzzer.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("failed to configure buzzer %s: %w", buzzer, err)
	}

	log.Debug("board pins configured", "reset", reset, "led", led, "buzzer", buzzer, "irq", irq)
	return b, nil
}

// Pressed reports whether the reset button is held
func (b *Board) Pressed() bool {
	return b.reset.Read() == gpio.Low
}

// BoardLED switches the status LED
func (b *Board) BoardLED(on bool) {
	level := gpio.High
	if on {
		level = gpio.Low
	}
	if err := b.led.Out(level); err != nil {
		b.log.Warn("failed to drive led", "error", err)
	}
}

// Buzzer starts or stops the buzzer tone
func (b *Board) Buzzer(on bool) {
	if on == b.buzzing {
		return
	}

	var err error
	if on {
		err = b.buzzer.PWM(gpio.DutyHalf, b.freq)
	} else {
		err = b.buzzer.Out(gpio.Low)
	}
	if err != nil {
		b.log.Warn("failed to drive buzzer", "on", on, "error", err)
		return
	}
	b.buzzing = on
}

// WatchWake calls wake on every falling edge of the panel interrupt until
// ctx is cancelled
func (b *Board) WatchWake(ctx context.Context, wake func()) {
	for ctx.Err() == nil {
		if b.irq.WaitForEdge(edgePoll) {
			b.log.Trace("panel interrupt")
			wake()
		}
	}
}

// Halt silences the buzzer and releases the pins
func (b *Board) Halt() error {
	b.Buzzer(false)
	b.BoardLED(false)

	for _, pin := range []gpio.PinIO{b.irq, b.buzzer} {
		if err := pin.Halt(); err != nil {
			return fmt.Errorf("failed to halt %s: %w", pin, err)
		}
	}
	return nil
}
