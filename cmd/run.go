// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/Thermoquad/lyft/pkg/as1115"
	"github.com/Thermoquad/lyft/pkg/bekant"
	"github.com/Thermoquad/lyft/pkg/board"
	"github.com/Thermoquad/lyft/pkg/config"
	"github.com/Thermoquad/lyft/pkg/controller"
	"github.com/Thermoquad/lyft/pkg/settings"
)

var (
	runHMIDriver string
	runTracePath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the desk controller",
	Long: `Run the operating state machine against the desk controller.

The control panel is either the AS1115 display and keyscan controller on the
I2C bus (--hmi as1115, the default) or an emulated panel in the terminal
(--hmi tui) for bench use without board hardware.

User settings (memory positions, offset, unit, brightness, display on time
and audio) are loaded from the JSON settings file and saved when leaving the
settings menu.

Board I/O (reset button, status LED, buzzer, panel interrupt and the host
watchdog) is enabled through the config file.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runHMIDriver, "hmi", "", "Panel driver (as1115, tui); overrides the config file")
	runCmd.Flags().StringVar(&runTracePath, "trace", "", "Append every exchange to this CBOR trace file")
}

// session bundles what every panel driver needs to run a machine
type session struct {
	cfg      *config.Config
	log      hclog.Logger
	link     *bekant.Link
	stats    *bekant.Statistics
	store    *settings.FileStore
	settings settings.Settings
	connInfo string
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if runTracePath != "" {
		cfg.Link.Trace = runTracePath
	}
	if runHMIDriver != "" {
		cfg.HMI.Driver = runHMIDriver
		if err := config.Validate(cfg); err != nil {
			return err
		}
		config.Normalize(cfg)
	}

	// The emulated panel owns the terminal, so logs go to its event log
	var logs *lineWriter
	var log hclog.Logger
	if cfg.HMI.Driver == config.HMIDriverTUI {
		logs = newLineWriter(256)
		log = newLoggerTo(logs, cfg.Log.Verbosity, hclog.ColorOff)
	} else {
		log = newLogger(cfg.Log.Verbosity)
	}

	s := &session{
		cfg:   cfg,
		log:   log,
		stats: bekant.NewStatistics(),
		store: settings.NewFileStore(cfg.Settings.Path),
	}

	s.settings, err = s.store.Load()
	if err != nil {
		return err
	}

	opts := []bekant.Option{bekant.WithStatistics(s.stats)}
	if cfg.Link.Trace != "" {
		f, err := os.OpenFile(cfg.Link.Trace, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open trace file: %w", err)
		}
		defer f.Close()
		opts = append(opts, bekant.WithRecorder(bekant.NewTraceWriter(f)))
	}

	link, conn, connInfo, err := openLink(cfg, log, opts...)
	if err != nil {
		return err
	}
	defer conn.Close()
	s.link = link
	s.connInfo = connInfo

	log.Info("desk link open", "connection", connInfo, "timeout", cfg.Link.Timeout())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.HMI.Driver == config.HMIDriverTUI {
		return runPanel(ctx, s, logs)
	}
	return runHardware(ctx, s)
}

// runHardware runs the machine with the AS1115 panel and the board I/O
func runHardware(ctx context.Context, s *session) error {
	cfg := s.cfg

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize host drivers: %w", err)
	}

	bus, err := i2creg.Open(cfg.HMI.I2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus %q: %w", cfg.HMI.I2CBus, err)
	}
	defer bus.Close()

	hmi, err := as1115.New(bus, cfg.HMI.Address, s.log.Named("hmi"))
	if err != nil {
		return err
	}
	defer hmi.Halt()

	opts := controller.Options{
		Desk:       s.link,
		HMI:        hmi,
		Store:      s.store,
		Settings:   s.settings,
		Logger:     s.log.Named("controller"),
		TickPeriod: cfg.Tick.Period(),
	}

	var b *board.Board
	if cfg.Board.Enabled {
		b, err = board.Open(board.Pins{
			ResetButton:     cfg.Board.ResetButton,
			LED:             cfg.Board.LED,
			Buzzer:          cfg.Board.Buzzer,
			HMIIRQ:          cfg.Board.HMIIRQ,
			BuzzerFrequency: physic.Frequency(cfg.Board.BuzzerHz) * physic.Hertz,
		}, s.log.Named("board"))
		if err != nil {
			return err
		}
		defer b.Halt()

		opts.Indicators = b
		opts.ResetButton = b
	} else {
		// No panel interrupt wired
		opts.WakeOnKeys = true
	}

	if cfg.Board.Watchdog != "" {
		wd, err := board.OpenWatchdog(cfg.Board.Watchdog)
		if err != nil {
			return err
		}
		defer wd.Close()
		opts.Watchdog = wd
	}

	m, err := controller.New(opts)
	if err != nil {
		return err
	}

	if b != nil {
		go b.WatchWake(ctx, m.Wake)
	}

	controller.Run(ctx, m)

	if err := hmi.Err(); err != nil {
		s.log.Warn("panel bus error", "error", err)
	}
	s.log.Info("link statistics\n" + s.stats.String())
	return nil
}
