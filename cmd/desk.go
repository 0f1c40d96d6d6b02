// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/lyft/pkg/bekant"
)

var (
	moveFollow  bool
	moveTimeout int
)

var deskCmd = &cobra.Command{
	Use:   "desk",
	Short: "Send single commands to the desk controller",
	Long: `Send one command to the desk controller and print the result.

These commands talk to the controller directly and bypass the keypad state
machine. Do not run them next to the controller daemon on the same link.`,
}

var deskInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Start the desk (scan motors and read limits)",
	Args:  cobra.NoArgs,
	RunE:  deskCall(acknowledge(func(l *bekant.Link) error { return l.Startup() })),
}

var deskDeinitCmd = &cobra.Command{
	Use:   "deinit",
	Short: "Shut the desk down",
	Args:  cobra.NoArgs,
	RunE:  deskCall(acknowledge(func(l *bekant.Link) error { return l.Shutdown() })),
}

var deskStopCmd = &cobra.Command{
	Use:     "stop",
	Aliases: []string{"halt"},
	Short:   "Stop any movement",
	Args:    cobra.NoArgs,
	RunE:    deskCall(acknowledge(func(l *bekant.Link) error { return l.Stop() })),
}

var deskCalibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Run the calibration drive",
	Args:  cobra.NoArgs,
	RunE:  deskCall(acknowledge(func(l *bekant.Link) error { return l.Calibrate() })),
}

var deskWatchdogCmd = &cobra.Command{
	Use:       "watchdog enable|disable",
	Short:     "Arm or disarm the controller watchdog",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"enable", "disable"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] == "enable" {
			return deskCall(acknowledge(func(l *bekant.Link) error { return l.WatchdogEnable() }))(cmd, args)
		}
		return deskCall(acknowledge(func(l *bekant.Link) error { return l.WatchdogDisable() }))(cmd, args)
	},
}

var deskStateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the desk state",
	Args:  cobra.NoArgs,
	RunE: deskCall(func(l *bekant.Link) error {
		state, err := l.State()
		if err != nil {
			return err
		}
		fmt.Printf("%s (0x%02X)\n", state, uint8(state))
		return nil
	}),
}

var deskPositionCmd = &cobra.Command{
	Use:   "position",
	Short: "Print the desk position and limits",
	Args:  cobra.NoArgs,
	RunE: deskCall(func(l *bekant.Link) error {
		pos, err := l.Position()
		if err != nil {
			return err
		}
		upper, err := l.UpperLimit()
		if err != nil {
			return err
		}
		lower, err := l.LowerLimit()
		if err != nil {
			return err
		}
		fmt.Printf("position=%d upper=%d lower=%d\n", pos, upper, lower)
		return nil
	}),
}

var deskMoveCmd = &cobra.Command{
	Use:   "move <position>",
	Short: "Move the desk to a raw position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := strconv.ParseUint(args[0], 0, 16)
		if err != nil {
			return fmt.Errorf("invalid position %q: %w", args[0], err)
		}
		return deskCall(func(l *bekant.Link) error {
			if err := l.SetPosition(uint16(target)); err != nil {
				return err
			}
			if !moveFollow {
				fmt.Println("OK")
				return nil
			}
			return followMove(l, time.Duration(moveTimeout)*time.Second)
		})(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(deskCmd)
	deskCmd.AddCommand(deskInitCmd, deskDeinitCmd, deskStopCmd, deskCalibrateCmd,
		deskWatchdogCmd, deskStateCmd, deskPositionCmd, deskMoveCmd)

	deskMoveCmd.Flags().BoolVar(&moveFollow, "follow", true, "Poll and print the position until the desk stops")
	deskMoveCmd.Flags().IntVar(&moveTimeout, "max-time", 30, "Seconds to follow before stopping the desk")
}

// deskCall wraps a single link operation into a cobra RunE
func deskCall(op func(*bekant.Link) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}

		link, conn, _, err := openLink(cfg, newLogger(cfg.Log.Verbosity))
		if err != nil {
			return err
		}
		defer conn.Close()

		return op(link)
	}
}

// acknowledge prints OK after a successful call
func acknowledge(op func(*bekant.Link) error) func(*bekant.Link) error {
	return func(l *bekant.Link) error {
		if err := op(l); err != nil {
			return err
		}
		fmt.Println("OK")
		return nil
	}
}

func moving(s bekant.DeskState) bool {
	switch s {
	case bekant.StateOperationMovingUp, bekant.StateOperationMovingDown, bekant.StateOperationMovingSlow:
		return true
	}
	return false
}

// followMove polls the desk while it moves. The controller stops a moving
// desk that is no longer polled, so the poll doubles as keep-alive.
func followMove(l *bekant.Link, limit time.Duration) error {
	deadline := time.Now().Add(limit)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	settled := 0
	for range ticker.C {
		state, err := l.State()
		if err != nil {
			return err
		}
		pos, err := l.Position()
		if err != nil {
			return err
		}
		fmt.Printf("\r%-28s position=%5d", state, pos)

		if moving(state) {
			settled = 0
		} else if settled++; settled >= 3 {
			fmt.Println()
			return nil
		}

		if time.Now().After(deadline) {
			fmt.Println()
			if err := l.Stop(); err != nil {
				return err
			}
			return fmt.Errorf("desk still moving after %s, stopped", limit)
		}
	}
	return nil
}
