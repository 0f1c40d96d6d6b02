// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// Lyft - Standing Desk Controller Host
//
// Drives a motorized standing desk controller over its serial link and runs
// the control panel state machine.

package main

import (
	"fmt"
	"os"

	"github.com/Thermoquad/lyft/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
