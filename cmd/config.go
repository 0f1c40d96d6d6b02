// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Thermoquad/lyft/pkg/config"
)

// resolveConfig loads the config file, if any, and applies explicitly set
// flags on top of it
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Link.Port = portName
		cfg.Link.URL = ""
	}
	if flags.Changed("url") {
		cfg.Link.URL = wsURL
		cfg.Link.Port = ""
	}
	if flags.Changed("baud") {
		cfg.Link.Baud = baudRate
	}
	if flags.Changed("username") {
		cfg.Link.Username = wsUsername
	}
	if flags.Changed("no-ssl-verify") {
		cfg.Link.NoSSLVerify = wsNoSSLVerify
	}
	if flags.Changed("timeout") {
		cfg.Link.TimeoutMs = timeoutMs
	}
	if flags.Changed("verbosity") {
		cfg.Log.Verbosity = verbosity
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)

	return cfg, nil
}
