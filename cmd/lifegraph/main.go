// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/lifegraph/lifegraph/cmd/lifegraph/config"
	"github.com/lifegraph/lifegraph/pkg/logging"
)

// cliLog is configured from the logging section of the config file in
// PersistentPreRun; commands before that point fall back to stderr.
var cliLog = logging.Default()

func main() {
	// Execute the root command. Cobra handles parsing the arguments.
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

func init() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if err := config.Load(); err != nil {
			log.Fatalf("Error loading configuration: %v", err)
		}
		level := logging.ParseLevel(config.Global.Logging.Level)
		logger, err := logging.New(logging.Config{
			Level:   level,
			LogDir:  config.Global.Logging.LogDir,
			Service: "cli",
			// Keep stderr clean unless the user asked for debug output.
			Quiet: level != logging.LevelDebug,
		})
		if err != nil {
			log.Fatalf("Error setting up logging: %v", err)
		}
		cliLog = logger
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		_ = cliLog.Close()
	}
}
