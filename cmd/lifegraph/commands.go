// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	serverURL  string // CLI override for server.url
	boardSize  int
	cellSpec   string
	cellFile   string
	jsonOutput bool

	rootCmd = &cobra.Command{
		Use:   "lifegraph",
		Short: "A cli for the LifeGraph evolution service",
		Long: `LifeGraph computes Conway's Game of Life generations on toroidal
boards, content-addresses every state, and memoizes the evolution
graph so repeated queries never recompute.`,
	}

	uploadCmd = &cobra.Command{
		Use:   "upload",
		Short: "Upload a board and print its content-addressed id",
		Run:   runUploadCommand,
	}

	nextCmd = &cobra.Command{
		Use:   "next [id]",
		Short: "Advance a board one generation",
		Args:  cobra.ExactArgs(1),
		Run:   runNextCommand,
	}

	aheadCmd = &cobra.Command{
		Use:   "ahead [id] [steps]",
		Short: "Advance a board N generations",
		Args:  cobra.ExactArgs(2),
		Run:   runAheadCommand,
	}

	finalCmd = &cobra.Command{
		Use:   "final [id]",
		Short: "Walk a board to its final stable state",
		Long: `Walks the evolution graph from the given board until it reaches a
still life. Boards that oscillate or fail to settle within the server's
iteration budget are reported as unstable.`,
		Run:  runFinalCommand,
		Args: cobra.ExactArgs(1),
	}

	healthCmd = &cobra.Command{
		Use:   "health",
		Short: "Check the evolution service is reachable",
		Run:   runHealthCommand,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "",
		"Evolution service URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Print raw JSON responses")

	uploadCmd.Flags().IntVar(&boardSize, "size", 0,
		"Board edge length (1-1000)")
	uploadCmd.Flags().StringVar(&cellSpec, "cells", "",
		"Live cells as x,y pairs separated by ';' (e.g. \"1,1;1,2\")")
	uploadCmd.Flags().StringVar(&cellFile, "file", "",
		"Plaintext file with one x,y pair per line")
	_ = uploadCmd.MarkFlagRequired("size")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(aheadCmd)
	rootCmd.AddCommand(finalCmd)
	rootCmd.AddCommand(healthCmd)
}
