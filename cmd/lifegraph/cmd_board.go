// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/lifegraph/lifegraph/cmd/lifegraph/config"
	"github.com/lifegraph/lifegraph/services/evolution/datatypes"
)

// newClient builds the API client from config plus flag overrides.
func newClient() *apiClient {
	url := config.Global.Server.URL
	if serverURL != "" {
		url = serverURL
	}
	timeout := time.Duration(config.Global.Server.TimeoutMS) * time.Millisecond
	return newAPIClient(url, timeout)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fail(err)
	}
	fmt.Println(string(data))
}

func runUploadCommand(cmd *cobra.Command, args []string) {
	req := datatypes.UploadBoardRequest{Size: boardSize}

	if cellSpec != "" && cellFile != "" {
		fail(errors.New("use either --cells or --file, not both"))
	}
	var err error
	switch {
	case cellFile != "":
		req.LiveCells, err = parseCellFile(cellFile)
	default:
		req.LiveCells, err = parseCellSpec(cellSpec)
	}
	if err != nil {
		fail(err)
	}

	resp, err := newClient().Upload(context.Background(), req)
	if err != nil {
		fail(err)
	}
	if jsonOutput {
		printJSON(resp)
		return
	}
	fmt.Println(resp.ID)
}

func runNextCommand(cmd *cobra.Command, args []string) {
	resp, err := newClient().Next(context.Background(), args[0])
	if err != nil {
		fail(err)
	}
	if jsonOutput {
		printJSON(resp)
		return
	}
	fmt.Print(renderBoard(resp))
}

func runAheadCommand(cmd *cobra.Command, args []string) {
	steps, err := strconv.Atoi(args[1])
	if err != nil {
		fail(fmt.Errorf("steps must be an integer: %w", err))
	}
	resp, err := newClient().Ahead(context.Background(), args[0], steps)
	if err != nil {
		fail(err)
	}
	if jsonOutput {
		printJSON(resp)
		return
	}
	fmt.Print(renderBoard(resp))
}

func runFinalCommand(cmd *cobra.Command, args []string) {
	resp, err := newClient().Final(context.Background(), args[0])
	if err != nil {
		// An unstable board is an expected outcome, not a transport
		// failure; show the server's classification.
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnprocessableEntity {
			fmt.Printf("not stable: %s (after %d iterations)\n",
				apiErr.Body.Reason, apiErr.Body.Iterations)
			os.Exit(2)
		}
		fail(err)
	}
	if jsonOutput {
		printJSON(resp)
		return
	}
	fmt.Printf("kind: %s\nperiod: %d\niterations: %d\n%s",
		resp.Kind, resp.Period, resp.Iterations, renderBoard(resp.BoardResponse))
}

func runHealthCommand(cmd *cobra.Command, args []string) {
	if err := newClient().Health(context.Background()); err != nil {
		fail(err)
	}
	fmt.Println("ok")
}
