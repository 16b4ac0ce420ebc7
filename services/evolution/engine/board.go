// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package engine implements the evolution core: board types, toroidal
// Game of Life stepping over sparse live-cell sets, and content-addressed
// state identity.
//
// Everything in this package is pure and stateless. Step and StateID are
// safe for unbounded concurrent use; they share no mutable state and take
// no locks.
package engine

import (
	"fmt"
	"strings"
)

// Board size limits enforced before any storage mutation.
const (
	// MinBoardSize is the smallest accepted board edge length.
	MinBoardSize = 1

	// MaxBoardSize is the largest accepted board edge length.
	// Sparse stepping keeps cost proportional to live cells, so this
	// bounds coordinates, not memory for dead space.
	MaxBoardSize = 1000
)

// Cell is a single coordinate on a board. Both components are in
// [0, size) for a valid board of the given size.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Less orders cells ascending by X, then Y. This is the canonical order
// used for state identity.
func (c Cell) Less(o Cell) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	return c.Y < o.Y
}

// BoardState is a square toroidal grid of edge length Size plus the
// cells alive on it. A BoardState is immutable once created; evolution
// produces new states rather than mutating existing ones.
//
// Live preserves the sequence it was created with, duplicates included.
// Identity canonicalizes order but deliberately not duplication (see
// StateID).
type BoardState struct {
	Size int    `json:"size"`
	Live []Cell `json:"live_cells"`
}

// ValidationError reports a board or request that violates domain rules.
// It is raised before any storage mutation, so a failed upload never
// leaves partial state behind.
type ValidationError struct {
	// Field names the offending input ("size", "live_cells", "steps").
	Field string

	// Message is a human-readable description, including the offending
	// coordinates where applicable.
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// Validate checks the domain rules for a board upload: size within
// [MinBoardSize, MaxBoardSize] and every cell within [0, size) on both
// axes. All offending cells are reported, not just the first.
func Validate(size int, live []Cell) error {
	if size < MinBoardSize || size > MaxBoardSize {
		return &ValidationError{
			Field: "size",
			Message: fmt.Sprintf("size %d outside [%d, %d]",
				size, MinBoardSize, MaxBoardSize),
		}
	}

	var bad []string
	for _, c := range live {
		if c.X < 0 || c.X >= size || c.Y < 0 || c.Y >= size {
			bad = append(bad, fmt.Sprintf("(%d,%d)", c.X, c.Y))
		}
	}
	if len(bad) > 0 {
		return &ValidationError{
			Field: "live_cells",
			Message: fmt.Sprintf("cells out of bounds for size %d: %s",
				size, strings.Join(bad, ", ")),
		}
	}
	return nil
}

// ValidateSteps checks the step count for a multi-step advance.
func ValidateSteps(steps int) error {
	if steps < 1 {
		return &ValidationError{
			Field:   "steps",
			Message: fmt.Sprintf("steps must be >= 1, got %d", steps),
		}
	}
	return nil
}
