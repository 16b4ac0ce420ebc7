// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes provides request and response types for the
// evolution service boundary.
//
// Boundary validation restates the domain rules so malformed requests
// are rejected before they reach the engine; the engine re-checks them
// regardless, since it is also driven by non-HTTP callers.
package datatypes

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/lifegraph/lifegraph/services/evolution/engine"
)

const (
	// MaxLiveCellsPerRequest caps the upload payload. A full
	// 1000x1000 board is the theoretical maximum.
	MaxLiveCellsPerRequest = 1_000_000
)

// boardValidate is the validator instance for board datatypes.
var boardValidate *validator.Validate

func init() {
	boardValidate = validator.New()
	boardValidate.RegisterStructValidation(validateUploadBounds, UploadBoardRequest{})
}

// validateUploadBounds enforces cell bounds relative to the requested
// size; tag validators cannot express the cross-field dependency.
func validateUploadBounds(sl validator.StructLevel) {
	req := sl.Current().Interface().(UploadBoardRequest)
	if req.Size < engine.MinBoardSize || req.Size > engine.MaxBoardSize {
		return // size tag already reports this
	}
	for _, c := range req.LiveCells {
		if c.X < 0 || c.X >= req.Size || c.Y < 0 || c.Y >= req.Size {
			sl.ReportError(req.LiveCells, "live_cells", "LiveCells", "cellbounds", "")
			return
		}
	}
}

// CellDTO mirrors engine.Cell on the wire.
type CellDTO struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// UploadBoardRequest is the body of POST /v1/boards.
type UploadBoardRequest struct {
	Size      int       `json:"size" validate:"gte=1,lte=1000"`
	LiveCells []CellDTO `json:"live_cells" validate:"max=1000000"`
}

// Validate checks boundary rules for the upload request.
func (r UploadBoardRequest) Validate() error {
	if err := boardValidate.Struct(r); err != nil {
		return fmt.Errorf("invalid upload request: %w", err)
	}
	return nil
}

// Cells converts the wire representation into engine cells.
func (r UploadBoardRequest) Cells() []engine.Cell {
	cells := make([]engine.Cell, len(r.LiveCells))
	for i, c := range r.LiveCells {
		cells[i] = engine.Cell{X: c.X, Y: c.Y}
	}
	return cells
}

// UploadBoardResponse is the body returned by POST /v1/boards.
type UploadBoardResponse struct {
	ID string `json:"id"`
}

// BoardResponse carries a board state plus its id. Used by fetch, next
// and ahead endpoints.
type BoardResponse struct {
	ID        string    `json:"id"`
	Size      int       `json:"size"`
	LiveCells []CellDTO `json:"live_cells"`
}

// FinalStateResponse is the success body of the final-state search.
type FinalStateResponse struct {
	BoardResponse
	Kind       string `json:"kind"`
	Period     int    `json:"period"`
	Iterations int    `json:"iterations"`
}

// ErrorResponse is the uniform error body. Reason is set for stability
// failures so clients can branch without parsing messages.
type ErrorResponse struct {
	Error      string `json:"error"`
	Reason     string `json:"reason,omitempty"`
	Iterations int    `json:"iterations,omitempty"`
}

// NewBoardResponse builds a BoardResponse from an engine state.
func NewBoardResponse(id string, state engine.BoardState) BoardResponse {
	cells := make([]CellDTO, len(state.Live))
	for i, c := range state.Live {
		cells[i] = CellDTO{X: c.X, Y: c.Y}
	}
	return BoardResponse{ID: id, Size: state.Size, LiveCells: cells}
}
