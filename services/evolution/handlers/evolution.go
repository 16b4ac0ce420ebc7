// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lifegraph/lifegraph/services/evolution/datatypes"
	"github.com/lifegraph/lifegraph/services/evolution/engine"
	"github.com/lifegraph/lifegraph/services/evolution/evolver"
)

// NextBoard handles GET /v1/boards/:id/next: advances one generation,
// serving from the memoized edge when possible.
func NextBoard(eng *evolver.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		nextID, state, err := eng.Next(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, datatypes.NewBoardResponse(nextID, state))
	}
}

// AheadBoard handles GET /v1/boards/:id/ahead/:steps: advances N
// generations sequentially.
func AheadBoard(eng *evolver.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		steps, err := strconv.Atoi(c.Param("steps"))
		if err != nil {
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{
				Error: "steps must be an integer",
			})
			return
		}
		if err := engine.ValidateSteps(steps); err != nil {
			respondError(c, err)
			return
		}

		finalID, state, err := eng.Ahead(c.Request.Context(), id, steps)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, datatypes.NewBoardResponse(finalID, state))
	}
}

// FinalBoard handles GET /v1/boards/:id/final: walks the evolution
// graph until a still life, an oscillation, or budget exhaustion. The
// walk can run up to the full iteration budget; request cancellation
// aborts it without invalidating memoization committed so far.
func FinalBoard(eng *evolver.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		res, err := eng.FinalState(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, datatypes.FinalStateResponse{
			BoardResponse: datatypes.NewBoardResponse(res.ID, res.State),
			Kind:          res.Kind,
			Period:        res.Period,
			Iterations:    res.Iterations,
		})
	}
}
