// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lifegraph/lifegraph/services/evolution/datatypes"
	"github.com/lifegraph/lifegraph/services/evolution/evolver"
)

// UploadBoard handles POST /v1/boards: validates, content-addresses and
// persists a board, returning its id. Idempotent for equivalent boards.
func UploadBoard(eng *evolver.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.UploadBoardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest,
				datatypes.ErrorResponse{Error: "invalid request body: " + err.Error()})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest,
				datatypes.ErrorResponse{Error: err.Error()})
			return
		}

		id, err := eng.Upload(c.Request.Context(), req.Size, req.Cells())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, datatypes.UploadBoardResponse{ID: id})
	}
}

// GetBoard handles GET /v1/boards/:id: returns the stored state.
func GetBoard(eng *evolver.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		state, err := eng.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, datatypes.NewBoardResponse(id, state))
	}
}

// ClearBoards handles DELETE /v1/admin/boards: bulk-clears the stored
// evolution graph. Reserved for test environments; the route is only
// registered when admin routes are enabled.
func ClearBoards(eng *evolver.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := eng.Clear(c.Request.Context()); err != nil {
			slog.Error("bulk clear failed", "error", err)
			respondError(c, err)
			return
		}
		slog.Info("evolution graph cleared")
		c.JSON(http.StatusOK, gin.H{"status": "cleared"})
	}
}

// HealthCheck handles GET /health.
func HealthCheck(eng *evolver.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !eng.Healthy(c.Request.Context()) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
