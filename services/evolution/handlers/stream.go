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
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/lifegraph/lifegraph/services/evolution/datatypes"
	"github.com/lifegraph/lifegraph/services/evolution/evolver"
)

// Streaming limits.
const (
	// DefaultStreamGenerations is sent when the client does not ask
	// for a specific count.
	DefaultStreamGenerations = 100

	// MaxStreamGenerations bounds a single stream; clients reconnect
	// from the last id to continue.
	MaxStreamGenerations = 1000

	// DefaultStreamInterval paces generation delivery.
	DefaultStreamInterval = 200 * time.Millisecond
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// streamFrame is one websocket message: a generation, or a terminal
// marker when the board settles or errors.
type streamFrame struct {
	Generation int                      `json:"generation"`
	Board      *datatypes.BoardResponse `json:"board,omitempty"`
	Done       bool                     `json:"done,omitempty"`
	Reason     string                   `json:"reason,omitempty"`
	Error      string                   `json:"error,omitempty"`
}

// StreamBoard handles GET /v1/boards/:id/stream: upgrades to a
// websocket and pushes successive generations until the board reaches a
// still life, the generation cap is hit, or the client disconnects.
// Every generation streamed is memoized on the way, so a later replay
// of the same board is pure cache hits.
func StreamBoard(eng *evolver.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		generations := DefaultStreamGenerations
		if raw := c.Query("generations"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{
					Error: "generations must be a positive integer",
				})
				return
			}
			if n > MaxStreamGenerations {
				n = MaxStreamGenerations
			}
			generations = n
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("failed to upgrade stream websocket", "error", err)
			return
		}
		defer ws.Close()
		slog.Info("generation stream started", "id", id, "generations", generations)

		ctx := c.Request.Context()
		ticker := time.NewTicker(DefaultStreamInterval)
		defer ticker.Stop()

		currentID := id
		for gen := 1; gen <= generations; gen++ {
			nextID, state, err := eng.Next(ctx, currentID)
			if err != nil {
				_ = ws.WriteJSON(streamFrame{Generation: gen, Error: err.Error(), Done: true})
				return
			}

			board := datatypes.NewBoardResponse(nextID, state)
			if err := ws.WriteJSON(streamFrame{Generation: gen, Board: &board}); err != nil {
				slog.Warn("stream client gone", "id", id, "error", err)
				return
			}

			if nextID == currentID {
				_ = ws.WriteJSON(streamFrame{Generation: gen, Done: true, Reason: "still_life"})
				return
			}
			currentID = nextID

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
		_ = ws.WriteJSON(streamFrame{Generation: generations, Done: true, Reason: "generation_cap"})
	}
}
