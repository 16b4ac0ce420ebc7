// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lifegraph/lifegraph/services/evolution/evolver"
	"github.com/lifegraph/lifegraph/services/evolution/handlers"
	"github.com/lifegraph/lifegraph/services/evolution/middleware"
)

// Options controls optional route groups.
type Options struct {
	// EnableAdmin registers the destructive admin routes (bulk clear).
	// Only test environments should set this.
	EnableAdmin bool

	// RateLimitRPS enables per-client rate limiting when > 0.
	RateLimitRPS float64

	// RateLimitBurst is the bucket size when rate limiting is enabled.
	RateLimitBurst int
}

// SetupRoutes wires the evolution service endpoints onto the router.
func SetupRoutes(router *gin.Engine, eng *evolver.Engine, opts Options) {
	router.Use(middleware.RequestID(), middleware.RequestLogger())
	if opts.RateLimitRPS > 0 {
		router.Use(middleware.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst))
	}

	router.GET("/health", handlers.HealthCheck(eng))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	{
		boards := v1.Group("/boards")
		{
			boards.POST("", handlers.UploadBoard(eng))
			boards.GET("/:id", handlers.GetBoard(eng))
			boards.GET("/:id/next", handlers.NextBoard(eng))
			boards.GET("/:id/ahead/:steps", handlers.AheadBoard(eng))
			boards.GET("/:id/final", handlers.FinalBoard(eng))
			boards.GET("/:id/stream", handlers.StreamBoard(eng))
		}

		if opts.EnableAdmin {
			admin := v1.Group("/admin")
			{
				admin.DELETE("/boards", handlers.ClearBoards(eng))
			}
		}
	}
}
