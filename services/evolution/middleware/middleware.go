// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package middleware provides request-scoped concerns for the evolution
// service: request identity, structured request logging, and per-client
// rate limiting.
package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/lifegraph/lifegraph/services/evolution/datatypes"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// RequestIDHeader is echoed back to clients for correlation.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request a uuid (or adopts the client's) and
// echoes it in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(RequestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs one structured line per request with latency and
// status. Runs after RequestID so the line carries the id.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		slog.Info("request",
			"request_id", c.GetString(RequestIDKey),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}

// clientLimiters tracks one token bucket per client IP. Entries for
// idle clients are evicted lazily when the map grows past maxClients.
type clientLimiters struct {
	mu         sync.Mutex
	limiters   map[string]*rate.Limiter
	limit      rate.Limit
	burst      int
	maxClients int
}

func (cl *clientLimiters) get(ip string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if lim, ok := cl.limiters[ip]; ok {
		return lim
	}
	if len(cl.limiters) >= cl.maxClients {
		// Crude eviction: start over. Limits reset for everyone, which
		// errs on the permissive side.
		cl.limiters = make(map[string]*rate.Limiter)
	}
	lim := rate.NewLimiter(cl.limit, cl.burst)
	cl.limiters[ip] = lim
	return lim
}

// RateLimit limits each client IP to rps requests per second with the
// given burst. Rejected requests get 429 with a structured body.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	cl := &clientLimiters{
		limiters:   make(map[string]*rate.Limiter),
		limit:      rate.Limit(rps),
		burst:      burst,
		maxClients: 10_000,
	}
	return func(c *gin.Context) {
		if !cl.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				datatypes.ErrorResponse{Error: "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
