// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package evolver coordinates board uploads and memoized traversal of
// the evolution graph. It owns no engine-level mutable state; all state
// lives behind the storage contract, so a single Engine is safe for
// concurrent requests.
package evolver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/lifegraph/lifegraph/services/evolution/engine"
	"github.com/lifegraph/lifegraph/services/evolution/storage"
)

// DefaultMaxIterations is the final-state search budget: the maximum
// number of advance steps taken before the search gives up.
const DefaultMaxIterations = 1000

var tracer = otel.Tracer("evolution.evolver")

// loggerWithTrace returns a logger with trace context attached so log
// lines correlate with spans.
func loggerWithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return logger
	}
	return logger.With(
		slog.String("trace_id", spanCtx.TraceID().String()),
		slog.String("span_id", spanCtx.SpanID().String()),
	)
}

// FinalResult is the successful outcome of a final-state search: the
// board reached a configuration that maps to itself.
type FinalResult struct {
	ID    string
	State engine.BoardState

	// Kind is the stability classification. Only "still_life" is ever
	// produced; higher-period cycles are reported as StabilityError.
	Kind string

	// Period is always 1 for a still life.
	Period int

	// Iterations is how many advance steps were taken to get here.
	Iterations int
}

// Engine answers upload, next, ahead and final-state queries against a
// storage backend, memoizing every computed transition as a directed
// edge so repeat queries never recompute.
type Engine struct {
	store         storage.Store
	logger        *slog.Logger
	maxIterations int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxIterations overrides the final-state search budget. Intended
// for tests; production uses DefaultMaxIterations.
func WithMaxIterations(n int) Option {
	return func(e *Engine) {
		e.maxIterations = n
	}
}

// New creates an Engine over the given store.
func New(store storage.Store, opts ...Option) *Engine {
	e := &Engine{
		store:         store,
		logger:        slog.Default(),
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Upload validates and persists a board, returning its content id.
//
// Validation is exhaustive and precedes any storage mutation, so a
// failed upload never leaves partial state. Re-uploading an equivalent
// board returns the same id without a duplicate write.
func (e *Engine) Upload(ctx context.Context, size int, live []engine.Cell) (string, error) {
	ctx, span := tracer.Start(ctx, "evolver.Upload",
		trace.WithAttributes(
			attribute.Int("board.size", size),
			attribute.Int("board.live_cells", len(live)),
		))
	defer span.End()

	if err := engine.Validate(size, live); err != nil {
		uploadsTotal.WithLabelValues("invalid").Inc()
		return "", err
	}

	state := engine.BoardState{Size: size, Live: live}
	id := state.ID()
	span.SetAttributes(attribute.String("board.id", id))

	exists, err := e.store.Exists(ctx, id)
	if err != nil {
		return "", fmt.Errorf("check existing state: %w", err)
	}
	if exists {
		uploadsTotal.WithLabelValues("duplicate").Inc()
		return id, nil
	}

	if err := e.store.PutState(ctx, id, state); err != nil {
		return "", fmt.Errorf("persist state: %w", err)
	}
	uploadsTotal.WithLabelValues("stored").Inc()
	loggerWithTrace(ctx, e.logger).Info("board uploaded",
		"id", id, "size", size, "live_cells", len(live))
	return id, nil
}

// Get returns the stored board for id.
func (e *Engine) Get(ctx context.Context, id string) (engine.BoardState, error) {
	return e.store.GetState(ctx, id)
}

// Next advances the board one generation, consulting the memoized edge
// first.
//
// On a cache hit (edge recorded and target state present) nothing is
// recomputed. On a miss the next generation is computed, persisted if
// new, and the edge is recorded, self-loops included, so the follow-up
// call hits the cache.
func (e *Engine) Next(ctx context.Context, id string) (string, engine.BoardState, error) {
	ctx, span := tracer.Start(ctx, "evolver.Next",
		trace.WithAttributes(attribute.String("board.id", id)))
	defer span.End()

	if nextID, ok, err := e.store.GetEdge(ctx, id); err != nil {
		return "", engine.BoardState{}, fmt.Errorf("edge lookup: %w", err)
	} else if ok {
		state, err := e.store.GetState(ctx, nextID)
		if err == nil {
			advanceTotal.WithLabelValues("cache_hit").Inc()
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return nextID, state, nil
		}
		// Edge without its target state; recompute below.
	}

	current, err := e.store.GetState(ctx, id)
	if err != nil {
		return "", engine.BoardState{}, err
	}

	start := time.Now()
	nextLive := engine.Step(current.Size, current.Live)
	stepDuration.Observe(time.Since(start).Seconds())

	next := engine.BoardState{Size: current.Size, Live: nextLive}
	nextID := next.ID()

	exists, err := e.store.Exists(ctx, nextID)
	if err != nil {
		return "", engine.BoardState{}, fmt.Errorf("check next state: %w", err)
	}
	if !exists {
		if err := e.store.PutState(ctx, nextID, next); err != nil {
			return "", engine.BoardState{}, fmt.Errorf("persist next state: %w", err)
		}
	}
	if err := e.store.PutEdge(ctx, id, nextID); err != nil {
		return "", engine.BoardState{}, fmt.Errorf("persist edge: %w", err)
	}

	advanceTotal.WithLabelValues("computed").Inc()
	span.SetAttributes(
		attribute.Bool("cache.hit", false),
		attribute.String("board.next_id", nextID),
	)
	return nextID, next, nil
}

// Ahead advances the board steps generations, threading each returned
// id into the next call. No shortcut detects cycles inside the range;
// cost is O(steps) lookups, each amortized O(1) once memoized.
func (e *Engine) Ahead(ctx context.Context, id string, steps int) (string, engine.BoardState, error) {
	ctx, span := tracer.Start(ctx, "evolver.Ahead",
		trace.WithAttributes(
			attribute.String("board.id", id),
			attribute.Int("board.steps", steps),
		))
	defer span.End()

	if err := engine.ValidateSteps(steps); err != nil {
		return "", engine.BoardState{}, err
	}

	currentID := id
	var state engine.BoardState
	for i := 0; i < steps; i++ {
		var err error
		currentID, state, err = e.Next(ctx, currentID)
		if err != nil {
			return "", engine.BoardState{}, fmt.Errorf("step %d of %d: %w", i+1, steps, err)
		}
	}
	return currentID, state, nil
}

// FinalState walks the evolution graph from id until a period-1 fixed
// point is reached, a previously seen state recurs, or the iteration
// budget runs out.
//
// Only the fixed point counts as success. A revisited state, whatever
// the true cycle length, yields StabilityError with ReasonOscillation;
// budget exhaustion yields ReasonBudgetExhausted. Memoization committed
// along the way stays valid even when the search fails or the context
// is canceled.
func (e *Engine) FinalState(ctx context.Context, id string) (FinalResult, error) {
	ctx, span := tracer.Start(ctx, "evolver.FinalState",
		trace.WithAttributes(attribute.String("board.id", id)))
	defer span.End()
	log := loggerWithTrace(ctx, e.logger)

	exists, err := e.store.Exists(ctx, id)
	if err != nil {
		finalStateTotal.WithLabelValues("error").Inc()
		return FinalResult{}, fmt.Errorf("check state: %w", err)
	}
	if !exists {
		return FinalResult{}, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}

	seen := map[string]struct{}{id: {}}
	currentID := id
	for i := 1; i <= e.maxIterations; i++ {
		nextID, state, err := e.Next(ctx, currentID)
		if err != nil {
			finalStateTotal.WithLabelValues("error").Inc()
			return FinalResult{}, fmt.Errorf("iteration %d: %w", i, err)
		}

		if nextID == currentID {
			finalStateTotal.WithLabelValues("still_life").Inc()
			finalStateIterations.Observe(float64(i))
			log.Info("final state reached", "id", nextID, "iterations", i)
			return FinalResult{
				ID:         nextID,
				State:      state,
				Kind:       "still_life",
				Period:     1,
				Iterations: i,
			}, nil
		}
		if _, ok := seen[nextID]; ok {
			finalStateTotal.WithLabelValues("oscillation").Inc()
			finalStateIterations.Observe(float64(i))
			log.Info("oscillation detected", "id", id, "iterations", i)
			return FinalResult{}, &StabilityError{Reason: ReasonOscillation, Iterations: i}
		}
		seen[nextID] = struct{}{}
		currentID = nextID
	}

	finalStateTotal.WithLabelValues("budget_exhausted").Inc()
	finalStateIterations.Observe(float64(e.maxIterations))
	log.Info("final-state budget exhausted", "id", id, "budget", e.maxIterations)
	return FinalResult{}, &StabilityError{
		Reason:     ReasonBudgetExhausted,
		Iterations: e.maxIterations,
	}
}

// Clear wipes all stored states and edges. Test environments only.
func (e *Engine) Clear(ctx context.Context) error {
	return e.store.Clear(ctx)
}

// Healthy reports whether the storage backend is reachable.
func (e *Engine) Healthy(ctx context.Context) bool {
	return e.store.HealthCheck(ctx)
}
