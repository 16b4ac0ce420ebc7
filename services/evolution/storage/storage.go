// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package storage defines the contract the evolution engine persists
// through: a key-value store of board states addressed by content id,
// plus a directed edge store memoizing computed transitions.
//
// Implementations must provide atomic per-key upsert semantics.
// Concurrent writers computing the same content-addressed id may race,
// but writes are idempotent upserts of byte-identical content, so
// last-write-wins is acceptable and no locking is required above the
// storage boundary.
package storage

import (
	"context"
	"errors"

	"github.com/lifegraph/lifegraph/services/evolution/engine"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrNotFound indicates the requested id is unknown to the store.
	ErrNotFound = errors.New("state not found")

	// ErrUnavailable indicates the backing store could not serve the
	// request. It is fatal for the current operation; the engine never
	// retries internally.
	ErrUnavailable = errors.New("storage unavailable")
)

// -----------------------------------------------------------------------------
// Contract
// -----------------------------------------------------------------------------

// Store is the persistence contract for the evolution graph. States are
// nodes keyed by content id; edges memoize the deterministic transition
// function, so each source id has at most one outgoing edge.
type Store interface {
	// PutState upserts a board state under its id. Re-writing an id is
	// a no-op in effect: the content is byte-identical by construction.
	PutState(ctx context.Context, id string, state engine.BoardState) error

	// GetState returns the state stored under id, or ErrNotFound.
	GetState(ctx context.Context, id string) (engine.BoardState, error)

	// Exists reports whether id has a stored state.
	Exists(ctx context.Context, id string) (bool, error)

	// PutEdge upserts the memoized transition from -> to, overwriting
	// any previous edge for from. Self-loops are valid (still lifes).
	PutEdge(ctx context.Context, from, to string) error

	// GetEdge returns the memoized successor of from. The boolean is
	// false when no edge has been recorded yet; that is not an error.
	GetEdge(ctx context.Context, from string) (string, bool, error)

	// Clear removes all states and edges. Reserved for test
	// environments; production callers never delete.
	Clear(ctx context.Context) error

	// HealthCheck reports whether the backing store is reachable.
	HealthCheck(ctx context.Context) bool
}
