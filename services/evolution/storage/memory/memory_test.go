// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifegraph/lifegraph/services/evolution/engine"
	"github.com/lifegraph/lifegraph/services/evolution/storage"
)

// TestStateRoundTrip verifies put/get/exists for states.
func TestStateRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()
	state := engine.BoardState{Size: 10, Live: []engine.Cell{{X: 1, Y: 1}}}

	ok, err := s.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.GetState(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.PutState(ctx, "id-1", state))

	ok, err = s.Exists(ctx, "id-1")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := s.GetState(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, state, got)
}

// TestStateCopiedOnWrite verifies stored cells do not alias the
// caller's slice.
func TestStateCopiedOnWrite(t *testing.T) {
	s := New()
	ctx := context.Background()
	cells := []engine.Cell{{X: 1, Y: 1}}
	require.NoError(t, s.PutState(ctx, "id", engine.BoardState{Size: 10, Live: cells}))

	cells[0] = engine.Cell{X: 9, Y: 9}

	got, err := s.GetState(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, engine.Cell{X: 1, Y: 1}, got.Live[0])
}

// TestEdgeRoundTrip verifies edge upsert, lookup, and overwrite.
func TestEdgeRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, ok, err := s.GetEdge(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.PutEdge(ctx, "a", "b"))
	to, ok, err := s.GetEdge(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", to)

	// Idempotent overwrite keeps a single outgoing edge.
	require.NoError(t, s.PutEdge(ctx, "a", "b"))
	to, ok, err = s.GetEdge(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", to)

	// Self-loop is a valid edge.
	require.NoError(t, s.PutEdge(ctx, "c", "c"))
	to, ok, err = s.GetEdge(ctx, "c")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "c", to)
}

// TestClear verifies bulk clear removes states and edges.
func TestClear(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.PutState(ctx, "id", engine.BoardState{Size: 3}))
	require.NoError(t, s.PutEdge(ctx, "id", "id"))

	require.NoError(t, s.Clear(ctx))

	assert.Equal(t, 0, s.Len())
	_, ok, err := s.GetEdge(ctx, "id")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestWriteCounters verifies the instrumentation counters used by the
// memoization tests.
func TestWriteCounters(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.PutState(ctx, "id", engine.BoardState{Size: 3}))
	require.NoError(t, s.PutEdge(ctx, "id", "id"))
	require.NoError(t, s.PutEdge(ctx, "id", "id"))

	assert.Equal(t, int64(1), s.StateWrites())
	assert.Equal(t, int64(2), s.EdgeWrites())
}

// TestContextCancellation verifies a canceled context aborts every
// operation.
func TestContextCancellation(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, s.PutState(ctx, "id", engine.BoardState{}))
	_, err := s.GetState(ctx, "id")
	assert.Error(t, err)
	assert.False(t, s.HealthCheck(ctx))
}
