// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package badgerstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifegraph/lifegraph/services/evolution/engine"
	"github.com/lifegraph/lifegraph/services/evolution/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// TestOpenRequiresPath verifies persistent mode rejects an empty path.
func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}

// TestOpenWithPath verifies data survives a close and reopen.
func TestOpenWithPath(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	state := engine.BoardState{Size: 10, Live: []engine.Cell{{X: 1, Y: 1}}}

	cfg := DefaultConfig(dir)
	cfg.SyncWrites = false // faster tests

	s, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, s.PutState(ctx, "id-1", state))
	require.NoError(t, s.PutEdge(ctx, "id-1", "id-2"))
	require.NoError(t, s.Close())

	s2, err := Open(cfg)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.GetState(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, state, got)

	to, ok, err := s2.GetEdge(ctx, "id-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "id-2", to)
}

// TestStateRoundTrip verifies put/get/exists against the in-memory
// backend.
func TestStateRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	state := engine.BoardState{Size: 5, Live: []engine.Cell{{X: 0, Y: 4}, {X: 2, Y: 2}}}

	_, err := s.GetState(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	ok, err := s.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.PutState(ctx, "id", state))

	ok, err = s.Exists(ctx, "id")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := s.GetState(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, state, got)

	// Idempotent re-upsert of identical content.
	require.NoError(t, s.PutState(ctx, "id", state))
	got, err = s.GetState(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, state, got)
}

// TestEdgeRoundTrip verifies edge semantics including self-loops and
// the no-edge case being ok=false rather than an error.
func TestEdgeRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, ok, err := s.GetEdge(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.PutEdge(ctx, "a", "b"))
	require.NoError(t, s.PutEdge(ctx, "loop", "loop"))

	to, ok, err := s.GetEdge(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", to)

	to, ok, err = s.GetEdge(ctx, "loop")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "loop", to)
}

// TestClear verifies DropAll removes both record kinds.
func TestClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.PutState(ctx, "id", engine.BoardState{Size: 3}))
	require.NoError(t, s.PutEdge(ctx, "id", "id"))

	require.NoError(t, s.Clear(ctx))

	ok, err := s.Exists(ctx, "id")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.GetEdge(ctx, "id")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestHealthCheck verifies health reflects database lifecycle.
func TestHealthCheck(t *testing.T) {
	s := newTestStore(t)
	assert.True(t, s.HealthCheck(context.Background()))

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, s.HealthCheck(canceled))
}
