// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package memory provides an in-process implementation of the storage
// contract backed by mutex-protected maps. It is the default backend
// for tests and single-node development runs.
package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/lifegraph/lifegraph/services/evolution/engine"
	"github.com/lifegraph/lifegraph/services/evolution/storage"
)

// Store is an in-memory state and edge store. The zero value is not
// usable; construct with New.
//
// Store counts state and edge writes so tests can observe memoization:
// a cache-hit path performs zero writes.
type Store struct {
	mu     sync.RWMutex
	states map[string]engine.BoardState
	edges  map[string]string

	stateWrites atomic.Int64
	edgeWrites  atomic.Int64
}

var _ storage.Store = (*Store)(nil)

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		states: make(map[string]engine.BoardState),
		edges:  make(map[string]string),
	}
}

// PutState upserts a board state. Cells are copied so later caller
// mutations cannot alias stored state.
func (s *Store) PutState(ctx context.Context, id string, state engine.BoardState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	live := make([]engine.Cell, len(state.Live))
	copy(live, state.Live)
	state.Live = live

	s.mu.Lock()
	s.states[id] = state
	s.mu.Unlock()
	s.stateWrites.Add(1)
	return nil
}

// GetState returns the state stored under id, or storage.ErrNotFound.
func (s *Store) GetState(ctx context.Context, id string) (engine.BoardState, error) {
	if err := ctx.Err(); err != nil {
		return engine.BoardState{}, err
	}
	s.mu.RLock()
	state, ok := s.states[id]
	s.mu.RUnlock()
	if !ok {
		return engine.BoardState{}, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return state, nil
}

// Exists reports whether id has a stored state.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	_, ok := s.states[id]
	s.mu.RUnlock()
	return ok, nil
}

// PutEdge upserts the memoized transition from -> to.
func (s *Store) PutEdge(ctx context.Context, from, to string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.edges[from] = to
	s.mu.Unlock()
	s.edgeWrites.Add(1)
	return nil
}

// GetEdge returns the memoized successor of from, if recorded.
func (s *Store) GetEdge(ctx context.Context, from string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	to, ok := s.edges[from]
	s.mu.RUnlock()
	return to, ok, nil
}

// Clear drops all states and edges. Test environments only.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.states = make(map[string]engine.BoardState)
	s.edges = make(map[string]string)
	s.mu.Unlock()
	return nil
}

// HealthCheck always succeeds for the in-memory backend.
func (s *Store) HealthCheck(ctx context.Context) bool {
	return ctx.Err() == nil
}

// StateWrites returns the number of PutState calls observed so far.
func (s *Store) StateWrites() int64 { return s.stateWrites.Load() }

// EdgeWrites returns the number of PutEdge calls observed so far.
func (s *Store) EdgeWrites() int64 { return s.edgeWrites.Load() }

// Len returns the number of stored states.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}
