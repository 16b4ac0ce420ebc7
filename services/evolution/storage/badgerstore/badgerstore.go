// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package badgerstore implements the storage contract on embedded
// BadgerDB. States and memoized edges live in one keyspace under
// distinct prefixes:
//
//	state:<id> -> JSON-encoded BoardState
//	edge:<id>  -> successor id (raw bytes)
//
// BadgerDB gives atomic per-key upserts, which is all the engine
// requires: concurrent writers of the same content-addressed id write
// byte-identical values, so races are harmless.
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/lifegraph/lifegraph/services/evolution/engine"
	"github.com/lifegraph/lifegraph/services/evolution/storage"
)

// Key prefixes for the two record kinds.
const (
	statePrefix = "state:"
	edgePrefix  = "edge:"
)

// Config holds configuration for a badger-backed store.
type Config struct {
	// Path is the directory for database files. Required unless
	// InMemory is true; created if it does not exist.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	// Default: true for production, false for testing.
	SyncWrites bool

	// Logger receives BadgerDB's internal log output. If nil, that
	// output is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns production defaults: durable synchronous writes
// at the given path.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig returns a configuration for tests: no disk I/O, no
// sync overhead.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Store is a BadgerDB-backed implementation of storage.Store.
type Store struct {
	db *badger.DB
}

var _ storage.Store = (*Store)(nil)

// Open creates and opens a badger-backed store with the given
// configuration. Caller must Close when done.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens an in-memory store for testing. Data is lost on
// Close.
func OpenInMemory() (*Store, error) {
	return Open(InMemoryConfig())
}

// Close releases the underlying database. The store is unusable
// afterwards.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutState upserts a board state under its content id.
func (s *Store) PutState(ctx context.Context, id string, state engine.BoardState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state %s: %w", id, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(statePrefix+id), data)
	})
	if err != nil {
		return fmt.Errorf("%w: put state %s: %v", storage.ErrUnavailable, id, err)
	}
	return nil
}

// GetState returns the state stored under id, or storage.ErrNotFound.
func (s *Store) GetState(ctx context.Context, id string) (engine.BoardState, error) {
	if err := ctx.Err(); err != nil {
		return engine.BoardState{}, err
	}
	var state engine.BoardState
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(statePrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &state)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return engine.BoardState{}, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return engine.BoardState{}, fmt.Errorf("%w: get state %s: %v", storage.ErrUnavailable, id, err)
	}
	return state, nil
}

// Exists reports whether id has a stored state.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(statePrefix + id))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: exists %s: %v", storage.ErrUnavailable, id, err)
	}
	return true, nil
}

// PutEdge upserts the memoized transition from -> to.
func (s *Store) PutEdge(ctx context.Context, from, to string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(edgePrefix+from), []byte(to))
	})
	if err != nil {
		return fmt.Errorf("%w: put edge %s: %v", storage.ErrUnavailable, from, err)
	}
	return nil
}

// GetEdge returns the memoized successor of from, if recorded.
func (s *Store) GetEdge(ctx context.Context, from string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	var to string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(edgePrefix + from))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			to = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: get edge %s: %v", storage.ErrUnavailable, from, err)
	}
	return to, true, nil
}

// Clear drops every state and edge record. Test environments only.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.db.DropAll(); err != nil {
		return fmt.Errorf("%w: clear: %v", storage.ErrUnavailable, err)
	}
	return nil
}

// HealthCheck reports whether the database is open and serving.
func (s *Store) HealthCheck(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	return !s.db.IsClosed()
}
