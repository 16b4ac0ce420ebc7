// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestStateIDOrderIndependent verifies any permutation of the same cells
// hashes to the same id.
func TestStateIDOrderIndependent(t *testing.T) {
	a := StateID(10, []Cell{{1, 1}, {1, 2}, {2, 1}, {2, 2}})
	b := StateID(10, []Cell{{2, 2}, {1, 2}, {2, 1}, {1, 1}})
	c := StateID(10, []Cell{{2, 1}, {2, 2}, {1, 1}, {1, 2}})
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

// TestStateIDSizeMatters verifies identical cells on different board
// sizes get different ids.
func TestStateIDSizeMatters(t *testing.T) {
	cells := []Cell{{1, 1}, {1, 2}}
	assert.NotEqual(t, StateID(10, cells), StateID(11, cells))
}

// TestStateIDCellsMatter verifies differing cell multisets get
// different ids.
func TestStateIDCellsMatter(t *testing.T) {
	assert.NotEqual(t,
		StateID(10, []Cell{{1, 1}}),
		StateID(10, []Cell{{1, 2}}))
	assert.NotEqual(t,
		StateID(10, []Cell{{1, 1}}),
		StateID(10, []Cell{{1, 1}, {1, 2}}))
}

// TestStateIDDuplicatesPreserved pins the upstream quirk: duplicated
// entries are hashed, so a board with a repeated cell gets a different
// id than the deduplicated board.
func TestStateIDDuplicatesPreserved(t *testing.T) {
	assert.NotEqual(t,
		StateID(10, []Cell{{1, 1}}),
		StateID(10, []Cell{{1, 1}, {1, 1}}))
}

// TestStateIDShape verifies the id is a fixed-width lowercase hex
// digest.
func TestStateIDShape(t *testing.T) {
	id := StateID(3, []Cell{{0, 0}})
	assert.Len(t, id, 64)
	assert.Regexp(t, "^[0-9a-f]{64}$", id)
}

// TestStateIDDoesNotMutateInput verifies canonicalization sorts a copy,
// not the caller's slice.
func TestStateIDDoesNotMutateInput(t *testing.T) {
	cells := []Cell{{5, 5}, {0, 0}, {3, 3}}
	StateID(10, cells)
	assert.Equal(t, []Cell{{5, 5}, {0, 0}, {3, 3}}, cells)
}

// TestBoardStateID verifies the method form matches the function form.
func TestBoardStateID(t *testing.T) {
	s := BoardState{Size: 10, Live: []Cell{{1, 1}, {2, 2}}}
	assert.Equal(t, StateID(10, s.Live), s.ID())
}
