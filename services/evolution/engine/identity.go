// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"
)

// StateID computes the content-addressed identifier of a board.
//
// Description:
//
//	Canonicalizes the live-cell sequence by sorting ascending on (X, Y),
//	then hashes size followed by the sorted cells with SHA-256 in a fixed
//	little-endian layout. Two boards with equal size and equal sorted
//	cell sequences always produce the same id, regardless of input
//	order; differing size produces a different id even for identical
//	coordinates.
//
//	Duplicate cells are NOT removed before hashing. Two uploads of the
//	same semantic board that differ only in duplicated entries therefore
//	get distinct ids. This mirrors the upstream behavior; callers that
//	want convergence get it one generation later, since Step collapses
//	duplicates.
//
// Inputs:
//
//   - size: board edge length
//   - live: live coordinates, any order
//
// Outputs:
//
//   - string: 64-character lowercase hex digest
//
// Thread Safety: pure function, safe for concurrent use. The input slice
// is not modified; canonicalization sorts a copy.
func StateID(size int, live []Cell) string {
	canonical := make([]Cell, len(live))
	copy(canonical, live)
	sort.Slice(canonical, func(i, j int) bool {
		return canonical[i].Less(canonical[j])
	})

	h := sha256.New()
	binary.Write(h, binary.LittleEndian, int64(size))
	for _, c := range canonical {
		binary.Write(h, binary.LittleEndian, int64(c.X))
		binary.Write(h, binary.LittleEndian, int64(c.Y))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ID computes the content-addressed identifier of s. See StateID.
func (s BoardState) ID() string {
	return StateID(s.Size, s.Live)
}
