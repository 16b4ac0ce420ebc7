// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

// neighborCountCap is where live-neighbor counting stops. The rule only
// distinguishes {0,1}, {2}, {3} and {4+}, so counts above 4 are never
// needed and must never be reported.
const neighborCountCap = 4

// neighborOffsets are the 8 positions surrounding a cell.
var neighborOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// wrap maps a coordinate plus offset onto the torus. Adding size before
// the modulo keeps negative offsets in range.
func wrap(c, d, size int) int {
	return (c + d + size) % size
}

// Step computes the next generation of a toroidal Game of Life board.
//
// Description:
//
//	Rather than scanning the full size×size grid, Step evaluates only the
//	frontier: the live cells plus their 8 toroidal neighbors. A live cell
//	survives with 2 or 3 live neighbors; a dead frontier cell is born
//	with exactly 3. Everything else stays or becomes dead. Cost is
//	proportional to the number of live cells, which is what makes boards
//	up to size 1000 feasible.
//
//	Duplicate cells in the input collapse into the live set before any
//	counting, so they cannot inflate neighbor counts.
//
// Inputs:
//
//   - size: board edge length; assumed pre-validated (>= 1)
//   - live: live coordinates, each assumed within [0, size)
//
// Outputs:
//
//   - []Cell: next generation's live cells, in no particular order
//
// Thread Safety: pure function, safe for concurrent use.
func Step(size int, live []Cell) []Cell {
	if len(live) == 0 {
		return nil
	}

	alive := make(map[Cell]struct{}, len(live))
	for _, c := range live {
		alive[c] = struct{}{}
	}

	// Frontier: every cell whose next state can differ from dead.
	// On a size-1 board all neighbors wrap back to (0,0); the map
	// collapses them without special-casing.
	frontier := make(map[Cell]struct{}, len(alive)*9)
	for c := range alive {
		frontier[c] = struct{}{}
		for _, d := range neighborOffsets {
			frontier[Cell{
				X: wrap(c.X, d[0], size),
				Y: wrap(c.Y, d[1], size),
			}] = struct{}{}
		}
	}

	next := make([]Cell, 0, len(alive))
	for c := range frontier {
		n := countLiveNeighbors(c, size, alive)
		_, isAlive := alive[c]
		if n == 3 || (isAlive && n == 2) {
			next = append(next, c)
		}
	}
	if len(next) == 0 {
		return nil
	}
	return next
}

// countLiveNeighbors counts live cells among the 8 toroidal neighbors of
// c, stopping as soon as neighborCountCap is reached.
func countLiveNeighbors(c Cell, size int, alive map[Cell]struct{}) int {
	count := 0
	for _, d := range neighborOffsets {
		n := Cell{
			X: wrap(c.X, d[0], size),
			Y: wrap(c.Y, d[1], size),
		}
		if _, ok := alive[n]; ok {
			count++
			if count == neighborCountCap {
				return count
			}
		}
	}
	return count
}
