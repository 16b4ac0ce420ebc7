// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lifegraph/lifegraph/services/evolution/datatypes"
)

// parseCellSpec reads cells from a compact flag value like
// "1,1;1,2;2,1". Whitespace around separators is tolerated.
func parseCellSpec(spec string) ([]datatypes.CellDTO, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	var cells []datatypes.CellDTO
	for _, pair := range strings.Split(spec, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.Split(pair, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed cell %q, expected x,y", pair)
		}
		x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("malformed x in cell %q: %w", pair, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("malformed y in cell %q: %w", pair, err)
		}
		cells = append(cells, datatypes.CellDTO{X: x, Y: y})
	}
	return cells, nil
}

// parseCellFile reads cells from a plaintext file, one "x,y" pair per
// line. Blank lines and lines starting with # are skipped.
func parseCellFile(path string) ([]datatypes.CellDTO, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cell file: %w", err)
	}
	var cells []datatypes.CellDTO
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parsed, err := parseCellSpec(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		cells = append(cells, parsed...)
	}
	return cells, nil
}

// renderBoard prints a small board as an ASCII grid; larger boards are
// summarized as a cell list to keep output usable.
func renderBoard(board datatypes.BoardResponse) string {
	const maxRendered = 64

	var b strings.Builder
	fmt.Fprintf(&b, "id: %s\nsize: %d\nlive cells: %d\n",
		board.ID, board.Size, len(board.LiveCells))

	if board.Size > maxRendered {
		for _, c := range board.LiveCells {
			fmt.Fprintf(&b, "  (%d,%d)\n", c.X, c.Y)
		}
		return b.String()
	}

	live := make(map[[2]int]bool, len(board.LiveCells))
	for _, c := range board.LiveCells {
		live[[2]int{c.X, c.Y}] = true
	}
	for y := 0; y < board.Size; y++ {
		for x := 0; x < board.Size; x++ {
			if live[[2]int{x, y}] {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
