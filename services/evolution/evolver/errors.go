// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package evolver

import "fmt"

// StabilityReason classifies why a final-state search did not reach a
// period-1 fixed point.
type StabilityReason string

const (
	// ReasonOscillation means a previously seen state was revisited.
	// Any revisit counts, whatever the true cycle length; only the
	// period-1 fixed point is recognized as stable.
	ReasonOscillation StabilityReason = "oscillation"

	// ReasonBudgetExhausted means the iteration budget ran out before
	// a fixed point or a revisit was observed.
	ReasonBudgetExhausted StabilityReason = "budget_exhausted"
)

// StabilityError is a domain outcome, not a fault: the final-state
// search ended without reaching a still life. Callers are expected to
// branch on Reason rather than treat this as exceptional.
type StabilityError struct {
	// Reason says how the search ended.
	Reason StabilityReason

	// Iterations is how many advance steps were taken before the
	// search ended.
	Iterations int
}

func (e *StabilityError) Error() string {
	switch e.Reason {
	case ReasonOscillation:
		return fmt.Sprintf("board does not reach a stable conclusion: oscillates (detected after %d steps)", e.Iterations)
	case ReasonBudgetExhausted:
		return fmt.Sprintf("board did not stabilize within %d steps", e.Iterations)
	default:
		return fmt.Sprintf("final-state search failed: %s", e.Reason)
	}
}
