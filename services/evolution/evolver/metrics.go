// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package evolver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lifegraph_uploads_total",
		Help: "Board uploads by result (stored, duplicate, invalid)",
	}, []string{"result"})

	advanceTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lifegraph_advance_total",
		Help: "Single-step advances by path (cache_hit, computed)",
	}, []string{"path"})

	stepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lifegraph_step_duration_seconds",
		Help:    "Time to compute one generation (cache misses only)",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
	})

	finalStateTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lifegraph_final_state_total",
		Help: "Final-state searches by outcome (still_life, oscillation, budget_exhausted, error)",
	}, []string{"outcome"})

	finalStateIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lifegraph_final_state_iterations",
		Help:    "Advance steps taken per final-state search",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
)
