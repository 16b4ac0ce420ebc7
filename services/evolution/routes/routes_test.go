// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifegraph/lifegraph/services/evolution/datatypes"
	"github.com/lifegraph/lifegraph/services/evolution/evolver"
	"github.com/lifegraph/lifegraph/services/evolution/storage/memory"
)

func init() {
	// Reduce noise in test output
	gin.SetMode(gin.TestMode)
}

func newTestRouter(opts Options) *gin.Engine {
	router := gin.New()
	eng := evolver.New(memory.New())
	SetupRoutes(router, eng, opts)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func uploadBody(size int, cells ...[2]int) datatypes.UploadBoardRequest {
	req := datatypes.UploadBoardRequest{Size: size}
	for _, c := range cells {
		req.LiveCells = append(req.LiveCells, datatypes.CellDTO{X: c[0], Y: c[1]})
	}
	return req
}

// TestRouteRegistration verifies the core routes exist and the admin
// group is gated behind its option.
func TestRouteRegistration(t *testing.T) {
	router := newTestRouter(Options{})

	expected := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/metrics"},
		{"POST", "/v1/boards"},
		{"GET", "/v1/boards/:id"},
		{"GET", "/v1/boards/:id/next"},
		{"GET", "/v1/boards/:id/ahead/:steps"},
		{"GET", "/v1/boards/:id/final"},
		{"GET", "/v1/boards/:id/stream"},
	}

	registered := router.Routes()
	for _, want := range expected {
		found := false
		for _, r := range registered {
			if r.Method == want.method && r.Path == want.path {
				found = true
				break
			}
		}
		assert.True(t, found, "route %s %s not registered", want.method, want.path)
	}

	for _, r := range registered {
		assert.NotEqual(t, "/v1/admin/boards", r.Path,
			"admin routes must be gated behind EnableAdmin")
	}
}

// TestUploadAndFetch exercises the happy path end to end.
func TestUploadAndFetch(t *testing.T) {
	router := newTestRouter(Options{})

	w := doJSON(t, router, "POST", "/v1/boards", uploadBody(10, [2]int{1, 1}, [2]int{1, 2}, [2]int{2, 1}, [2]int{2, 2}))
	require.Equal(t, http.StatusCreated, w.Code)

	var up datatypes.UploadBoardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &up))
	require.NotEmpty(t, up.ID)

	w = doJSON(t, router, "GET", "/v1/boards/"+up.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var board datatypes.BoardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	assert.Equal(t, up.ID, board.ID)
	assert.Equal(t, 10, board.Size)
	assert.Len(t, board.LiveCells, 4)
}

// TestUploadRejectsInvalidBoards verifies boundary rejection happens
// with a 400 and a descriptive body.
func TestUploadRejectsInvalidBoards(t *testing.T) {
	router := newTestRouter(Options{})

	tests := []struct {
		name string
		body datatypes.UploadBoardRequest
	}{
		{"size too large", uploadBody(2000)},
		{"cell out of bounds", uploadBody(10, [2]int{15, 15})},
		{"size zero", uploadBody(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, "POST", "/v1/boards", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp datatypes.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

// TestNextEndpoint verifies single-step advance over HTTP, including
// 404 for unknown ids.
func TestNextEndpoint(t *testing.T) {
	router := newTestRouter(Options{})

	w := doJSON(t, router, "POST", "/v1/boards", uploadBody(10, [2]int{1, 0}, [2]int{1, 1}, [2]int{1, 2}))
	require.Equal(t, http.StatusCreated, w.Code)
	var up datatypes.UploadBoardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &up))

	w = doJSON(t, router, "GET", "/v1/boards/"+up.ID+"/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var board datatypes.BoardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	assert.NotEqual(t, up.ID, board.ID)
	assert.Len(t, board.LiveCells, 3)

	w = doJSON(t, router, "GET", "/v1/boards/deadbeef/next", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestAheadEndpoint verifies multi-step advance and steps validation.
func TestAheadEndpoint(t *testing.T) {
	router := newTestRouter(Options{})

	w := doJSON(t, router, "POST", "/v1/boards", uploadBody(10, [2]int{1, 0}, [2]int{1, 1}, [2]int{1, 2}))
	require.Equal(t, http.StatusCreated, w.Code)
	var up datatypes.UploadBoardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &up))

	// Two steps return the blinker to its original phase.
	w = doJSON(t, router, "GET", fmt.Sprintf("/v1/boards/%s/ahead/2", up.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var board datatypes.BoardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	assert.Equal(t, up.ID, board.ID)

	w = doJSON(t, router, "GET", fmt.Sprintf("/v1/boards/%s/ahead/0", up.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "GET", fmt.Sprintf("/v1/boards/%s/ahead/abc", up.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestFinalEndpoint verifies the success and oscillation outcomes,
// including the structured 422 body.
func TestFinalEndpoint(t *testing.T) {
	router := newTestRouter(Options{})

	// Still life succeeds.
	w := doJSON(t, router, "POST", "/v1/boards", uploadBody(10, [2]int{1, 1}, [2]int{1, 2}, [2]int{2, 1}, [2]int{2, 2}))
	require.Equal(t, http.StatusCreated, w.Code)
	var up datatypes.UploadBoardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &up))

	w = doJSON(t, router, "GET", "/v1/boards/"+up.ID+"/final", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var final datatypes.FinalStateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &final))
	assert.Equal(t, "still_life", final.Kind)
	assert.Equal(t, 1, final.Period)
	assert.Equal(t, up.ID, final.ID)

	// Blinker oscillates: 422 with a machine-readable reason.
	w = doJSON(t, router, "POST", "/v1/boards", uploadBody(10, [2]int{1, 0}, [2]int{1, 1}, [2]int{1, 2}))
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &up))

	w = doJSON(t, router, "GET", "/v1/boards/"+up.ID+"/final", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var errResp datatypes.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "oscillation", errResp.Reason)

	// Unknown id is 404.
	w = doJSON(t, router, "GET", "/v1/boards/deadbeef/final", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestAdminClear verifies the gated bulk clear wipes uploads.
func TestAdminClear(t *testing.T) {
	router := newTestRouter(Options{EnableAdmin: true})

	w := doJSON(t, router, "POST", "/v1/boards", uploadBody(10, [2]int{1, 1}))
	require.Equal(t, http.StatusCreated, w.Code)
	var up datatypes.UploadBoardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &up))

	w = doJSON(t, router, "DELETE", "/v1/admin/boards", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/v1/boards/"+up.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestHealthEndpoint verifies liveness reporting.
func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(Options{})
	w := doJSON(t, router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestRateLimit verifies a tight limit returns 429 once exhausted.
func TestRateLimit(t *testing.T) {
	router := newTestRouter(Options{RateLimitRPS: 1, RateLimitBurst: 2})

	codes := make(map[int]int)
	for i := 0; i < 5; i++ {
		w := doJSON(t, router, "GET", "/health", nil)
		codes[w.Code]++
	}
	assert.Greater(t, codes[http.StatusTooManyRequests], 0)
	assert.Greater(t, codes[http.StatusOK], 0)
}
