// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lifegraph/lifegraph/services/evolution/datatypes"
)

// apiClient talks to the evolution service over HTTP.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// apiError carries the service's structured error body alongside the
// HTTP status.
type apiError struct {
	Status int
	Body   datatypes.ErrorResponse
}

func (e *apiError) Error() string {
	if e.Body.Error != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Body.Error)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	cliLog.Debug("api request", "method", method, "path", path,
		"status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode >= 400 {
		apiErr := &apiError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr.Body)
		return apiErr
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *apiClient) Upload(ctx context.Context, req datatypes.UploadBoardRequest) (datatypes.UploadBoardResponse, error) {
	var resp datatypes.UploadBoardResponse
	err := c.do(ctx, http.MethodPost, "/v1/boards", req, &resp)
	return resp, err
}

func (c *apiClient) Next(ctx context.Context, id string) (datatypes.BoardResponse, error) {
	var resp datatypes.BoardResponse
	err := c.do(ctx, http.MethodGet, "/v1/boards/"+id+"/next", nil, &resp)
	return resp, err
}

func (c *apiClient) Ahead(ctx context.Context, id string, steps int) (datatypes.BoardResponse, error) {
	var resp datatypes.BoardResponse
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/boards/%s/ahead/%d", id, steps), nil, &resp)
	return resp, err
}

func (c *apiClient) Final(ctx context.Context, id string) (datatypes.FinalStateResponse, error) {
	var resp datatypes.FinalStateResponse
	err := c.do(ctx, http.MethodGet, "/v1/boards/"+id+"/final", nil, &resp)
	return resp, err
}

func (c *apiClient) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}
