// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers contains the gin handlers for the evolution service.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lifegraph/lifegraph/services/evolution/datatypes"
	"github.com/lifegraph/lifegraph/services/evolution/engine"
	"github.com/lifegraph/lifegraph/services/evolution/evolver"
	"github.com/lifegraph/lifegraph/services/evolution/storage"
)

// respondError maps domain errors onto HTTP statuses:
//
//	ValidationError -> 400
//	ErrNotFound     -> 404
//	StabilityError  -> 422 (domain outcome, structured body)
//	anything else   -> 500
func respondError(c *gin.Context, err error) {
	var verr *engine.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: verr.Error()})
		return
	}
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, datatypes.ErrorResponse{Error: err.Error()})
		return
	}
	var serr *evolver.StabilityError
	if errors.As(err, &serr) {
		c.JSON(http.StatusUnprocessableEntity, datatypes.ErrorResponse{
			Error:      serr.Error(),
			Reason:     string(serr.Reason),
			Iterations: serr.Iterations,
		})
		return
	}
	c.JSON(http.StatusInternalServerError,
		datatypes.ErrorResponse{Error: "internal error"})
}
