// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

// Package httpapi adapts the typed request/response handlers to JSON over
// HTTP, with one error mapping shared by every operation.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/auth"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/cooklog"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/recipeapi"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/suggest"
)

// Handle registers a typed POST handler at pattern. The request body is
// decoded as JSON into Req; an empty body decodes to the zero Req.
func Handle[Req any, Res any](mux chi.Router, pattern string, fn func(ctx context.Context, req *Req) (*Res, error)) {
	mux.Post(pattern, func(w http.ResponseWriter, r *http.Request) {
		req := new(Req)
		if err := json.NewDecoder(r.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
		res, err := fn(r.Context(), req)
		if err != nil {
			writeError(w, r, statusFor(err), err)
			return
		}
		WriteJSON(w, http.StatusOK, res)
	})
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "httpapi: handling "+r.URL.Path, "error", err)
	}
	WriteJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps the shared error taxonomy to HTTP statuses: missing
// identity, bad arguments, and missing entities are caller errors; anything
// else is a store or API failure surfaced as a server error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated), errors.Is(err, cooklog.ErrMissingUser):
		return http.StatusUnauthorized
	case errors.Is(err, cooklog.ErrMissingRecipeID),
		errors.Is(err, cooklog.ErrMissingMemoryID),
		errors.Is(err, recipeapi.ErrInvalidRecipeID),
		errors.Is(err, recipeapi.ErrMissingQuery):
		return http.StatusBadRequest
	case errors.Is(err, cooklog.ErrUserRecipeNotFound),
		errors.Is(err, cooklog.ErrMemoryNotFound),
		errors.Is(err, suggest.ErrUnknownSection):
		return http.StatusNotFound
	case errors.Is(err, suggest.ErrNoFeatured):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
