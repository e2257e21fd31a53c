// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package autocomplete

import (
	"context"
	"fmt"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/recipeapi"
)

// defaultLimit caps completions when the client does not ask for a count.
const defaultLimit = 10

type Request struct {
	// Query is the partial recipe title being typed.
	Query string `json:"query"`

	// Limit is the maximum number of completions to return.
	Limit int `json:"limit"`
}

type Response struct {
	// Results are title completions for the query.
	Results []recipeapi.RecipeSummary `json:"results"`
}

// CompleteAPI resolves recipe title completions.
type CompleteAPI interface {
	Autocomplete(ctx context.Context, query string, number int) ([]recipeapi.RecipeSummary, error)
}

func NewHandler(api CompleteAPI) *Handler {
	return &Handler{
		api: api,
	}
}

type Handler struct {
	api CompleteAPI
}

func (h *Handler) Autocomplete(ctx context.Context, req *Request) (*Response, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	results, err := h.api.Autocomplete(ctx, req.Query, limit)
	if err != nil {
		return nil, fmt.Errorf("autocomplete: completing %q: %w", req.Query, err)
	}
	return &Response{Results: results}, nil
}
