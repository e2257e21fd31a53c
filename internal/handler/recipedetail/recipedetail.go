// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package recipedetail

import (
	"context"
	"fmt"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/recipeapi"
)

type Request struct {
	// RecipeID identifies the recipe to fetch.
	RecipeID int64 `json:"recipeId"`
}

type Response struct {
	// Recipe is the full recipe detail.
	Recipe recipeapi.Recipe `json:"recipe"`
}

// DetailAPI resolves full detail for one recipe.
type DetailAPI interface {
	Recipe(ctx context.Context, id int64) (*recipeapi.Recipe, error)
}

func NewHandler(api DetailAPI) *Handler {
	return &Handler{
		api: api,
	}
}

type Handler struct {
	api DetailAPI
}

func (h *Handler) RecipeDetail(ctx context.Context, req *Request) (*Response, error) {
	recipe, err := h.api.Recipe(ctx, req.RecipeID)
	if err != nil {
		return nil, fmt.Errorf("recipedetail: fetching recipe %d: %w", req.RecipeID, err)
	}
	return &Response{Recipe: *recipe}, nil
}
