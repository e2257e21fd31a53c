// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package adduserrecipe

import (
	"context"
	"fmt"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/auth"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/cooklog"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/images"
)

type Request struct {
	// Title is the recipe's title.
	Title string `json:"title"`

	// Description is freeform text describing the recipe.
	Description string `json:"description"`

	// PhotoDataURLs are the recipe's photos encoded as data URLs.
	PhotoDataURLs []string `json:"photoDataUrls"`
}

type Response struct {
	// RecipeID identifies the created recipe.
	RecipeID string `json:"recipeId"`
}

func NewHandler(cooks *cooklog.Manager) *Handler {
	return &Handler{
		cooks: cooks,
	}
}

type Handler struct {
	cooks *cooklog.Manager
}

// AddUserRecipe creates a recipe the user authored themselves.
func (h *Handler) AddUserRecipe(ctx context.Context, req *Request) (*Response, error) {
	uid, err := auth.UserID(ctx)
	if err != nil {
		return nil, err
	}
	photos, err := images.PhotosFromDataURLs(req.PhotoDataURLs)
	if err != nil {
		return nil, fmt.Errorf("adduserrecipe: decoding photos: %w", err)
	}
	recipeID, err := h.cooks.CreateUserRecipe(ctx, uid, req.Title, req.Description, photos)
	if err != nil {
		return nil, err
	}
	return &Response{RecipeID: recipeID}, nil
}
