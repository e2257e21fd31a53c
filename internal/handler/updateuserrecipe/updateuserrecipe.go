// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package updateuserrecipe

import (
	"context"
	"fmt"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/auth"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/cooklog"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/images"
)

type Request struct {
	// RecipeID identifies the recipe to update.
	RecipeID string `json:"recipeId"`

	// Title is the new title.
	Title string `json:"title"`

	// Description is the new description.
	Description string `json:"description"`

	// NewPhotoDataURLs are photos to add, encoded as data URLs.
	NewPhotoDataURLs []string `json:"newPhotoDataUrls"`

	// RemovePhotoURLs are stored photo URLs to remove.
	RemovePhotoURLs []string `json:"removePhotoUrls"`
}

type Response struct{}

func NewHandler(cooks *cooklog.Manager) *Handler {
	return &Handler{
		cooks: cooks,
	}
}

type Handler struct {
	cooks *cooklog.Manager
}

// UpdateUserRecipe edits a user recipe's title, description, and photo set.
func (h *Handler) UpdateUserRecipe(ctx context.Context, req *Request) (*Response, error) {
	uid, err := auth.UserID(ctx)
	if err != nil {
		return nil, err
	}
	recipe, err := h.cooks.UserRecipe(ctx, uid, req.RecipeID)
	if err != nil {
		return nil, err
	}
	photos, err := images.PhotosFromDataURLs(req.NewPhotoDataURLs)
	if err != nil {
		return nil, fmt.Errorf("updateuserrecipe: decoding photos: %w", err)
	}
	if err := h.cooks.UpdateUserRecipe(ctx, uid, *recipe, req.Title, req.Description, photos, req.RemovePhotoURLs); err != nil {
		return nil, err
	}
	return &Response{}, nil
}
