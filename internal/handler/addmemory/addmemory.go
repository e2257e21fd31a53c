// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package addmemory

import (
	"context"
	"fmt"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/auth"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/cooklog"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/culinarydb"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/images"
)

type Request struct {
	// RecipeID selects a catalog dish as the memory's parent.
	RecipeID string `json:"recipeId"`

	// Title is the catalog recipe's title, used when the dish document does
	// not exist yet. Ignored for user recipes.
	Title string `json:"title"`

	// ImageURL is the catalog recipe's main image. Ignored for user recipes.
	ImageURL string `json:"imageUrl"`

	// UserRecipeID selects a user recipe as the parent instead. Exactly one
	// of RecipeID and UserRecipeID must be set.
	UserRecipeID string `json:"userRecipeId"`

	// Rating is the user's rating for this cook, from 0 to 5.
	Rating float64 `json:"rating"`

	// Notes are freeform notes about the cook.
	Notes string `json:"notes"`

	// PhotoDataURLs are photos of the cook encoded as data URLs.
	PhotoDataURLs []string `json:"photoDataUrls"`
}

type Response struct {
	// MemoryID identifies the stored memory.
	MemoryID string `json:"memoryId"`
}

func NewHandler(cooks *cooklog.Manager) *Handler {
	return &Handler{
		cooks: cooks,
	}
}

type Handler struct {
	cooks *cooklog.Manager
}

// AddMemory records a cook event together with a new memory, uploading any
// attached photos.
func (h *Handler) AddMemory(ctx context.Context, req *Request) (*Response, error) {
	uid, err := auth.UserID(ctx)
	if err != nil {
		return nil, err
	}

	photos, err := images.PhotosFromDataURLs(req.PhotoDataURLs)
	if err != nil {
		return nil, fmt.Errorf("addmemory: decoding photos: %w", err)
	}

	draft := culinarydb.MemoryDraft{
		Rating: req.Rating,
		Notes:  req.Notes,
	}

	var memoryID string
	if req.UserRecipeID != "" {
		memoryID, err = h.cooks.AddUserRecipeMemory(ctx, uid, req.UserRecipeID, draft, photos)
	} else {
		memoryID, err = h.cooks.AddMemory(ctx, uid, req.RecipeID, req.Title, req.ImageURL, draft, photos)
	}
	if err != nil {
		return nil, err
	}

	return &Response{MemoryID: memoryID}, nil
}
