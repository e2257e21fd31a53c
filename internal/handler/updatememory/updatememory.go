// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package updatememory

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

	// UserRecipeID selects a user recipe as the parent instead. Exactly one
	// of RecipeID and UserRecipeID must be set.
	UserRecipeID string `json:"userRecipeId"`

	// MemoryID identifies the memory to update.
	MemoryID string `json:"memoryId"`

	// Rating is the new rating, from 0 to 5.
	Rating float64 `json:"rating"`

	// Notes are the new notes.
	Notes string `json:"notes"`

	// NewPhotoDataURLs are photos to add, encoded as data URLs.
	NewPhotoDataURLs []string `json:"newPhotoDataUrls"`

	// RemovePhotoURLs are stored photo URLs to remove.
	RemovePhotoURLs []string `json:"removePhotoUrls"`
}

type Response struct {
	// Memory is the memory after the update.
	Memory culinarydb.Memory `json:"memory"`
}

func NewHandler(cooks *cooklog.Manager) *Handler {
	return &Handler{
		cooks: cooks,
	}
}

type Handler struct {
	cooks *cooklog.Manager
}

// UpdateMemory edits a memory's rating, notes, and photo set.
func (h *Handler) UpdateMemory(ctx context.Context, req *Request) (*Response, error) {
	uid, err := auth.UserID(ctx)
	if err != nil {
		return nil, err
	}
	parent, err := cooklog.ParentRef(uid, req.RecipeID, req.UserRecipeID)
	if err != nil {
		return nil, err
	}

	memory, err := h.cooks.Memory(ctx, parent, req.MemoryID)
	if err != nil {
		return nil, err
	}

	photos, err := images.PhotosFromDataURLs(req.NewPhotoDataURLs)
	if err != nil {
		return nil, fmt.Errorf("updatememory: decoding photos: %w", err)
	}

	draft := culinarydb.MemoryDraft{
		Rating: req.Rating,
		Notes:  req.Notes,
	}
	if err := h.cooks.UpdateMemory(ctx, parent, *memory, draft, photos, req.RemovePhotoURLs); err != nil {
		return nil, err
	}

	updated, err := h.cooks.Memory(ctx, parent, req.MemoryID)
	if err != nil {
		return nil, err
	}
	return &Response{Memory: *updated}, nil
}
