// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package deletememories

import (
	"context"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/auth"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/cooklog"
)

type Request struct {
	// RecipeID selects a catalog dish as the memories' parent.
	RecipeID string `json:"recipeId"`

	// UserRecipeID selects a user recipe as the parent instead. Exactly one
	// of RecipeID and UserRecipeID must be set.
	UserRecipeID string `json:"userRecipeId"`

	// MemoryIDs are the memories to delete.
	MemoryIDs []string `json:"memoryIds"`
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

// DeleteMemories removes memories and decrements the parent's cook counter
// by the number removed.
func (h *Handler) DeleteMemories(ctx context.Context, req *Request) (*Response, error) {
	uid, err := auth.UserID(ctx)
	if err != nil {
		return nil, err
	}
	parent, err := cooklog.ParentRef(uid, req.RecipeID, req.UserRecipeID)
	if err != nil {
		return nil, err
	}
	if err := h.cooks.DeleteMemories(ctx, parent, req.MemoryIDs); err != nil {
		return nil, err
	}
	return &Response{}, nil
}
