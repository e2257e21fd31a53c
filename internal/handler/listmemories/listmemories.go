// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package listmemories

import (
	"context"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/auth"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/cooklog"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/culinarydb"
)

type Request struct {
	// RecipeID selects a catalog dish's memories.
	RecipeID string `json:"recipeId"`

	// UserRecipeID selects a user recipe's memories instead. Exactly one of
	// RecipeID and UserRecipeID must be set.
	UserRecipeID string `json:"userRecipeId"`
}

type Response struct {
	// Memories are the cooking memories, newest first.
	Memories []culinarydb.Memory `json:"memories"`
}

func NewHandler(cooks *cooklog.Manager) *Handler {
	return &Handler{
		cooks: cooks,
	}
}

type Handler struct {
	cooks *cooklog.Manager
}

func (h *Handler) ListMemories(ctx context.Context, req *Request) (*Response, error) {
	uid, err := auth.UserID(ctx)
	if err != nil {
		return nil, err
	}
	parent, err := cooklog.ParentRef(uid, req.RecipeID, req.UserRecipeID)
	if err != nil {
		return nil, err
	}
	memories, err := h.cooks.Memories(ctx, parent)
	if err != nil {
		return nil, err
	}
	return &Response{Memories: memories}, nil
}
