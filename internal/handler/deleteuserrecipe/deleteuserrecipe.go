// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package deleteuserrecipe

import (
	"context"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/auth"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/cooklog"
)

type Request struct {
	// RecipeID identifies the user recipe to delete, with all of its
	// memories and photos.
	RecipeID string `json:"recipeId"`
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

func (h *Handler) DeleteUserRecipe(ctx context.Context, req *Request) (*Response, error) {
	uid, err := auth.UserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.cooks.DeleteUserRecipe(ctx, uid, req.RecipeID); err != nil {
		return nil, err
	}
	return &Response{}, nil
}
