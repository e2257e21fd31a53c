// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package listuserrecipes

import (
	"context"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/auth"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/cooklog"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/culinarydb"
)

type Request struct{}

type Response struct {
	// Recipes are the user's own recipes, newest first.
	Recipes []culinarydb.UserRecipe `json:"recipes"`
}

func NewHandler(cooks *cooklog.Manager) *Handler {
	return &Handler{
		cooks: cooks,
	}
}

type Handler struct {
	cooks *cooklog.Manager
}

func (h *Handler) ListUserRecipes(ctx context.Context, _ *Request) (*Response, error) {
	uid, err := auth.UserID(ctx)
	if err != nil {
		return nil, err
	}
	recipes, err := h.cooks.UserRecipes(ctx, uid)
	if err != nil {
		return nil, err
	}
	return &Response{Recipes: recipes}, nil
}
