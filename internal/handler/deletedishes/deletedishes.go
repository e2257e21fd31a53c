// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package deletedishes

import (
	"context"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/auth"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/cooklog"
)

type Request struct {
	// RecipeIDs are the catalog dishes to delete, with all of their
	// memories and photos.
	RecipeIDs []string `json:"recipeIds"`
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

// DeleteDishes removes dishes and everything under them. Failures on one
// dish do not stop the others.
func (h *Handler) DeleteDishes(ctx context.Context, req *Request) (*Response, error) {
	uid, err := auth.UserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.cooks.DeleteDishes(ctx, uid, req.RecipeIDs); err != nil {
		return nil, err
	}
	return &Response{}, nil
}
