// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package trackdish

import (
	"context"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/auth"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/cooklog"
)

type Request struct {
	// RecipeID is the catalog recipe to start tracking.
	RecipeID string `json:"recipeId"`

	// Title is the recipe title as shown to the user.
	Title string `json:"title"`

	// ImageURL is the recipe's main image.
	ImageURL string `json:"imageUrl"`
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

// TrackDish ensures a dish document exists without recording a cook event,
// for saving a recipe before it has been cooked.
func (h *Handler) TrackDish(ctx context.Context, req *Request) (*Response, error) {
	uid, err := auth.UserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.cooks.EnsureDish(ctx, uid, req.RecipeID, req.Title, req.ImageURL); err != nil {
		return nil, err
	}
	return &Response{}, nil
}
