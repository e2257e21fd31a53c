// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package listdishes

import (
	"context"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/auth"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/cooklog"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/culinarydb"
)

type Request struct{}

type Response struct {
	// Dishes are the user's cooked dishes, most recently cooked first.
	Dishes []culinarydb.CookedDish `json:"dishes"`
}

func NewHandler(cooks *cooklog.Manager) *Handler {
	return &Handler{
		cooks: cooks,
	}
}

type Handler struct {
	cooks *cooklog.Manager
}

func (h *Handler) ListDishes(ctx context.Context, _ *Request) (*Response, error) {
	uid, err := auth.UserID(ctx)
	if err != nil {
		return nil, err
	}
	dishes, err := h.cooks.Dishes(ctx, uid)
	if err != nil {
		return nil, err
	}
	return &Response{Dishes: dishes}, nil
}
