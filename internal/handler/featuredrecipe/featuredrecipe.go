// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package featuredrecipe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/recipeapi"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/suggest"
)

type Request struct{}

type Response struct {
	// Recipe is today's featured recipe.
	Recipe recipeapi.Recipe `json:"recipe"`
}

// RandomAPI resolves a new featured recipe when the cached one has expired.
type RandomAPI interface {
	Random(ctx context.Context) (*recipeapi.Recipe, error)
}

func NewHandler(api RandomAPI, cache suggest.Cache, coord *suggest.Coordinator) *Handler {
	return &Handler{
		api:   api,
		cache: cache,
		coord: coord,
		now:   time.Now,
	}
}

type Handler struct {
	api   RandomAPI
	cache suggest.Cache
	coord *suggest.Coordinator
	now   func() time.Time
}

// FeaturedRecipe returns the featured recipe for today, rotating at most
// once per calendar day (UTC). The day's pick is cached so repeated calls
// and server restarts do not burn metered API quota, and rotation to a new
// recipe purges every cached suggestion page scoped to the previous one.
func (h *Handler) FeaturedRecipe(ctx context.Context, _ *Request) (*Response, error) {
	day := h.now().UTC().Format(time.DateOnly)

	recipe, err := h.cache.ReadFeatured(ctx, day)
	if err != nil {
		slog.WarnContext(ctx, "featuredrecipe: reading cached pick", "day", day, "error", err)
	}
	if recipe == nil {
		recipe, err = h.api.Random(ctx)
		if err != nil {
			return nil, fmt.Errorf("featuredrecipe: picking recipe: %w", err)
		}
		if err := h.cache.WriteFeatured(ctx, day, recipe); err != nil {
			slog.WarnContext(ctx, "featuredrecipe: caching pick", "day", day, "error", err)
		}
	}

	h.coord.SetFeatured(ctx, recipe)
	return &Response{Recipe: *recipe}, nil
}
