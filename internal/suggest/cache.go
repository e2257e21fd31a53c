// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

// Package suggest serves recipe-suggestion carousels for the current
// featured recipe through a three-tier lookup: in-memory section state, the
// local page cache, then the metered remote API.
package suggest

import (
	"context"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/recipeapi"
)

// PageKey identifies one cached first page of suggestions.
type PageKey struct {
	// FeaturedID is the featured recipe the suggestions are scoped to.
	FeaturedID int64

	// Axis is the category axis of the section.
	Axis recipeapi.CategoryAxis

	// Value is the category value, e.g. "italian".
	Value string
}

// Cache is the local persistence for first suggestion pages and featured
// recipe detail. Rows for a retired featured recipe are purged explicitly by
// identity, never by expiry.
type Cache interface {
	// ReadPage returns the cached first page for key in position order, or
	// nil on a miss.
	ReadPage(ctx context.Context, key PageKey) ([]recipeapi.RecipeSummary, error)

	// WritePage replaces the cached first page for key with items
	// (clear-then-insert, so a concurrent duplicate write is idempotent).
	WritePage(ctx context.Context, key PageKey, items []recipeapi.RecipeSummary) error

	// PurgeFeatured removes every cached page scoped to the given featured
	// recipe.
	PurgeFeatured(ctx context.Context, featuredID int64) error

	// CurrentFeatured returns the featured recipe identifier the cached
	// pages are scoped to, or 0 when none has been recorded. The record
	// survives process restarts so rotation can always purge the retired
	// identity.
	CurrentFeatured(ctx context.Context) (int64, error)

	// WriteCurrentFeatured records the featured recipe identifier the
	// cached pages are scoped to.
	WriteCurrentFeatured(ctx context.Context, featuredID int64) error

	// ReadFeatured returns the cached featured recipe detail for a
	// rotation day (YYYY-MM-DD), or nil on a miss.
	ReadFeatured(ctx context.Context, day string) (*recipeapi.Recipe, error)

	// WriteFeatured caches the featured recipe detail for a rotation day.
	WriteFeatured(ctx context.Context, day string, recipe *recipeapi.Recipe) error
}
