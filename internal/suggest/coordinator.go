// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package suggest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/recipeapi"
)

var (
	// ErrNoFeatured is returned when a section is requested before a
	// featured recipe has been set.
	ErrNoFeatured = errors.New("suggest: no featured recipe set")
	// ErrUnknownSection is returned for a section the featured recipe did
	// not seed.
	ErrUnknownSection = errors.New("suggest: unknown section")
)

// Status is the lifecycle state of a suggestion section.
type Status int

const (
	// StatusLoading is the initial state before the first page resolves.
	StatusLoading Status = iota
	// StatusSuccess holds at least the first page of recipes.
	StatusSuccess
	// StatusError means the first page could not be loaded.
	StatusError
	// StatusLoadingMore is Success with a further page in flight.
	StatusLoadingMore
)

// SearchAPI is the remote search surface the coordinator needs.
type SearchAPI interface {
	Search(ctx context.Context, filter recipeapi.Filter, number, offset int) (*recipeapi.SearchPage, error)
}

// SectionState is a read-only snapshot of one suggestion section. Recipes
// accumulated so far are never dropped by a failed later page; PageErr
// annotates such a failure instead.
type SectionState struct {
	Filter      recipeapi.Filter
	Status      Status
	Recipes     []recipeapi.RecipeSummary
	Offset      int
	CanLoadMore bool
	PageErr     string
}

type section struct {
	filter      recipeapi.Filter
	status      Status
	recipes     []recipeapi.RecipeSummary
	pageSize    int
	canLoadMore bool
	pageErr     string
}

// Coordinator owns the suggestion sections for the current featured recipe
// and the policy for when the local cache or the metered remote API is
// consulted. All methods are safe for concurrent use; no lock is held across
// a network or cache call.
type Coordinator struct {
	api       SearchAPI
	cache     Cache
	fetchSize int

	mu       sync.Mutex
	featured *recipeapi.Recipe
	sections map[recipeapi.Filter]*section
}

// NewCoordinator returns a coordinator that fetches fetchSize results per
// metered API call. fetchSize is deliberately large (the API meters per call
// up to a cap) so one call serves many in-app pages from cache.
func NewCoordinator(api SearchAPI, cache Cache, fetchSize int) *Coordinator {
	return &Coordinator{
		api:       api,
		cache:     cache,
		fetchSize: fetchSize,
		sections:  map[recipeapi.Filter]*section{},
	}
}

// SetFeatured installs the featured recipe, seeding one section per cuisine
// and per diet. When the identity changes, all session state and every
// cached page scoped to the previous featured recipe are discarded.
func (c *Coordinator) SetFeatured(ctx context.Context, recipe *recipeapi.Recipe) {
	c.mu.Lock()
	previous := c.featured
	if previous != nil && previous.ID == recipe.ID {
		c.mu.Unlock()
		return
	}
	c.featured = recipe
	c.sections = map[recipeapi.Filter]*section{}
	for _, cuisine := range recipe.Cuisines {
		filter := recipeapi.Filter{Axis: recipeapi.AxisCuisine, Value: cuisine}
		c.sections[filter] = &section{filter: filter, status: StatusLoading}
	}
	for _, diet := range recipe.Diets {
		filter := recipeapi.Filter{Axis: recipeapi.AxisDiet, Value: diet}
		c.sections[filter] = &section{filter: filter, status: StatusLoading}
	}
	c.mu.Unlock()

	// The identity the cached rows are scoped to is itself persisted, so a
	// rotation that spans a process restart still purges the retired
	// recipe's rows.
	previousID, err := c.cache.CurrentFeatured(ctx)
	if err != nil {
		slog.WarnContext(ctx, "suggest: reading retired featured identity", "error", err)
	}
	if previousID == 0 && previous != nil {
		previousID = previous.ID
	}
	if previousID != 0 && previousID != recipe.ID {
		if err := c.cache.PurgeFeatured(ctx, previousID); err != nil {
			slog.WarnContext(ctx, "suggest: purging retired featured recipe", "featuredId", previousID, "error", err)
		}
	}
	if err := c.cache.WriteCurrentFeatured(ctx, recipe.ID); err != nil {
		slog.WarnContext(ctx, "suggest: recording featured identity", "featuredId", recipe.ID, "error", err)
	}
}

// Featured returns the current featured recipe, or nil.
func (c *Coordinator) Featured() *recipeapi.Recipe {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.featured
}

// Sections returns snapshots of all seeded sections.
func (c *Coordinator) Sections() []SectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	states := make([]SectionState, 0, len(c.sections))
	for _, s := range c.sections {
		states = append(states, s.snapshot())
	}
	return states
}

// FirstPage resolves the first page of a section. Unless forceRefresh is
// set, a non-empty local cache match is returned directly and never triggers
// a network call; on a miss the full fetch size is requested from the API
// and cached (clear-then-insert) before the result is truncated to limit.
func (c *Coordinator) FirstPage(ctx context.Context, filter recipeapi.Filter, limit int, forceRefresh bool) (SectionState, error) {
	c.mu.Lock()
	featured := c.featured
	if featured == nil {
		c.mu.Unlock()
		return SectionState{}, ErrNoFeatured
	}
	s, ok := c.sections[filter]
	if !ok {
		c.mu.Unlock()
		return SectionState{}, ErrUnknownSection
	}
	s.status = StatusLoading
	s.pageSize = limit
	c.mu.Unlock()

	key := PageKey{FeaturedID: featured.ID, Axis: filter.Axis, Value: filter.Value}

	if !forceRefresh {
		cached, err := c.cache.ReadPage(ctx, key)
		if err != nil {
			// A broken cache degrades to a network fetch.
			slog.WarnContext(ctx, "suggest: reading cached page", "error", err)
		}
		if len(cached) > 0 {
			return c.completeFirstPage(s, truncate(cached, limit), limit), nil
		}
	}

	page, err := c.api.Search(ctx, filter, c.fetchSize, 0)
	if err != nil {
		c.mu.Lock()
		s.status = StatusError
		s.pageErr = err.Error()
		state := s.snapshot()
		c.mu.Unlock()
		return state, fmt.Errorf("suggest: fetching first page: %w", err)
	}
	if len(page.Results) > 0 {
		if err := c.cache.WritePage(ctx, key, page.Results); err != nil {
			slog.WarnContext(ctx, "suggest: writing cached page", "error", err)
		}
	}
	return c.completeFirstPage(s, truncate(page.Results, limit), limit), nil
}

// LoadMore fetches the next page for a section directly from the API with
// the running offset. Later pages are never cached. On failure the recipes
// accumulated so far are retained and the failure is annotated on the
// returned state.
func (c *Coordinator) LoadMore(ctx context.Context, filter recipeapi.Filter) (SectionState, error) {
	c.mu.Lock()
	if c.featured == nil {
		c.mu.Unlock()
		return SectionState{}, ErrNoFeatured
	}
	s, ok := c.sections[filter]
	if !ok {
		c.mu.Unlock()
		return SectionState{}, ErrUnknownSection
	}
	if s.status != StatusSuccess {
		state := s.snapshot()
		c.mu.Unlock()
		return state, fmt.Errorf("suggest: section %s=%s is not ready for more pages", filter.Axis, filter.Value)
	}
	s.status = StatusLoadingMore
	offset := len(s.recipes)
	pageSize := s.pageSize
	c.mu.Unlock()

	page, err := c.api.Search(ctx, filter, pageSize, offset)

	c.mu.Lock()
	defer c.mu.Unlock()
	s.status = StatusSuccess
	if err != nil {
		s.pageErr = err.Error()
		return s.snapshot(), fmt.Errorf("suggest: fetching more suggestions: %w", err)
	}
	s.pageErr = ""
	s.recipes = append(s.recipes, page.Results...)
	s.canLoadMore = len(page.Results) == pageSize
	return s.snapshot(), nil
}

func (c *Coordinator) completeFirstPage(s *section, recipes []recipeapi.RecipeSummary, limit int) SectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	s.status = StatusSuccess
	s.pageErr = ""
	s.recipes = recipes
	s.canLoadMore = len(recipes) == limit
	return s.snapshot()
}

func truncate(recipes []recipeapi.RecipeSummary, limit int) []recipeapi.RecipeSummary {
	if limit > 0 && len(recipes) > limit {
		return recipes[:limit]
	}
	return recipes
}

func (s *section) snapshot() SectionState {
	return SectionState{
		Filter:      s.filter,
		Status:      s.status,
		Recipes:     append([]recipeapi.RecipeSummary(nil), s.recipes...),
		Offset:      len(s.recipes),
		CanLoadMore: s.canLoadMore,
		PageErr:     s.pageErr,
	}
}
