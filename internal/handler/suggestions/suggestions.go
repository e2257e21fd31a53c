// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package suggestions

import (
	"context"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/recipeapi"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/suggest"
)

// Section is the wire form of one suggestion section.
type Section struct {
	// Axis is the attribute the section filters on, "cuisine" or "diet".
	Axis string `json:"axis"`

	// Value is the filter value, e.g. "italian".
	Value string `json:"value"`

	// Status is one of "loading", "success", "error", "loadingMore".
	Status string `json:"status"`

	// Recipes are the suggestions accumulated so far.
	Recipes []recipeapi.RecipeSummary `json:"recipes"`

	// CanLoadMore reports whether a further page may exist.
	CanLoadMore bool `json:"canLoadMore"`

	// PageError describes a failed page load, if any. Recipes loaded before
	// the failure are still present.
	PageError string `json:"pageError,omitempty"`
}

func sectionFromState(state suggest.SectionState) Section {
	return Section{
		Axis:        string(state.Filter.Axis),
		Value:       state.Filter.Value,
		Status:      statusName(state.Status),
		Recipes:     state.Recipes,
		CanLoadMore: state.CanLoadMore,
		PageError:   state.PageErr,
	}
}

func statusName(s suggest.Status) string {
	switch s {
	case suggest.StatusSuccess:
		return "success"
	case suggest.StatusError:
		return "error"
	case suggest.StatusLoadingMore:
		return "loadingMore"
	default:
		return "loading"
	}
}

type FirstPageRequest struct {
	// Axis selects the section, "cuisine" or "diet".
	Axis string `json:"axis"`

	// Value is the section's filter value.
	Value string `json:"value"`

	// Limit is how many recipes the first page should hold.
	Limit int `json:"limit"`

	// ForceRefresh bypasses the cache and refetches from the remote API.
	ForceRefresh bool `json:"forceRefresh"`
}

type FirstPageResponse struct {
	Section Section `json:"section"`
}

type MoreRequest struct {
	// Axis selects the section, "cuisine" or "diet".
	Axis string `json:"axis"`

	// Value is the section's filter value.
	Value string `json:"value"`
}

type MoreResponse struct {
	Section Section `json:"section"`
}

func NewHandler(coord *suggest.Coordinator) *Handler {
	return &Handler{
		coord: coord,
	}
}

type Handler struct {
	coord *suggest.Coordinator
}

// FirstPage loads the first page of one suggestion section, preferring the
// local cache over the metered remote API.
func (h *Handler) FirstPage(ctx context.Context, req *FirstPageRequest) (*FirstPageResponse, error) {
	filter := recipeapi.Filter{Axis: recipeapi.CategoryAxis(req.Axis), Value: req.Value}
	state, err := h.coord.FirstPage(ctx, filter, req.Limit, req.ForceRefresh)
	if err != nil {
		return nil, err
	}
	return &FirstPageResponse{Section: sectionFromState(state)}, nil
}

// More appends the next page to a section that already loaded successfully.
// A failed page keeps the recipes loaded so far.
func (h *Handler) More(ctx context.Context, req *MoreRequest) (*MoreResponse, error) {
	filter := recipeapi.Filter{Axis: recipeapi.CategoryAxis(req.Axis), Value: req.Value}
	state, err := h.coord.LoadMore(ctx, filter)
	if err != nil {
		if state.Status == suggest.StatusSuccess && len(state.Recipes) > 0 {
			// Partial result: the section still has its earlier pages.
			return &MoreResponse{Section: sectionFromState(state)}, nil
		}
		return nil, err
	}
	return &MoreResponse{Section: sectionFromState(state)}, nil
}
