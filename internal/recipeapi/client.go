// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

// Package recipeapi is a client for the Spoonacular recipe API. Every call
// consumes metered quota regardless of the number of results requested, so
// callers batch reads into large pages and cache aggressively; the client
// itself never retries.
package recipeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ErrInvalidRecipeID is returned for a non-positive recipe identifier,
// before any quota is spent.
var ErrInvalidRecipeID = errors.New("recipeapi: invalid recipe id")

// ErrMissingQuery is returned for a blank autocomplete query, before any
// quota is spent.
var ErrMissingQuery = errors.New("recipeapi: missing query")

// CategoryAxis selects which recipe attribute a search filters on.
type CategoryAxis string

const (
	// AxisCuisine filters by cuisine, e.g. "italian".
	AxisCuisine CategoryAxis = "cuisine"
	// AxisDiet filters by diet or intolerance, e.g. "vegetarian".
	AxisDiet CategoryAxis = "diet"
)

// Filter is one (axis, value) search filter.
type Filter struct {
	Axis  CategoryAxis
	Value string
}

// RecipeSummary is one search or autocomplete result.
type RecipeSummary struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image"`
}

// SearchPage is one page of search results.
type SearchPage struct {
	Results      []RecipeSummary `json:"results"`
	Offset       int             `json:"offset"`
	Number       int             `json:"number"`
	TotalResults int             `json:"totalResults"`
}

// Recipe is full recipe detail. Cuisines and diets seed the suggestion
// sections for a featured recipe.
type Recipe struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	ImageURL       string   `json:"image"`
	Summary        string   `json:"summary"`
	ReadyInMinutes int      `json:"readyInMinutes"`
	Servings       int      `json:"servings"`
	SourceURL      string   `json:"sourceUrl"`
	Cuisines       []string `json:"cuisines"`
	Diets          []string `json:"diets"`
}

type randomResponse struct {
	Recipes []Recipe `json:"recipes"`
}

// Client calls the Spoonacular API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient returns a client for the API at baseURL authenticating with
// apiKey.
func NewClient(httpClient *http.Client, baseURL string, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// Search returns one page of recipe summaries matching the filter, along
// with the total-result hint used to infer whether more pages may exist.
func (c *Client) Search(ctx context.Context, filter Filter, number, offset int) (*SearchPage, error) {
	params := url.Values{}
	params.Set(string(filter.Axis), filter.Value)
	params.Set("number", strconv.Itoa(number))
	params.Set("offset", strconv.Itoa(offset))

	var page SearchPage
	if err := c.get(ctx, "/recipes/complexSearch", params, &page); err != nil {
		return nil, fmt.Errorf("recipeapi: searching %s=%s: %w", filter.Axis, filter.Value, err)
	}
	return &page, nil
}

// Recipe returns full detail for one recipe.
func (c *Client) Recipe(ctx context.Context, id int64) (*Recipe, error) {
	if id <= 0 {
		return nil, ErrInvalidRecipeID
	}
	var recipe Recipe
	path := fmt.Sprintf("/recipes/%d/information", id)
	if err := c.get(ctx, path, url.Values{}, &recipe); err != nil {
		return nil, fmt.Errorf("recipeapi: getting recipe %d: %w", id, err)
	}
	return &recipe, nil
}

// Random returns one random recipe, used to rotate the featured recipe.
func (c *Client) Random(ctx context.Context) (*Recipe, error) {
	params := url.Values{}
	params.Set("number", "1")

	var res randomResponse
	if err := c.get(ctx, "/recipes/random", params, &res); err != nil {
		return nil, fmt.Errorf("recipeapi: getting random recipe: %w", err)
	}
	if len(res.Recipes) == 0 {
		return nil, fmt.Errorf("recipeapi: random returned no recipes")
	}
	return &res.Recipes[0], nil
}

// Autocomplete returns recipe title completions for a partial query.
func (c *Client) Autocomplete(ctx context.Context, query string, number int) ([]RecipeSummary, error) {
	if query == "" {
		return nil, ErrMissingQuery
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("number", strconv.Itoa(number))

	var results []RecipeSummary
	if err := c.get(ctx, "/recipes/autocomplete", params, &results); err != nil {
		return nil, fmt.Errorf("recipeapi: autocompleting %q: %w", query, err)
	}
	return results, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("apiKey", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
