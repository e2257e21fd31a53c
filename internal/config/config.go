// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package config

import (
	"github.com/curioswitch/go-curiostack/config"
)

// Spoonacular is the configuration for the recipe API.
type Spoonacular struct {
	// BaseURL is the API endpoint, e.g. https://api.spoonacular.com.
	BaseURL string `koanf:"baseurl"`

	// APIKey is the metered API key.
	APIKey string `koanf:"apikey"`
}

// Redis is the configuration for the suggestion cache.
type Redis struct {
	// Address is the host:port of the Redis server.
	Address string `koanf:"address"`

	// Password is the Redis password, if any.
	Password string `koanf:"password"`

	// DB is the Redis database number.
	DB int `koanf:"db"`
}

// Suggestions is the configuration for suggestion fetching.
type Suggestions struct {
	// FetchSize is the number of results fetched per metered API call.
	// Large on purpose: one call serves many in-app pages from cache.
	FetchSize int `koanf:"fetchsize"`
}

type Config struct {
	config.Common

	// Spoonacular is the configuration for the recipe API.
	Spoonacular Spoonacular `koanf:"spoonacular"`

	// Redis is the configuration for the suggestion cache.
	Redis Redis `koanf:"redis"`

	// Suggestions is the configuration for suggestion fetching.
	Suggestions Suggestions `koanf:"suggestions"`
}
