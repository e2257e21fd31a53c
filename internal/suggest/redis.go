// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/recipeapi"
)

// featuredTTL bounds how long stale featured detail can linger; suggestion
// pages themselves are purged by identity, not expiry.
const featuredTTL = 48 * time.Hour

// NewRedisCache returns a Cache backed by Redis. Pages are stored as lists
// so the item's position index determines read order, and every page key is
// tracked in a per-featured-recipe set to make identity purges exact.
func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

type redisCache struct {
	client *redis.Client
}

func (c *redisCache) ReadPage(ctx context.Context, key PageKey) ([]recipeapi.RecipeSummary, error) {
	rows, err := c.client.LRange(ctx, pageListKey(key), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("suggest: reading cached page %s: %w", pageListKey(key), err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	items := make([]recipeapi.RecipeSummary, len(rows))
	for i, row := range rows {
		if err := json.Unmarshal([]byte(row), &items[i]); err != nil {
			return nil, fmt.Errorf("suggest: unmarshalling cached row %d of %s: %w", i, pageListKey(key), err)
		}
	}
	return items, nil
}

func (c *redisCache) WritePage(ctx context.Context, key PageKey, items []recipeapi.RecipeSummary) error {
	listKey := pageListKey(key)
	rows := make([]any, len(items))
	for i, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("suggest: marshalling row %d of %s: %w", i, listKey, err)
		}
		rows[i] = b
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, listKey)
	if len(rows) > 0 {
		pipe.RPush(ctx, listKey, rows...)
	}
	pipe.SAdd(ctx, featuredSetKey(key.FeaturedID), listKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("suggest: writing cached page %s: %w", listKey, err)
	}
	return nil
}

func (c *redisCache) PurgeFeatured(ctx context.Context, featuredID int64) error {
	setKey := featuredSetKey(featuredID)
	listKeys, err := c.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("suggest: listing cached pages for featured %d: %w", featuredID, err)
	}
	keys := append(listKeys, setKey)
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("suggest: purging cached pages for featured %d: %w", featuredID, err)
	}
	return nil
}

func (c *redisCache) CurrentFeatured(ctx context.Context) (int64, error) {
	raw, err := c.client.Get(ctx, currentFeaturedKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("suggest: reading current featured identity: %w", err)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("suggest: parsing current featured identity %q: %w", raw, err)
	}
	return id, nil
}

func (c *redisCache) WriteCurrentFeatured(ctx context.Context, featuredID int64) error {
	if err := c.client.Set(ctx, currentFeaturedKey, strconv.FormatInt(featuredID, 10), 0).Err(); err != nil {
		return fmt.Errorf("suggest: recording current featured identity: %w", err)
	}
	return nil
}

func (c *redisCache) ReadFeatured(ctx context.Context, day string) (*recipeapi.Recipe, error) {
	raw, err := c.client.Get(ctx, featuredDayKey(day)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("suggest: reading featured recipe for %s: %w", day, err)
	}
	var recipe recipeapi.Recipe
	if err := json.Unmarshal([]byte(raw), &recipe); err != nil {
		return nil, fmt.Errorf("suggest: unmarshalling featured recipe for %s: %w", day, err)
	}
	return &recipe, nil
}

func (c *redisCache) WriteFeatured(ctx context.Context, day string, recipe *recipeapi.Recipe) error {
	b, err := json.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("suggest: marshalling featured recipe for %s: %w", day, err)
	}
	if err := c.client.Set(ctx, featuredDayKey(day), b, featuredTTL).Err(); err != nil {
		return fmt.Errorf("suggest: writing featured recipe for %s: %w", day, err)
	}
	return nil
}

func pageListKey(key PageKey) string {
	return fmt.Sprintf("suggest:%d:%s:%s", key.FeaturedID, key.Axis, key.Value)
}

func featuredSetKey(featuredID int64) string {
	return fmt.Sprintf("suggest:%d:pages", featuredID)
}

func featuredDayKey(day string) string {
	return "featured:" + day
}

// currentFeaturedKey points at the featured identity the page rows are
// scoped to. No TTL: it is overwritten on every rotation.
const currentFeaturedKey = "featured:current"
