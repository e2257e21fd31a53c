// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

// Package cooklog keeps the (parent counter, child memories, child blobs)
// triple consistent for cooked catalog dishes and user-authored recipes.
//
// Counter and document writes that must agree always share one document-store
// transaction or atomic batch. Blob operations sit outside that boundary
// because the blob store has no transactional coupling to the document store;
// partial failures are compensated with one best-effort cleanup attempt and a
// warning log rather than distributed commit.
package cooklog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/blobstore"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/culinarydb"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/docstore"
)

var (
	// ErrMissingUser is returned when no user identity was provided.
	ErrMissingUser = errors.New("cooklog: missing user id")
	// ErrMissingRecipeID is returned for a blank recipe identifier.
	ErrMissingRecipeID = errors.New("cooklog: missing recipe id")
	// ErrMissingMemoryID is returned for a blank memory identifier.
	ErrMissingMemoryID = errors.New("cooklog: missing memory id")
	// ErrUserRecipeNotFound is returned when a memory is added to a user
	// recipe that does not exist.
	ErrUserRecipeNotFound = errors.New("cooklog: user recipe not found")
	// ErrMemoryNotFound is returned when an edited memory does not exist.
	ErrMemoryNotFound = errors.New("cooklog: memory not found")
)

// Photo is a decoded local image ready for upload.
type Photo struct {
	// ContentType is the image MIME type, e.g. "image/jpeg".
	ContentType string

	// Data is the raw image content.
	Data []byte
}

// Ext returns the file extension for the photo's content type.
func (p Photo) Ext() string {
	if ext, ok := strings.CutPrefix(p.ContentType, "image/"); ok {
		return ext
	}
	return ""
}

// Manager owns all writes to cooked dishes, user recipes, their memories, and
// their blobs.
type Manager struct {
	docs  docstore.Store
	blobs blobstore.Store
}

// NewManager returns a manager over the given stores.
func NewManager(docs docstore.Store, blobs blobstore.Store) *Manager {
	return &Manager{
		docs:  docs,
		blobs: blobs,
	}
}

// DishParent returns the memory parent for a cooked catalog dish.
func DishParent(uid, recipeID string) (culinarydb.CookedDishRef, error) {
	if uid == "" {
		return culinarydb.CookedDishRef{}, ErrMissingUser
	}
	if recipeID == "" {
		return culinarydb.CookedDishRef{}, ErrMissingRecipeID
	}
	return culinarydb.User(uid).CookedDish(recipeID), nil
}

// UserRecipeParent returns the memory parent for a user-authored recipe.
func UserRecipeParent(uid, recipeID string) (culinarydb.UserRecipeRef, error) {
	if uid == "" {
		return culinarydb.UserRecipeRef{}, ErrMissingUser
	}
	if recipeID == "" {
		return culinarydb.UserRecipeRef{}, ErrMissingRecipeID
	}
	return culinarydb.User(uid).UserRecipe(recipeID), nil
}

// ParentRef resolves a memory parent from request identifiers: a user recipe
// ID when given, otherwise a catalog recipe ID.
func ParentRef(uid, recipeID, userRecipeID string) (culinarydb.MemoryParent, error) {
	if userRecipeID != "" {
		ref, err := UserRecipeParent(uid, userRecipeID)
		if err != nil {
			return nil, err
		}
		return ref, nil
	}
	ref, err := DishParent(uid, recipeID)
	if err != nil {
		return nil, err
	}
	return ref, nil
}

// AddOrIncrement records one cook event for a catalog recipe. Inside a single
// transaction it creates the dish with a counter of one, or atomically
// increments the counter and refreshes the last-cooked time, patching title
// and image only when they diverge from the stored values. Unlike EnsureDish,
// a blank image here clears a previously stored one.
func (m *Manager) AddOrIncrement(ctx context.Context, uid, recipeID, title, imageURL string) error {
	ref, err := DishParent(uid, recipeID)
	if err != nil {
		return err
	}
	if err := m.docs.RunTransaction(ctx, func(_ context.Context, tx docstore.Tx) error {
		return applyCookEvent(tx, ref, recipeID, title, imageURL)
	}); err != nil {
		return fmt.Errorf("cooklog: recording cook event for recipe %s: %w", recipeID, err)
	}
	return nil
}

// EnsureDish marks a catalog recipe as known without counting a cook event.
// Creating twice is a no-op; an existing dish only has divergent title or
// image patched, and a blank image never clears a stored one.
func (m *Manager) EnsureDish(ctx context.Context, uid, recipeID, title, imageURL string) error {
	ref, err := DishParent(uid, recipeID)
	if err != nil {
		return err
	}
	if err := m.docs.RunTransaction(ctx, func(_ context.Context, tx docstore.Tx) error {
		snap, err := tx.Get(ref.DocPath())
		if err != nil {
			return err
		}
		if !snap.Exists() {
			return tx.Create(ref.DocPath(), map[string]any{
				"recipeId":      recipeID,
				"title":         title,
				"imageUrl":      imageURL,
				"timesCooked":   int64(0),
				"firstCookedAt": docstore.ServerTimestamp,
			})
		}
		var dish culinarydb.CookedDish
		if err := snap.DataTo(&dish); err != nil {
			return err
		}
		var updates []docstore.Update
		if title != "" && dish.Title != title {
			updates = append(updates, docstore.Update{Field: "title", Value: title})
		}
		if imageURL != "" && dish.ImageURL != imageURL {
			updates = append(updates, docstore.Update{Field: "imageUrl", Value: imageURL})
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Update(ref.DocPath(), updates)
	}); err != nil {
		return fmt.Errorf("cooklog: ensuring dish for recipe %s: %w", recipeID, err)
	}
	return nil
}

// applyCookEvent upserts the dish inside tx: create with counter one, or
// increment and refresh lastCookedAt, patching title/image on divergence.
func applyCookEvent(tx docstore.Tx, ref culinarydb.CookedDishRef, recipeID, title, imageURL string) error {
	snap, err := tx.Get(ref.DocPath())
	if err != nil {
		return err
	}
	if !snap.Exists() {
		return tx.Create(ref.DocPath(), map[string]any{
			"recipeId":      recipeID,
			"title":         title,
			"imageUrl":      imageURL,
			"timesCooked":   int64(1),
			"firstCookedAt": docstore.ServerTimestamp,
			"lastCookedAt":  docstore.ServerTimestamp,
		})
	}
	var dish culinarydb.CookedDish
	if err := snap.DataTo(&dish); err != nil {
		return err
	}
	updates := []docstore.Update{
		{Field: "timesCooked", Value: docstore.Increment(1)},
		{Field: "lastCookedAt", Value: docstore.ServerTimestamp},
	}
	if dish.Title != title {
		updates = append(updates, docstore.Update{Field: "title", Value: title})
	}
	if dish.ImageURL != imageURL {
		updates = append(updates, docstore.Update{Field: "imageUrl", Value: imageURL})
	}
	return tx.Update(ref.DocPath(), updates)
}

// Dishes returns the user's cooked dishes, most recently cooked first.
func (m *Manager) Dishes(ctx context.Context, uid string) ([]culinarydb.CookedDish, error) {
	if uid == "" {
		return nil, ErrMissingUser
	}
	snaps, err := m.docs.List(ctx, culinarydb.User(uid).CookedDishes(), "lastCookedAt", true)
	if err != nil {
		return nil, fmt.Errorf("cooklog: listing cooked dishes: %w", err)
	}
	dishes := make([]culinarydb.CookedDish, 0, len(snaps))
	for _, snap := range snaps {
		var dish culinarydb.CookedDish
		if err := snap.DataTo(&dish); err != nil {
			return nil, fmt.Errorf("cooklog: unmarshalling cooked dish: %w", err)
		}
		dishes = append(dishes, dish)
	}
	return dishes, nil
}
