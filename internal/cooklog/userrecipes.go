// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package cooklog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/culinarydb"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/docstore"
)

// CreateUserRecipe stores a new user-authored recipe. Photos are uploaded
// before the document write with the same abort-and-cleanup rule as memory
// photos; a document write failing after successful uploads leaves orphans,
// logged and accepted.
func (m *Manager) CreateUserRecipe(ctx context.Context, uid, title, description string, photos []Photo) (string, error) {
	if uid == "" {
		return "", ErrMissingUser
	}
	user := culinarydb.User(uid)
	recipeID := m.docs.AllocateID(user.UserRecipes())
	ref := user.UserRecipe(recipeID)

	urls, err := m.uploadRecipePhotos(ctx, ref, photos)
	if err != nil {
		return "", fmt.Errorf("cooklog: uploading user recipe photos: %w", err)
	}
	if urls == nil {
		urls = []string{}
	}

	if err := m.docs.Set(ctx, ref.DocPath(), map[string]any{
		"id":          recipeID,
		"title":       title,
		"description": description,
		"photoUrls":   urls,
		"timesCooked": int64(0),
		"createdAt":   docstore.ServerTimestamp,
	}); err != nil {
		slog.WarnContext(ctx, "cooklog: user recipe write failed after uploads, photos orphaned",
			"recipeId", recipeID, "count", len(urls), "error", err)
		return "", fmt.Errorf("cooklog: creating user recipe: %w", err)
	}
	return recipeID, nil
}

// UpdateUserRecipe edits a user recipe's title, description, and photo set
// with the same ordering rules as UpdateMemory: requested deletes first and
// never blocking, uploads next, then one document patch.
func (m *Manager) UpdateUserRecipe(ctx context.Context, uid string, recipe culinarydb.UserRecipe, title, description string, newPhotos []Photo, removeURLs []string) error {
	ref, err := UserRecipeParent(uid, recipe.ID)
	if err != nil {
		return err
	}

	for _, url := range removeURLs {
		if err := m.blobs.Delete(ctx, url); err != nil {
			slog.WarnContext(ctx, "cooklog: deleting removed recipe photo", "url", url, "error", err)
		}
	}

	kept := make([]string, 0, len(recipe.PhotoURLs))
	for _, url := range recipe.PhotoURLs {
		if !slices.Contains(removeURLs, url) {
			kept = append(kept, url)
		}
	}

	uploaded, err := m.uploadRecipePhotosAt(ctx, ref, newPhotos, len(kept))
	if err != nil {
		return fmt.Errorf("cooklog: uploading new recipe photos: %w", err)
	}

	final := kept
	for _, url := range uploaded {
		if !slices.Contains(final, url) {
			final = append(final, url)
		}
	}

	if err := m.docs.Update(ctx, ref.DocPath(), []docstore.Update{
		{Field: "title", Value: title},
		{Field: "description", Value: description},
		{Field: "photoUrls", Value: final},
	}); err != nil {
		return fmt.Errorf("cooklog: updating user recipe %s: %w", recipe.ID, err)
	}
	return nil
}

// UserRecipe reads one user recipe.
func (m *Manager) UserRecipe(ctx context.Context, uid, recipeID string) (*culinarydb.UserRecipe, error) {
	ref, err := UserRecipeParent(uid, recipeID)
	if err != nil {
		return nil, err
	}
	snap, err := m.docs.Get(ctx, ref.DocPath())
	if err != nil {
		return nil, fmt.Errorf("cooklog: getting user recipe %s: %w", recipeID, err)
	}
	if !snap.Exists() {
		return nil, ErrUserRecipeNotFound
	}
	var recipe culinarydb.UserRecipe
	if err := snap.DataTo(&recipe); err != nil {
		return nil, fmt.Errorf("cooklog: unmarshalling user recipe %s: %w", recipeID, err)
	}
	return &recipe, nil
}

// UserRecipes returns the user's recipes, newest first.
func (m *Manager) UserRecipes(ctx context.Context, uid string) ([]culinarydb.UserRecipe, error) {
	if uid == "" {
		return nil, ErrMissingUser
	}
	snaps, err := m.docs.List(ctx, culinarydb.User(uid).UserRecipes(), "createdAt", true)
	if err != nil {
		return nil, fmt.Errorf("cooklog: listing user recipes: %w", err)
	}
	recipes := make([]culinarydb.UserRecipe, 0, len(snaps))
	for _, snap := range snaps {
		var recipe culinarydb.UserRecipe
		if err := snap.DataTo(&recipe); err != nil {
			return nil, fmt.Errorf("cooklog: unmarshalling user recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

func (m *Manager) uploadRecipePhotos(ctx context.Context, ref culinarydb.UserRecipeRef, photos []Photo) ([]string, error) {
	return m.uploadRecipePhotosAt(ctx, ref, photos, 0)
}

func (m *Manager) uploadRecipePhotosAt(ctx context.Context, ref culinarydb.UserRecipeRef, photos []Photo, indexBase int) ([]string, error) {
	if len(photos) == 0 {
		return nil, nil
	}
	urls := make([]string, len(photos))
	var grp errgroup.Group
	for i, photo := range photos {
		grp.Go(func() error {
			path := culinarydb.RecipeBlobPath(ref, indexBase+i, photo.Ext())
			url, err := m.blobs.Upload(ctx, path, photo.ContentType, photo.Data)
			if err != nil {
				return fmt.Errorf("uploading photo %d: %w", i, err)
			}
			urls[i] = url
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		m.cleanupBlobs(ctx, urls)
		return nil, err
	}
	return urls, nil
}
