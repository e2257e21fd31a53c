// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package cooklog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/culinarydb"
)

// DeleteDish cascade-deletes a cooked dish: all memory documents and the
// parent document go in one atomic batch, then every collected blob address
// is deleted best-effort. Documents are the source of truth, so blob cleanup
// failures do not fail the operation.
func (m *Manager) DeleteDish(ctx context.Context, uid, recipeID string) error {
	ref, err := DishParent(uid, recipeID)
	if err != nil {
		return err
	}
	return m.cascadeDelete(ctx, ref, nil)
}

// DeleteDishes cascade-deletes several dishes sequentially. Success is
// reported only if every dish succeeded; failures are aggregated into one
// error and already-deleted dishes are not restored.
func (m *Manager) DeleteDishes(ctx context.Context, uid string, recipeIDs []string) error {
	var errs []error
	for _, recipeID := range recipeIDs {
		if err := m.DeleteDish(ctx, uid, recipeID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DeleteUserRecipe cascade-deletes a user-authored recipe together with its
// memories and its own photo set.
func (m *Manager) DeleteUserRecipe(ctx context.Context, uid, recipeID string) error {
	ref, err := UserRecipeParent(uid, recipeID)
	if err != nil {
		return err
	}

	// The recipe's own photos only exist on its document; a failed fetch is
	// logged and the document cascade proceeds without them.
	var ownPhotos []string
	if snap, err := m.docs.Get(ctx, ref.DocPath()); err != nil {
		slog.WarnContext(ctx, "cooklog: fetching user recipe before delete", "recipeId", recipeID, "error", err)
	} else if snap.Exists() {
		var recipe culinarydb.UserRecipe
		if err := snap.DataTo(&recipe); err != nil {
			slog.WarnContext(ctx, "cooklog: unmarshalling user recipe before delete", "recipeId", recipeID, "error", err)
		} else {
			ownPhotos = recipe.PhotoURLs
		}
	}

	return m.cascadeDelete(ctx, ref, ownPhotos)
}

// cascadeDelete lists the parent's memories, deletes all memory documents
// plus the parent atomically, then deletes collected blob addresses and
// sweeps the parent's blob prefix for leftovers.
func (m *Manager) cascadeDelete(ctx context.Context, parent culinarydb.MemoryParent, extraBlobURLs []string) error {
	snaps, err := m.docs.List(ctx, parent.MemoriesPath(), "createdAt", false)
	if err != nil {
		return fmt.Errorf("cooklog: listing memories for cascade delete: %w", err)
	}

	blobURLs := append([]string(nil), extraBlobURLs...)
	batch := m.docs.Batch()
	for _, snap := range snaps {
		var memory culinarydb.Memory
		if err := snap.DataTo(&memory); err != nil {
			slog.WarnContext(ctx, "cooklog: unmarshalling memory for cascade delete", "memoryId", snap.ID(), "error", err)
		} else {
			blobURLs = append(blobURLs, memory.PhotoURLs...)
		}
		batch.Delete(parent.MemoryPath(snap.ID()))
	}
	batch.Delete(parent.DocPath())
	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("cooklog: cascade delete of %s: %w", parent.DocPath(), err)
	}

	m.cleanupBlobs(ctx, blobURLs)
	m.sweepBlobPrefix(ctx, parent.BlobPrefix())
	return nil
}
