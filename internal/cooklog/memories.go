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

// AddMemory records a cooking memory for a catalog recipe. Photos are
// uploaded first; if any upload fails the operation aborts and already
// uploaded siblings are cleaned up best-effort. Once all uploads resolve, one
// transaction both upserts the dish counter (same semantics as
// AddOrIncrement) and creates the memory document. If that transaction fails
// the uploads are left as orphans, which is logged and accepted.
func (m *Manager) AddMemory(ctx context.Context, uid, recipeID, title, imageURL string, draft culinarydb.MemoryDraft, photos []Photo) (string, error) {
	ref, err := DishParent(uid, recipeID)
	if err != nil {
		return "", err
	}
	memoryID := m.docs.AllocateID(ref.MemoriesPath())
	urls, err := m.uploadMemoryPhotos(ctx, ref, memoryID, photos, 0)
	if err != nil {
		return "", fmt.Errorf("cooklog: uploading memory photos: %w", err)
	}

	if err := m.docs.RunTransaction(ctx, func(_ context.Context, tx docstore.Tx) error {
		if err := applyCookEvent(tx, ref, recipeID, title, imageURL); err != nil {
			return err
		}
		return tx.Create(ref.MemoryPath(memoryID), memoryData(memoryID, draft, urls))
	}); err != nil {
		slog.WarnContext(ctx, "cooklog: memory write failed after uploads, photos orphaned",
			"memoryId", memoryID, "count", len(urls), "error", err)
		return "", fmt.Errorf("cooklog: creating memory for recipe %s: %w", recipeID, err)
	}
	return memoryID, nil
}

// AddUserRecipeMemory records a cooking memory for a user-authored recipe.
// Same ordering and failure rules as AddMemory; the recipe must already
// exist.
func (m *Manager) AddUserRecipeMemory(ctx context.Context, uid, recipeID string, draft culinarydb.MemoryDraft, photos []Photo) (string, error) {
	ref, err := UserRecipeParent(uid, recipeID)
	if err != nil {
		return "", err
	}
	memoryID := m.docs.AllocateID(ref.MemoriesPath())
	urls, err := m.uploadMemoryPhotos(ctx, ref, memoryID, photos, 0)
	if err != nil {
		return "", fmt.Errorf("cooklog: uploading memory photos: %w", err)
	}

	if err := m.docs.RunTransaction(ctx, func(_ context.Context, tx docstore.Tx) error {
		snap, err := tx.Get(ref.DocPath())
		if err != nil {
			return err
		}
		if !snap.Exists() {
			return ErrUserRecipeNotFound
		}
		if err := tx.Update(ref.DocPath(), []docstore.Update{
			{Field: "timesCooked", Value: docstore.Increment(1)},
		}); err != nil {
			return err
		}
		return tx.Create(ref.MemoryPath(memoryID), memoryData(memoryID, draft, urls))
	}); err != nil {
		slog.WarnContext(ctx, "cooklog: memory write failed after uploads, photos orphaned",
			"memoryId", memoryID, "count", len(urls), "error", err)
		return "", fmt.Errorf("cooklog: creating memory for user recipe %s: %w", recipeID, err)
	}
	return memoryID, nil
}

// UpdateMemory edits a memory's rating, notes, and photo set. Requested blob
// deletions are attempted first but never block the rest of the operation;
// new photos are then uploaded, and the memory document is written as one
// patch. The final photo list is the kept addresses plus the new ones,
// de-duplicated. An address whose delete failed stays only if it was kept.
func (m *Manager) UpdateMemory(ctx context.Context, parent culinarydb.MemoryParent, memory culinarydb.Memory, draft culinarydb.MemoryDraft, newPhotos []Photo, removeURLs []string) error {
	if memory.ID == "" {
		return ErrMissingMemoryID
	}

	for _, url := range removeURLs {
		if err := m.blobs.Delete(ctx, url); err != nil {
			slog.WarnContext(ctx, "cooklog: deleting removed memory photo", "url", url, "error", err)
		}
	}

	kept := make([]string, 0, len(memory.PhotoURLs))
	for _, url := range memory.PhotoURLs {
		if !slices.Contains(removeURLs, url) {
			kept = append(kept, url)
		}
	}

	uploaded, err := m.uploadMemoryPhotos(ctx, parent, memory.ID, newPhotos, len(kept))
	if err != nil {
		return fmt.Errorf("cooklog: uploading new memory photos: %w", err)
	}

	final := kept
	for _, url := range uploaded {
		if !slices.Contains(final, url) {
			final = append(final, url)
		}
	}

	if err := m.docs.Update(ctx, parent.MemoryPath(memory.ID), []docstore.Update{
		{Field: "rating", Value: draft.Rating},
		{Field: "notes", Value: draft.Notes},
		{Field: "photoUrls", Value: final},
	}); err != nil {
		return fmt.Errorf("cooklog: updating memory %s: %w", memory.ID, err)
	}
	return nil
}

// DeleteMemories removes the given memories and decrements the parent
// counter by their count in one atomic batch. Blob addresses are collected
// best-effort before the batch and deleted best-effort only after it
// commits; a failed pre-fetch never blocks the document deletes.
func (m *Manager) DeleteMemories(ctx context.Context, parent culinarydb.MemoryParent, memoryIDs []string) error {
	if len(memoryIDs) == 0 {
		return nil
	}
	for _, id := range memoryIDs {
		if id == "" {
			return ErrMissingMemoryID
		}
	}

	var blobURLs []string
	for _, id := range memoryIDs {
		snap, err := m.docs.Get(ctx, parent.MemoryPath(id))
		if err != nil {
			slog.WarnContext(ctx, "cooklog: fetching memory before delete", "memoryId", id, "error", err)
			continue
		}
		if !snap.Exists() {
			continue
		}
		var memory culinarydb.Memory
		if err := snap.DataTo(&memory); err != nil {
			slog.WarnContext(ctx, "cooklog: unmarshalling memory before delete", "memoryId", id, "error", err)
			continue
		}
		blobURLs = append(blobURLs, memory.PhotoURLs...)
	}

	batch := m.docs.Batch()
	for _, id := range memoryIDs {
		batch.Delete(parent.MemoryPath(id))
	}
	batch.Update(parent.DocPath(), []docstore.Update{
		{Field: "timesCooked", Value: docstore.Increment(-int64(len(memoryIDs)))},
	})
	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("cooklog: deleting %d memories: %w", len(memoryIDs), err)
	}

	m.cleanupBlobs(ctx, blobURLs)
	return nil
}

// Memory reads one memory of the parent.
func (m *Manager) Memory(ctx context.Context, parent culinarydb.MemoryParent, memoryID string) (*culinarydb.Memory, error) {
	if memoryID == "" {
		return nil, ErrMissingMemoryID
	}
	snap, err := m.docs.Get(ctx, parent.MemoryPath(memoryID))
	if err != nil {
		return nil, fmt.Errorf("cooklog: getting memory %s: %w", memoryID, err)
	}
	if !snap.Exists() {
		return nil, ErrMemoryNotFound
	}
	var memory culinarydb.Memory
	if err := snap.DataTo(&memory); err != nil {
		return nil, fmt.Errorf("cooklog: unmarshalling memory %s: %w", memoryID, err)
	}
	return &memory, nil
}

// Memories returns the parent's memories, newest first.
func (m *Manager) Memories(ctx context.Context, parent culinarydb.MemoryParent) ([]culinarydb.Memory, error) {
	snaps, err := m.docs.List(ctx, parent.MemoriesPath(), "createdAt", true)
	if err != nil {
		return nil, fmt.Errorf("cooklog: listing memories: %w", err)
	}
	memories := make([]culinarydb.Memory, 0, len(snaps))
	for _, snap := range snaps {
		var memory culinarydb.Memory
		if err := snap.DataTo(&memory); err != nil {
			return nil, fmt.Errorf("cooklog: unmarshalling memory: %w", err)
		}
		memories = append(memories, memory)
	}
	return memories, nil
}

// uploadMemoryPhotos uploads all photos for a memory in parallel, returning
// their addresses in photo order. On any failure the successful siblings are
// cleaned up best-effort and the first error is returned.
func (m *Manager) uploadMemoryPhotos(ctx context.Context, parent culinarydb.MemoryParent, memoryID string, photos []Photo, indexBase int) ([]string, error) {
	if len(photos) == 0 {
		return nil, nil
	}
	urls := make([]string, len(photos))
	var grp errgroup.Group
	for i, photo := range photos {
		grp.Go(func() error {
			path := culinarydb.MemoryBlobPath(parent, memoryID, indexBase+i, photo.Ext())
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

func memoryData(memoryID string, draft culinarydb.MemoryDraft, photoURLs []string) map[string]any {
	if photoURLs == nil {
		photoURLs = []string{}
	}
	return map[string]any{
		"id":        memoryID,
		"rating":    draft.Rating,
		"notes":     draft.Notes,
		"photoUrls": photoURLs,
		"createdAt": docstore.ServerTimestamp,
	}
}
