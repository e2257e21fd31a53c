// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package cooklog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/culinarydb"
)

func testPhotos(n int) []Photo {
	photos := make([]Photo, n)
	for i := range photos {
		photos[i] = Photo{ContentType: "image/jpeg", Data: []byte{byte(i)}}
	}
	return photos
}

func TestAddMemory(t *testing.T) {
	mgr, docs, blobs := newTestManager()
	ctx := t.Context()

	memoryID, err := mgr.AddMemory(ctx, "user1", "42", "Carbonara", "", culinarydb.MemoryDraft{
		Rating: 4.5,
		Notes:  "Extra pepper next time.",
	}, testPhotos(2))
	require.NoError(t, err)
	require.NotEmpty(t, memoryID)

	var dish culinarydb.CookedDish
	require.True(t, docs.Doc("users/user1/cookedDishes/42", &dish))
	assert.Equal(t, int64(1), dish.TimesCooked)

	memory, err := mgr.Memory(ctx, culinarydb.User("user1").CookedDish("42"), memoryID)
	require.NoError(t, err)
	assert.Equal(t, memoryID, memory.ID)
	assert.InDelta(t, 4.5, memory.Rating, 0.001)
	assert.Equal(t, "Extra pepper next time.", memory.Notes)
	require.Len(t, memory.PhotoURLs, 2)
	for _, url := range memory.PhotoURLs {
		assert.True(t, blobs.Has(url))
	}
	assert.False(t, memory.CreatedAt.IsZero())
}

func TestAddMemoryCountsEveryCook(t *testing.T) {
	mgr, docs, _ := newTestManager()
	ctx := t.Context()

	_, err := mgr.AddMemory(ctx, "user1", "42", "Carbonara", "", culinarydb.MemoryDraft{Rating: 3}, nil)
	require.NoError(t, err)
	_, err = mgr.AddMemory(ctx, "user1", "42", "Carbonara", "", culinarydb.MemoryDraft{Rating: 5}, nil)
	require.NoError(t, err)

	var dish culinarydb.CookedDish
	require.True(t, docs.Doc("users/user1/cookedDishes/42", &dish))
	assert.Equal(t, int64(2), dish.TimesCooked)
	assert.Equal(t, 2, docs.Count("users/user1/cookedDishes/42/memories"))
}

func TestAddMemoryUploadFailureAborts(t *testing.T) {
	mgr, docs, blobs := newTestManager()
	ctx := t.Context()
	blobs.UploadErrs = map[string]error{"photo-001.jpeg": errors.New("disk full")}

	_, err := mgr.AddMemory(ctx, "user1", "42", "Carbonara", "", culinarydb.MemoryDraft{Rating: 4}, testPhotos(2))
	require.Error(t, err)

	// Nothing written: no dish, no memory, and the successful sibling upload
	// was cleaned up.
	assert.False(t, docs.Doc("users/user1/cookedDishes/42", nil))
	assert.Equal(t, 0, docs.Count("users/user1/cookedDishes/42/memories"))
	assert.Equal(t, 0, blobs.Len())
	assert.Len(t, blobs.DeleteAttempts, 1)
}

func TestAddMemoryWriteFailureOrphansPhotos(t *testing.T) {
	mgr, docs, blobs := newTestManager()
	ctx := t.Context()
	docs.TxErr = errors.New("store unavailable")

	_, err := mgr.AddMemory(ctx, "user1", "42", "Carbonara", "", culinarydb.MemoryDraft{Rating: 4}, testPhotos(2))
	require.Error(t, err)

	// Uploaded photos are left in place, not rolled back.
	assert.Equal(t, 2, blobs.Len())
	assert.Empty(t, blobs.DeleteAttempts)
	assert.False(t, docs.Doc("users/user1/cookedDishes/42", nil))
}

func TestAddUserRecipeMemory(t *testing.T) {
	mgr, docs, _ := newTestManager()
	ctx := t.Context()

	recipeID, err := mgr.CreateUserRecipe(ctx, "user1", "Family stew", "Simmer for hours.", nil)
	require.NoError(t, err)

	memoryID, err := mgr.AddUserRecipeMemory(ctx, "user1", recipeID, culinarydb.MemoryDraft{Rating: 5}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, memoryID)

	var recipe culinarydb.UserRecipe
	require.True(t, docs.Doc("users/user1/userRecipes/"+recipeID, &recipe))
	assert.Equal(t, int64(1), recipe.TimesCooked)
}

func TestAddUserRecipeMemoryMissingRecipe(t *testing.T) {
	mgr, _, blobs := newTestManager()
	ctx := t.Context()

	_, err := mgr.AddUserRecipeMemory(ctx, "user1", "nope", culinarydb.MemoryDraft{Rating: 5}, testPhotos(1))
	assert.ErrorIs(t, err, ErrUserRecipeNotFound)
	// The upload happened before the existence check and stays orphaned.
	assert.Equal(t, 1, blobs.Len())
}

func TestUpdateMemory(t *testing.T) {
	mgr, _, blobs := newTestManager()
	ctx := t.Context()
	parent := culinarydb.User("user1").CookedDish("42")

	memoryID, err := mgr.AddMemory(ctx, "user1", "42", "Carbonara", "", culinarydb.MemoryDraft{Rating: 3}, testPhotos(2))
	require.NoError(t, err)
	memory, err := mgr.Memory(ctx, parent, memoryID)
	require.NoError(t, err)
	removed := memory.PhotoURLs[0]
	kept := memory.PhotoURLs[1]

	err = mgr.UpdateMemory(ctx, parent, *memory, culinarydb.MemoryDraft{
		Rating: 4,
		Notes:  "Better with guanciale.",
	}, testPhotos(1), []string{removed})
	require.NoError(t, err)

	updated, err := mgr.Memory(ctx, parent, memoryID)
	require.NoError(t, err)
	assert.InDelta(t, 4, updated.Rating, 0.001)
	assert.Equal(t, "Better with guanciale.", updated.Notes)
	require.Len(t, updated.PhotoURLs, 2)
	assert.Equal(t, kept, updated.PhotoURLs[0])
	assert.NotContains(t, updated.PhotoURLs, removed)
	assert.False(t, blobs.Has(removed))
	assert.True(t, blobs.Has(updated.PhotoURLs[1]))
}

func TestUpdateMemoryRemoveFailureStillDropsAddress(t *testing.T) {
	mgr, _, blobs := newTestManager()
	ctx := t.Context()
	parent := culinarydb.User("user1").CookedDish("42")

	memoryID, err := mgr.AddMemory(ctx, "user1", "42", "Carbonara", "", culinarydb.MemoryDraft{Rating: 3}, testPhotos(1))
	require.NoError(t, err)
	memory, err := mgr.Memory(ctx, parent, memoryID)
	require.NoError(t, err)
	removed := memory.PhotoURLs[0]
	blobs.DeleteErrs = map[string]error{removed: errors.New("backend down")}

	require.NoError(t, mgr.UpdateMemory(ctx, parent, *memory, culinarydb.MemoryDraft{Rating: 3}, nil, []string{removed}))

	updated, err := mgr.Memory(ctx, parent, memoryID)
	require.NoError(t, err)
	// The blob survived the failed delete but its address is gone from the
	// document.
	assert.Empty(t, updated.PhotoURLs)
	assert.True(t, blobs.Has(removed))
}

func TestUpdateMemoryUploadFailureAborts(t *testing.T) {
	mgr, _, blobs := newTestManager()
	ctx := t.Context()
	parent := culinarydb.User("user1").CookedDish("42")

	memoryID, err := mgr.AddMemory(ctx, "user1", "42", "Carbonara", "", culinarydb.MemoryDraft{Rating: 3, Notes: "original"}, nil)
	require.NoError(t, err)
	memory, err := mgr.Memory(ctx, parent, memoryID)
	require.NoError(t, err)

	blobs.UploadErrs = map[string]error{"photo-000.jpeg": errors.New("disk full")}
	err = mgr.UpdateMemory(ctx, parent, *memory, culinarydb.MemoryDraft{Rating: 5, Notes: "changed"}, testPhotos(1), nil)
	require.Error(t, err)

	unchanged, err := mgr.Memory(ctx, parent, memoryID)
	require.NoError(t, err)
	assert.Equal(t, "original", unchanged.Notes)
}

func TestDeleteMemories(t *testing.T) {
	mgr, docs, blobs := newTestManager()
	ctx := t.Context()
	parent := culinarydb.User("user1").CookedDish("42")

	var ids []string
	var urls [][]string
	for range 3 {
		id, err := mgr.AddMemory(ctx, "user1", "42", "Carbonara", "", culinarydb.MemoryDraft{Rating: 4}, testPhotos(2))
		require.NoError(t, err)
		memory, err := mgr.Memory(ctx, parent, id)
		require.NoError(t, err)
		ids = append(ids, id)
		urls = append(urls, memory.PhotoURLs)
	}

	require.NoError(t, mgr.DeleteMemories(ctx, parent, ids[:2]))

	var dish culinarydb.CookedDish
	require.True(t, docs.Doc("users/user1/cookedDishes/42", &dish))
	assert.Equal(t, int64(1), dish.TimesCooked)
	assert.Equal(t, 1, docs.Count("users/user1/cookedDishes/42/memories"))

	for _, url := range append(urls[0], urls[1]...) {
		assert.False(t, blobs.Has(url))
	}
	for _, url := range urls[2] {
		assert.True(t, blobs.Has(url))
	}
}

func TestDeleteMemoriesBatchFailureKeepsEverything(t *testing.T) {
	mgr, docs, blobs := newTestManager()
	ctx := t.Context()
	parent := culinarydb.User("user1").CookedDish("42")

	id, err := mgr.AddMemory(ctx, "user1", "42", "Carbonara", "", culinarydb.MemoryDraft{Rating: 4}, testPhotos(1))
	require.NoError(t, err)

	docs.TxErr = errors.New("store unavailable")
	require.Error(t, mgr.DeleteMemories(ctx, parent, []string{id}))

	// Neither the documents nor the blobs were touched.
	assert.Equal(t, 1, docs.Count("users/user1/cookedDishes/42/memories"))
	assert.Equal(t, 1, blobs.Len())
	assert.Empty(t, blobs.DeleteAttempts)
}

func TestDeleteMemoriesEmptyIsNoop(t *testing.T) {
	mgr, _, _ := newTestManager()
	parent := culinarydb.User("user1").CookedDish("42")
	assert.NoError(t, mgr.DeleteMemories(t.Context(), parent, nil))
}

func TestMemoriesNewestFirst(t *testing.T) {
	mgr, _, _ := newTestManager()
	ctx := t.Context()
	parent := culinarydb.User("user1").CookedDish("42")

	first, err := mgr.AddMemory(ctx, "user1", "42", "Carbonara", "", culinarydb.MemoryDraft{Rating: 3}, nil)
	require.NoError(t, err)
	second, err := mgr.AddMemory(ctx, "user1", "42", "Carbonara", "", culinarydb.MemoryDraft{Rating: 4}, nil)
	require.NoError(t, err)

	memories, err := mgr.Memories(ctx, parent)
	require.NoError(t, err)
	require.Len(t, memories, 2)
	assert.Equal(t, second, memories[0].ID)
	assert.Equal(t, first, memories[1].ID)
}

func TestMemoryNotFound(t *testing.T) {
	mgr, _, _ := newTestManager()
	parent := culinarydb.User("user1").CookedDish("42")
	_, err := mgr.Memory(t.Context(), parent, "nope")
	assert.ErrorIs(t, err, ErrMemoryNotFound)
}
