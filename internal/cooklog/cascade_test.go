// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package cooklog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/culinarydb"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/storetest"
)

func TestDeleteDishCascades(t *testing.T) {
	mgr, docs, blobs := newTestManager()
	ctx := t.Context()

	for range 3 {
		_, err := mgr.AddMemory(ctx, "user1", "42", "Carbonara", "", culinarydb.MemoryDraft{Rating: 4}, testPhotos(2))
		require.NoError(t, err)
	}
	require.Equal(t, 6, blobs.Len())

	require.NoError(t, mgr.DeleteDish(ctx, "user1", "42"))

	assert.False(t, docs.Doc("users/user1/cookedDishes/42", nil))
	assert.Equal(t, 0, docs.Count("users/user1/cookedDishes/42/memories"))
	assert.Equal(t, 0, blobs.Len())
}

func TestDeleteDishSweepsUnreferencedBlobs(t *testing.T) {
	mgr, _, blobs := newTestManager()
	ctx := t.Context()

	_, err := mgr.AddMemory(ctx, "user1", "42", "Carbonara", "", culinarydb.MemoryDraft{Rating: 4}, nil)
	require.NoError(t, err)
	// An orphan from an earlier failed write, referenced by no document.
	_, err = blobs.Upload(ctx, "users/user1/dishes/42/memories/lost/photo-000.jpeg", "image/jpeg", []byte{1})
	require.NoError(t, err)

	require.NoError(t, mgr.DeleteDish(ctx, "user1", "42"))
	assert.Equal(t, 0, blobs.Len())
}

func TestDeleteDishBlobFailureStillSucceeds(t *testing.T) {
	mgr, docs, blobs := newTestManager()
	ctx := t.Context()
	parent := culinarydb.User("user1").CookedDish("42")

	memoryID, err := mgr.AddMemory(ctx, "user1", "42", "Carbonara", "", culinarydb.MemoryDraft{Rating: 4}, testPhotos(1))
	require.NoError(t, err)
	memory, err := mgr.Memory(ctx, parent, memoryID)
	require.NoError(t, err)
	blobs.DeleteErrs = map[string]error{memory.PhotoURLs[0]: errors.New("backend down")}

	// Documents are the source of truth; the failed blob delete is only
	// logged.
	require.NoError(t, mgr.DeleteDish(ctx, "user1", "42"))
	assert.False(t, docs.Doc("users/user1/cookedDishes/42", nil))
	assert.Contains(t, blobs.DeleteAttempts, memory.PhotoURLs[0])
}

func TestDeleteDishesAggregatesErrors(t *testing.T) {
	mgr, docs, _ := newTestManager()
	ctx := t.Context()

	require.NoError(t, mgr.AddOrIncrement(ctx, "user1", "1", "First", ""))
	require.NoError(t, mgr.AddOrIncrement(ctx, "user1", "2", "Second", ""))

	err := mgr.DeleteDishes(ctx, "user1", []string{"1", "", "2"})
	assert.ErrorIs(t, err, ErrMissingRecipeID)

	// The valid dishes were still deleted.
	assert.False(t, docs.Doc("users/user1/cookedDishes/1", nil))
	assert.False(t, docs.Doc("users/user1/cookedDishes/2", nil))
}

func TestDeleteUserRecipeCascades(t *testing.T) {
	mgr, docs, blobs := newTestManager()
	ctx := t.Context()

	recipeID, err := mgr.CreateUserRecipe(ctx, "user1", "Family stew", "Simmer for hours.", testPhotos(2))
	require.NoError(t, err)
	_, err = mgr.AddUserRecipeMemory(ctx, "user1", recipeID, culinarydb.MemoryDraft{Rating: 5}, testPhotos(1))
	require.NoError(t, err)
	require.Equal(t, 3, blobs.Len())

	require.NoError(t, mgr.DeleteUserRecipe(ctx, "user1", recipeID))

	assert.False(t, docs.Doc("users/user1/userRecipes/"+recipeID, nil))
	assert.Equal(t, 0, docs.Count("users/user1/userRecipes/"+recipeID+"/memories"))
	assert.Equal(t, 0, blobs.Len())
}

func TestDeleteDishMissingIsNoop(t *testing.T) {
	mgr, _, blobs := newTestManager()
	require.NoError(t, mgr.DeleteDish(t.Context(), "user1", "42"))
	assert.Empty(t, blobs.DeleteAttempts)
}

func TestCascadeBatchFailureKeepsBlobs(t *testing.T) {
	docs := storetest.NewDocStore()
	blobs := storetest.NewBlobStore()
	mgr := NewManager(docs, blobs)
	ctx := t.Context()

	_, err := mgr.AddMemory(ctx, "user1", "42", "Carbonara", "", culinarydb.MemoryDraft{Rating: 4}, testPhotos(1))
	require.NoError(t, err)

	docs.TxErr = errors.New("store unavailable")
	require.Error(t, mgr.DeleteDish(ctx, "user1", "42"))

	assert.Equal(t, 1, blobs.Len())
	assert.Empty(t, blobs.DeleteAttempts)
}
