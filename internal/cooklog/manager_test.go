// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package cooklog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/culinarydb"
	"github.com/ColossalErwin/culinaryexplorer-server/internal/storetest"
)

func newTestManager() (*Manager, *storetest.DocStore, *storetest.BlobStore) {
	docs := storetest.NewDocStore()
	blobs := storetest.NewBlobStore()
	return NewManager(docs, blobs), docs, blobs
}

func TestAddOrIncrementCreatesDish(t *testing.T) {
	mgr, docs, _ := newTestManager()
	ctx := t.Context()

	require.NoError(t, mgr.AddOrIncrement(ctx, "user1", "42", "Carbonara", "https://img.example/42.jpg"))

	var dish culinarydb.CookedDish
	require.True(t, docs.Doc("users/user1/cookedDishes/42", &dish))
	assert.Equal(t, "42", dish.RecipeID)
	assert.Equal(t, "Carbonara", dish.Title)
	assert.Equal(t, "https://img.example/42.jpg", dish.ImageURL)
	assert.Equal(t, int64(1), dish.TimesCooked)
	assert.False(t, dish.FirstCookedAt.IsZero())
	assert.False(t, dish.LastCookedAt.IsZero())
}

func TestAddOrIncrementConcurrent(t *testing.T) {
	mgr, docs, _ := newTestManager()
	ctx := t.Context()

	const n = 25
	var wg sync.WaitGroup
	for range n {
		wg.Go(func() {
			assert.NoError(t, mgr.AddOrIncrement(ctx, "user1", "42", "Carbonara", ""))
		})
	}
	wg.Wait()

	var dish culinarydb.CookedDish
	require.True(t, docs.Doc("users/user1/cookedDishes/42", &dish))
	assert.Equal(t, int64(n), dish.TimesCooked)
}

func TestAddOrIncrementPatchesMetadata(t *testing.T) {
	mgr, docs, _ := newTestManager()
	ctx := t.Context()

	require.NoError(t, mgr.AddOrIncrement(ctx, "user1", "42", "Carbonara", "https://img.example/old.jpg"))
	require.NoError(t, mgr.AddOrIncrement(ctx, "user1", "42", "Carbonara Deluxe", ""))

	var dish culinarydb.CookedDish
	require.True(t, docs.Doc("users/user1/cookedDishes/42", &dish))
	assert.Equal(t, "Carbonara Deluxe", dish.Title)
	// A cook event with no image clears the stored one.
	assert.Empty(t, dish.ImageURL)
	assert.Equal(t, int64(2), dish.TimesCooked)
}

func TestAddOrIncrementValidation(t *testing.T) {
	mgr, _, _ := newTestManager()
	ctx := t.Context()

	assert.ErrorIs(t, mgr.AddOrIncrement(ctx, "", "42", "Carbonara", ""), ErrMissingUser)
	assert.ErrorIs(t, mgr.AddOrIncrement(ctx, "user1", "", "Carbonara", ""), ErrMissingRecipeID)
}

func TestEnsureDish(t *testing.T) {
	mgr, docs, _ := newTestManager()
	ctx := t.Context()

	require.NoError(t, mgr.EnsureDish(ctx, "user1", "42", "Carbonara", "https://img.example/42.jpg"))
	require.NoError(t, mgr.EnsureDish(ctx, "user1", "42", "Carbonara", "https://img.example/42.jpg"))

	var dish culinarydb.CookedDish
	require.True(t, docs.Doc("users/user1/cookedDishes/42", &dish))
	assert.Equal(t, int64(0), dish.TimesCooked)
	assert.False(t, dish.FirstCookedAt.IsZero())
	assert.True(t, dish.LastCookedAt.IsZero())
}

func TestEnsureDishNeverClearsImage(t *testing.T) {
	mgr, docs, _ := newTestManager()
	ctx := t.Context()

	require.NoError(t, mgr.EnsureDish(ctx, "user1", "42", "Carbonara", "https://img.example/42.jpg"))
	require.NoError(t, mgr.EnsureDish(ctx, "user1", "42", "Carbonara Deluxe", ""))

	var dish culinarydb.CookedDish
	require.True(t, docs.Doc("users/user1/cookedDishes/42", &dish))
	assert.Equal(t, "Carbonara Deluxe", dish.Title)
	assert.Equal(t, "https://img.example/42.jpg", dish.ImageURL)
}

func TestEnsureDishDoesNotResetCounter(t *testing.T) {
	mgr, docs, _ := newTestManager()
	ctx := t.Context()

	require.NoError(t, mgr.AddOrIncrement(ctx, "user1", "42", "Carbonara", ""))
	require.NoError(t, mgr.EnsureDish(ctx, "user1", "42", "Carbonara", ""))

	var dish culinarydb.CookedDish
	require.True(t, docs.Doc("users/user1/cookedDishes/42", &dish))
	assert.Equal(t, int64(1), dish.TimesCooked)
}

func TestDishes(t *testing.T) {
	mgr, _, _ := newTestManager()
	ctx := t.Context()

	require.NoError(t, mgr.AddOrIncrement(ctx, "user1", "1", "First", ""))
	require.NoError(t, mgr.AddOrIncrement(ctx, "user1", "2", "Second", ""))
	require.NoError(t, mgr.AddOrIncrement(ctx, "user1", "1", "First", ""))

	dishes, err := mgr.Dishes(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, dishes, 2)
	// Most recently cooked first.
	assert.Equal(t, "1", dishes[0].RecipeID)
	assert.Equal(t, "2", dishes[1].RecipeID)

	other, err := mgr.Dishes(ctx, "user2")
	require.NoError(t, err)
	assert.Empty(t, other)
}
