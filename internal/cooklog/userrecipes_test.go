// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package cooklog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserRecipe(t *testing.T) {
	mgr, _, blobs := newTestManager()
	ctx := t.Context()

	recipeID, err := mgr.CreateUserRecipe(ctx, "user1", "Family stew", "Simmer for hours.", testPhotos(2))
	require.NoError(t, err)
	require.NotEmpty(t, recipeID)

	recipe, err := mgr.UserRecipe(ctx, "user1", recipeID)
	require.NoError(t, err)
	assert.Equal(t, recipeID, recipe.ID)
	assert.Equal(t, "Family stew", recipe.Title)
	assert.Equal(t, "Simmer for hours.", recipe.Description)
	assert.Equal(t, int64(0), recipe.TimesCooked)
	assert.False(t, recipe.CreatedAt.IsZero())
	require.Len(t, recipe.PhotoURLs, 2)
	for _, url := range recipe.PhotoURLs {
		assert.True(t, blobs.Has(url))
	}
}

func TestCreateUserRecipeUploadFailureAborts(t *testing.T) {
	mgr, docs, blobs := newTestManager()
	ctx := t.Context()
	blobs.UploadErrs = map[string]error{"photo-001.jpeg": errors.New("disk full")}

	_, err := mgr.CreateUserRecipe(ctx, "user1", "Family stew", "", testPhotos(2))
	require.Error(t, err)

	assert.Equal(t, 0, docs.Count("users/user1/userRecipes"))
	assert.Equal(t, 0, blobs.Len())
}

func TestCreateUserRecipeValidation(t *testing.T) {
	mgr, _, _ := newTestManager()
	_, err := mgr.CreateUserRecipe(t.Context(), "", "Family stew", "", nil)
	assert.ErrorIs(t, err, ErrMissingUser)
}

func TestUpdateUserRecipe(t *testing.T) {
	mgr, _, blobs := newTestManager()
	ctx := t.Context()

	recipeID, err := mgr.CreateUserRecipe(ctx, "user1", "Family stew", "Simmer for hours.", testPhotos(2))
	require.NoError(t, err)
	recipe, err := mgr.UserRecipe(ctx, "user1", recipeID)
	require.NoError(t, err)
	removed := recipe.PhotoURLs[0]
	kept := recipe.PhotoURLs[1]

	err = mgr.UpdateUserRecipe(ctx, "user1", *recipe, "Sunday stew", "Simmer longer.", testPhotos(1), []string{removed})
	require.NoError(t, err)

	updated, err := mgr.UserRecipe(ctx, "user1", recipeID)
	require.NoError(t, err)
	assert.Equal(t, "Sunday stew", updated.Title)
	assert.Equal(t, "Simmer longer.", updated.Description)
	require.Len(t, updated.PhotoURLs, 2)
	assert.Equal(t, kept, updated.PhotoURLs[0])
	assert.NotContains(t, updated.PhotoURLs, removed)
	assert.False(t, blobs.Has(removed))
}

func TestUserRecipeNotFound(t *testing.T) {
	mgr, _, _ := newTestManager()
	_, err := mgr.UserRecipe(t.Context(), "user1", "nope")
	assert.ErrorIs(t, err, ErrUserRecipeNotFound)
}

func TestUserRecipesNewestFirst(t *testing.T) {
	mgr, _, _ := newTestManager()
	ctx := t.Context()

	first, err := mgr.CreateUserRecipe(ctx, "user1", "First", "", nil)
	require.NoError(t, err)
	second, err := mgr.CreateUserRecipe(ctx, "user1", "Second", "", nil)
	require.NoError(t, err)

	recipes, err := mgr.UserRecipes(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, second, recipes[0].ID)
	assert.Equal(t, first, recipes[1].ID)
}
