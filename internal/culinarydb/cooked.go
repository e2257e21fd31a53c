// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

// Package culinarydb defines the documents stored in Firestore for
// CulinaryExplorer and the typed path builders used to address them.
package culinarydb

import "time"

// CookedDish tracks how many times a user has cooked a catalog recipe. There
// is exactly one document per (user, recipe) pair and the document ID is the
// recipe ID.
type CookedDish struct {
	// RecipeID is the catalog recipe ID in string form.
	RecipeID string `firestore:"recipeId" json:"recipeId"`

	// Title is the recipe title as last seen by the client.
	Title string `firestore:"title" json:"title"`

	// ImageURL is the URL for the recipe's main image. Empty when the
	// recipe has no image.
	ImageURL string `firestore:"imageUrl" json:"imageUrl"`

	// TimesCooked is the number of cook events logged for the recipe.
	// Always written as a relative increment, never as a client value.
	TimesCooked int64 `firestore:"timesCooked" json:"timesCooked"`

	// FirstCookedAt is the server time the document was first created.
	FirstCookedAt time.Time `firestore:"firstCookedAt" json:"firstCookedAt"`

	// LastCookedAt is the server time of the most recent cook event. Zero
	// when the recipe was only tracked, never cooked.
	LastCookedAt time.Time `firestore:"lastCookedAt" json:"lastCookedAt"`
}

// Memory is one recorded cooking experience, stored in the memories
// subcollection of a CookedDish or a UserRecipe.
type Memory struct {
	// ID is the store-assigned identifier of the memory. Stable once
	// assigned.
	ID string `firestore:"id" json:"id"`

	// Rating is the user's rating for this cook, from 0 to 5.
	Rating float64 `firestore:"rating" json:"rating"`

	// Notes are the user's free-form notes about this cook.
	Notes string `firestore:"notes" json:"notes"`

	// PhotoURLs are the blob addresses of the memory's photos, in display
	// order.
	PhotoURLs []string `firestore:"photoUrls" json:"photoUrls"`

	// CreatedAt is the server time the memory was created.
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}

// MemoryDraft is the user-provided content of a new or updated memory before
// photos have been uploaded.
type MemoryDraft struct {
	// Rating is the user's rating, from 0 to 5.
	Rating float64 `json:"rating"`

	// Notes are the user's free-form notes.
	Notes string `json:"notes"`
}

// UserRecipe is a recipe authored by the user rather than taken from the
// catalog. It owns a memories subcollection with the same shape as a
// CookedDish's.
type UserRecipe struct {
	// ID is the store-assigned identifier of the recipe.
	ID string `firestore:"id" json:"id"`

	// Title is the recipe title.
	Title string `firestore:"title" json:"title"`

	// Description is the free-form recipe text.
	Description string `firestore:"description" json:"description"`

	// PhotoURLs are the blob addresses of the recipe's own photos, in
	// display order.
	PhotoURLs []string `firestore:"photoUrls" json:"photoUrls"`

	// TimesCooked is the number of cook events logged for the recipe.
	TimesCooked int64 `firestore:"timesCooked" json:"timesCooked"`

	// CreatedAt is the server time the recipe was created.
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}
