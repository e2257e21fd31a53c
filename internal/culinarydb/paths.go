// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package culinarydb

import "fmt"

// Document and blob paths are always built through the typed refs below
// rather than ad hoc string concatenation.

// MemoryParent is a document that owns a memories subcollection and a
// timesCooked counter: a cooked catalog dish or a user-authored recipe.
type MemoryParent interface {
	// DocPath is the document path of the parent itself.
	DocPath() string

	// MemoriesPath is the collection path of the parent's memories.
	MemoriesPath() string

	// MemoryPath is the document path of one memory.
	MemoryPath(memoryID string) string

	// BlobPrefix is the object path prefix for blobs owned by the parent.
	BlobPrefix() string
}

// UserRef addresses one user's documents.
type UserRef struct {
	uid string
}

// User returns the ref for the given user ID.
func User(uid string) UserRef {
	return UserRef{uid: uid}
}

func (u UserRef) Path() string {
	return "users/" + u.uid
}

// CookedDishes is the collection path of the user's cooked dishes.
func (u UserRef) CookedDishes() string {
	return u.Path() + "/cookedDishes"
}

// CookedDish returns the ref for one cooked catalog dish. The document ID is
// the recipe ID.
func (u UserRef) CookedDish(recipeID string) CookedDishRef {
	return CookedDishRef{user: u, recipeID: recipeID}
}

// UserRecipes is the collection path of the user's own recipes.
func (u UserRef) UserRecipes() string {
	return u.Path() + "/userRecipes"
}

// UserRecipe returns the ref for one user-authored recipe.
func (u UserRef) UserRecipe(recipeID string) UserRecipeRef {
	return UserRecipeRef{user: u, recipeID: recipeID}
}

// CookedDishRef addresses one cooked catalog dish and its children.
type CookedDishRef struct {
	user     UserRef
	recipeID string
}

func (r CookedDishRef) DocPath() string {
	return r.user.CookedDishes() + "/" + r.recipeID
}

func (r CookedDishRef) MemoriesPath() string {
	return r.DocPath() + "/memories"
}

func (r CookedDishRef) MemoryPath(memoryID string) string {
	return r.MemoriesPath() + "/" + memoryID
}

func (r CookedDishRef) BlobPrefix() string {
	return "users/" + r.user.uid + "/dishes/" + r.recipeID + "/"
}

// UserRecipeRef addresses one user-authored recipe and its children.
type UserRecipeRef struct {
	user     UserRef
	recipeID string
}

func (r UserRecipeRef) DocPath() string {
	return r.user.UserRecipes() + "/" + r.recipeID
}

func (r UserRecipeRef) MemoriesPath() string {
	return r.DocPath() + "/memories"
}

func (r UserRecipeRef) MemoryPath(memoryID string) string {
	return r.MemoriesPath() + "/" + memoryID
}

func (r UserRecipeRef) BlobPrefix() string {
	return "users/" + r.user.uid + "/userRecipes/" + r.recipeID + "/"
}

// MemoryBlobPath is the object path for one photo of a memory. The index
// namespaces sibling uploads of the same memory.
func MemoryBlobPath(parent MemoryParent, memoryID string, index int, ext string) string {
	return parent.BlobPrefix() + "memories/" + memoryID + "/" + photoName(index, ext)
}

// RecipeBlobPath is the object path for one photo of a user recipe itself.
func RecipeBlobPath(r UserRecipeRef, index int, ext string) string {
	return r.BlobPrefix() + photoName(index, ext)
}

func photoName(index int, ext string) string {
	if ext == "" {
		ext = "jpeg"
	}
	return fmt.Sprintf("photo-%03d.%s", index, ext)
}
