// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package cooklog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/culinarydb"
)

const watchTimeout = 5 * time.Second

// awaitDishes reads updates until the condition holds or the timeout fires.
func awaitDishes(t *testing.T, updates <-chan []culinarydb.CookedDish, cond func([]culinarydb.CookedDish) bool) []culinarydb.CookedDish {
	t.Helper()
	deadline := time.After(watchTimeout)
	for {
		select {
		case dishes, ok := <-updates:
			require.True(t, ok, "updates closed before condition held")
			if cond(dishes) {
				return dishes
			}
		case <-deadline:
			t.Fatal("timed out waiting for dish update")
		}
	}
}

func awaitMemories(t *testing.T, updates <-chan []culinarydb.Memory, cond func([]culinarydb.Memory) bool) []culinarydb.Memory {
	t.Helper()
	deadline := time.After(watchTimeout)
	for {
		select {
		case memories, ok := <-updates:
			require.True(t, ok, "updates closed before condition held")
			if cond(memories) {
				return memories
			}
		case <-deadline:
			t.Fatal("timed out waiting for memory update")
		}
	}
}

func TestWatchDishes(t *testing.T) {
	mgr, _, _ := newTestManager()
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	updates, err := mgr.WatchDishes(ctx, "user1")
	require.NoError(t, err)

	initial := awaitDishes(t, updates, func([]culinarydb.CookedDish) bool { return true })
	assert.Empty(t, initial)

	require.NoError(t, mgr.AddOrIncrement(ctx, "user1", "42", "Carbonara", ""))
	dishes := awaitDishes(t, updates, func(dishes []culinarydb.CookedDish) bool { return len(dishes) == 1 })
	assert.Equal(t, "42", dishes[0].RecipeID)

	cancel()
	for range updates {
	}
}

func TestWatchDishesValidation(t *testing.T) {
	mgr, _, _ := newTestManager()
	_, err := mgr.WatchDishes(t.Context(), "")
	assert.ErrorIs(t, err, ErrMissingUser)
}

func TestWatchMemories(t *testing.T) {
	mgr, _, _ := newTestManager()
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	parent := culinarydb.User("user1").CookedDish("42")

	updates := mgr.WatchMemories(ctx, parent)
	initial := awaitMemories(t, updates, func([]culinarydb.Memory) bool { return true })
	assert.Empty(t, initial)

	memoryID, err := mgr.AddMemory(ctx, "user1", "42", "Carbonara", "", culinarydb.MemoryDraft{Rating: 4}, nil)
	require.NoError(t, err)
	memories := awaitMemories(t, updates, func(memories []culinarydb.Memory) bool { return len(memories) == 1 })
	assert.Equal(t, memoryID, memories[0].ID)

	require.NoError(t, mgr.DeleteMemories(ctx, parent, []string{memoryID}))
	awaitMemories(t, updates, func(memories []culinarydb.Memory) bool { return len(memories) == 0 })

	cancel()
	for range updates {
	}
}
