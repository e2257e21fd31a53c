// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package cooklog

import (
	"context"
	"log/slog"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/culinarydb"
)

// WatchDishes streams the user's cooked dishes, most recently cooked first,
// re-delivering the full list on every change. The channel closes when ctx
// is canceled or the underlying subscription fails; nothing fires after
// close.
func (m *Manager) WatchDishes(ctx context.Context, uid string) (<-chan []culinarydb.CookedDish, error) {
	if uid == "" {
		return nil, ErrMissingUser
	}
	events := m.docs.Watch(ctx, culinarydb.User(uid).CookedDishes(), "lastCookedAt", true)
	out := make(chan []culinarydb.CookedDish)
	go func() {
		defer close(out)
		for ev := range events {
			if ev.Err != nil {
				slog.ErrorContext(ctx, "cooklog: dish subscription failed", "error", ev.Err)
				return
			}
			dishes := make([]culinarydb.CookedDish, 0, len(ev.Docs))
			for _, snap := range ev.Docs {
				var dish culinarydb.CookedDish
				if err := snap.DataTo(&dish); err != nil {
					slog.WarnContext(ctx, "cooklog: unmarshalling watched dish", "id", snap.ID(), "error", err)
					continue
				}
				dishes = append(dishes, dish)
			}
			select {
			case out <- dishes:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// WatchMemories streams the parent's memories, newest first, with the same
// delivery and cancellation rules as WatchDishes.
func (m *Manager) WatchMemories(ctx context.Context, parent culinarydb.MemoryParent) <-chan []culinarydb.Memory {
	events := m.docs.Watch(ctx, parent.MemoriesPath(), "createdAt", true)
	out := make(chan []culinarydb.Memory)
	go func() {
		defer close(out)
		for ev := range events {
			if ev.Err != nil {
				slog.ErrorContext(ctx, "cooklog: memory subscription failed", "error", ev.Err)
				return
			}
			memories := make([]culinarydb.Memory, 0, len(ev.Docs))
			for _, snap := range ev.Docs {
				var memory culinarydb.Memory
				if err := snap.DataTo(&memory); err != nil {
					slog.WarnContext(ctx, "cooklog: unmarshalling watched memory", "id", snap.ID(), "error", err)
					continue
				}
				memories = append(memories, memory)
			}
			select {
			case out <- memories:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
