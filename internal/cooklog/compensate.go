// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package cooklog

import (
	"context"
	"log/slog"
)

// cleanupBlobs attempts each compensating blob delete exactly once. Failures
// are logged, never retried, and never surfaced: documents remain the source
// of truth for whether the owning operation happened.
func (m *Manager) cleanupBlobs(ctx context.Context, urls []string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := m.blobs.Delete(ctx, url); err != nil {
			slog.WarnContext(ctx, "cooklog: compensating blob delete failed", "url", url, "error", err)
		}
	}
}

// sweepBlobPrefix deletes any blobs still stored under prefix, catching
// orphans from earlier partial failures. Best-effort only.
func (m *Manager) sweepBlobPrefix(ctx context.Context, prefix string) {
	urls, err := m.blobs.List(ctx, prefix)
	if err != nil {
		slog.WarnContext(ctx, "cooklog: listing blobs for sweep", "prefix", prefix, "error", err)
		return
	}
	m.cleanupBlobs(ctx, urls)
}
