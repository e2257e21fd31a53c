// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

// Package blobstore defines the contract this service requires from a remote
// object store for user photos. Addresses are opaque URL strings that
// round-trip through Delete and List.
package blobstore

import "context"

// Store is a remote blob store addressed by durable URL.
type Store interface {
	// Upload writes data to the given object path and returns its durable
	// URL address.
	Upload(ctx context.Context, path string, contentType string, data []byte) (string, error)

	// Delete removes the blob at the given URL address.
	Delete(ctx context.Context, url string) error

	// List returns the URL addresses of all blobs under the given object
	// path prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}
