// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

// Package docstore defines the contract this service requires from a
// path-addressed document database. The production implementation is backed by
// Firestore; tests use the in-memory store from internal/storetest.
package docstore

import (
	"context"
)

// ServerTimestamp marks an update value to be resolved to the store's own
// clock at commit time. Client clocks are never written for fields that must
// reflect server time.
var ServerTimestamp = serverTimestampValue{}

type serverTimestampValue struct{}

// Increment returns an update value that atomically adds n to a numeric field.
// Increments are relative deltas so concurrent writers never lose updates.
func Increment(n int64) any {
	return incrementValue{N: n}
}

type incrementValue struct {
	N int64
}

// Delete marks a field for removal in an update.
var Delete = deleteValue{}

type deleteValue struct{}

// IsServerTimestamp reports whether v is the ServerTimestamp sentinel.
// Alternate Store implementations use this to resolve the sentinel with
// their own clock.
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestampValue)
	return ok
}

// IncrementDelta returns the delta carried by an Increment sentinel.
func IncrementDelta(v any) (int64, bool) {
	inc, ok := v.(incrementValue)
	return inc.N, ok
}

// IsDelete reports whether v is the field Delete sentinel.
func IsDelete(v any) bool {
	_, ok := v.(deleteValue)
	return ok
}

// Update is a single field change applied to an existing document.
type Update struct {
	// Field is the name of the field to change.
	Field string

	// Value is the new value, or one of the ServerTimestamp, Increment, or
	// Delete sentinels.
	Value any
}

// Snapshot is a read-only view of a document at some point in time.
type Snapshot interface {
	// ID is the final path segment of the document.
	ID() string

	// Exists reports whether the document was present when read.
	Exists() bool

	// DataTo unmarshals the document into v.
	DataTo(v any) error
}

// Tx is the set of operations available inside a transaction. Reads must
// happen before writes; the store retries or rejects conflicting commits.
type Tx interface {
	Get(path string) (Snapshot, error)
	Create(path string, data any) error
	Set(path string, data any) error
	Update(path string, updates []Update) error
	Delete(path string) error
}

// Batch accumulates writes that are committed as one atomic unit. Unlike a
// transaction, a batch performs no reads.
type Batch interface {
	Set(path string, data any)
	Update(path string, updates []Update)
	Delete(path string)
	Commit(ctx context.Context) error
}

// WatchEvent is one delivery from a live query subscription. Docs holds the
// full ordered result set as of the event; Err is set when the subscription
// has failed and no further events will be delivered.
type WatchEvent struct {
	Docs []Snapshot
	Err  error
}

// Store is a path-addressed document database. Document paths have an even
// number of slash-separated segments ("users/u1/cookedDishes/42"); collection
// paths have an odd number.
type Store interface {
	// AllocateID returns a fresh document ID for the collection without
	// writing anything.
	AllocateID(collection string) string

	// Get reads a document. A missing document is returned as a snapshot
	// with Exists() == false and a nil error.
	Get(ctx context.Context, path string) (Snapshot, error)

	Set(ctx context.Context, path string, data any) error
	Update(ctx context.Context, path string, updates []Update) error
	Delete(ctx context.Context, path string) error

	// List reads all documents in a collection ordered by the given field.
	List(ctx context.Context, collection string, orderBy string, desc bool) ([]Snapshot, error)

	// RunTransaction runs fn inside an optimistic read-check-write
	// transaction, committing its writes atomically.
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	// Batch returns a new atomic write batch.
	Batch() Batch

	// Watch subscribes to a collection ordered by the given field. Events
	// are delivered until ctx is canceled, after which the channel is
	// closed and no further events fire.
	Watch(ctx context.Context, collection string, orderBy string, desc bool) <-chan WatchEvent
}
