// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package docstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// NewFirestore returns a Store backed by the given Firestore client.
func NewFirestore(client *firestore.Client) Store {
	return &firestoreStore{client: client}
}

type firestoreStore struct {
	client *firestore.Client
}

func (s *firestoreStore) AllocateID(collection string) string {
	return s.client.Collection(collection).NewDoc().ID
}

func (s *firestoreStore) Get(ctx context.Context, path string) (Snapshot, error) {
	doc, err := s.client.Doc(path).Get(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return nil, fmt.Errorf("docstore: getting %s: %w", path, err)
	}
	return firestoreSnapshot{doc: doc}, nil
}

func (s *firestoreStore) Set(ctx context.Context, path string, data any) error {
	if _, err := s.client.Doc(path).Set(ctx, firestoreData(data)); err != nil {
		return fmt.Errorf("docstore: setting %s: %w", path, err)
	}
	return nil
}

func (s *firestoreStore) Update(ctx context.Context, path string, updates []Update) error {
	if _, err := s.client.Doc(path).Update(ctx, firestoreUpdates(updates)); err != nil {
		return fmt.Errorf("docstore: updating %s: %w", path, err)
	}
	return nil
}

func (s *firestoreStore) Delete(ctx context.Context, path string) error {
	if _, err := s.client.Doc(path).Delete(ctx); err != nil {
		return fmt.Errorf("docstore: deleting %s: %w", path, err)
	}
	return nil
}

func (s *firestoreStore) List(ctx context.Context, collection string, orderBy string, desc bool) ([]Snapshot, error) {
	docs, err := s.client.Collection(collection).OrderBy(orderBy, direction(desc)).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("docstore: listing %s: %w", collection, err)
	}
	snapshots := make([]Snapshot, len(docs))
	for i, doc := range docs {
		snapshots[i] = firestoreSnapshot{doc: doc}
	}
	return snapshots, nil
}

func (s *firestoreStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return s.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		return fn(ctx, &firestoreTx{client: s.client, tx: t})
	})
}

func (s *firestoreStore) Batch() Batch {
	return &firestoreBatch{store: s}
}

func (s *firestoreStore) Watch(ctx context.Context, collection string, orderBy string, desc bool) <-chan WatchEvent {
	events := make(chan WatchEvent)
	iter := s.client.Collection(collection).OrderBy(orderBy, direction(desc)).Snapshots(ctx)
	go func() {
		defer close(events)
		defer iter.Stop()
		for {
			qs, err := iter.Next()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				select {
				case events <- WatchEvent{Err: fmt.Errorf("docstore: watching %s: %w", collection, err)}:
				case <-ctx.Done():
				}
				return
			}
			docs, err := qs.Documents.GetAll()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				select {
				case events <- WatchEvent{Err: fmt.Errorf("docstore: reading watch results for %s: %w", collection, err)}:
				case <-ctx.Done():
				}
				return
			}
			snapshots := make([]Snapshot, len(docs))
			for i, doc := range docs {
				snapshots[i] = firestoreSnapshot{doc: doc}
			}
			select {
			case events <- WatchEvent{Docs: snapshots}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events
}

type firestoreTx struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

func (t *firestoreTx) Get(path string) (Snapshot, error) {
	doc, err := t.tx.Get(t.client.Doc(path))
	if err != nil && status.Code(err) != codes.NotFound {
		return nil, fmt.Errorf("docstore: tx get %s: %w", path, err)
	}
	return firestoreSnapshot{doc: doc}, nil
}

func (t *firestoreTx) Create(path string, data any) error {
	if err := t.tx.Create(t.client.Doc(path), firestoreData(data)); err != nil {
		return fmt.Errorf("docstore: tx create %s: %w", path, err)
	}
	return nil
}

func (t *firestoreTx) Set(path string, data any) error {
	if err := t.tx.Set(t.client.Doc(path), firestoreData(data)); err != nil {
		return fmt.Errorf("docstore: tx set %s: %w", path, err)
	}
	return nil
}

func (t *firestoreTx) Update(path string, updates []Update) error {
	if err := t.tx.Update(t.client.Doc(path), firestoreUpdates(updates)); err != nil {
		return fmt.Errorf("docstore: tx update %s: %w", path, err)
	}
	return nil
}

func (t *firestoreTx) Delete(path string) error {
	if err := t.tx.Delete(t.client.Doc(path)); err != nil {
		return fmt.Errorf("docstore: tx delete %s: %w", path, err)
	}
	return nil
}

// firestoreBatch commits buffered writes through a write-only transaction,
// which Firestore applies as one atomic unit.
type firestoreBatch struct {
	store *firestoreStore
	ops   []func(tx Tx) error
}

func (b *firestoreBatch) Set(path string, data any) {
	b.ops = append(b.ops, func(tx Tx) error { return tx.Set(path, data) })
}

func (b *firestoreBatch) Update(path string, updates []Update) {
	b.ops = append(b.ops, func(tx Tx) error { return tx.Update(path, updates) })
}

func (b *firestoreBatch) Delete(path string) {
	b.ops = append(b.ops, func(tx Tx) error { return tx.Delete(path) })
}

func (b *firestoreBatch) Commit(ctx context.Context) error {
	return b.store.RunTransaction(ctx, func(_ context.Context, tx Tx) error {
		for _, op := range b.ops {
			if err := op(tx); err != nil {
				return err
			}
		}
		return nil
	})
}

type firestoreSnapshot struct {
	doc *firestore.DocumentSnapshot
}

func (s firestoreSnapshot) ID() string {
	if s.doc == nil || s.doc.Ref == nil {
		return ""
	}
	return s.doc.Ref.ID
}

func (s firestoreSnapshot) Exists() bool {
	return s.doc != nil && s.doc.Exists()
}

func (s firestoreSnapshot) DataTo(v any) error {
	if !s.Exists() {
		return fmt.Errorf("docstore: document does not exist")
	}
	if err := s.doc.DataTo(v); err != nil {
		return fmt.Errorf("docstore: unmarshalling document: %w", err)
	}
	return nil
}

// firestoreData converts sentinel values in map data to their Firestore
// equivalents. Struct data is passed through unchanged.
func firestoreData(data any) any {
	m, ok := data.(map[string]any)
	if !ok {
		return data
	}
	converted := make(map[string]any, len(m))
	for k, v := range m {
		switch sv := v.(type) {
		case serverTimestampValue:
			converted[k] = firestore.ServerTimestamp
		case incrementValue:
			converted[k] = firestore.Increment(sv.N)
		default:
			converted[k] = v
		}
	}
	return converted
}

func firestoreUpdates(updates []Update) []firestore.Update {
	result := make([]firestore.Update, len(updates))
	for i, u := range updates {
		value := u.Value
		switch v := value.(type) {
		case serverTimestampValue:
			value = firestore.ServerTimestamp
		case incrementValue:
			value = firestore.Increment(v.N)
		case deleteValue:
			value = firestore.Delete
		}
		result[i] = firestore.Update{Path: u.Field, Value: value}
	}
	return result
}

func direction(desc bool) firestore.Direction {
	if desc {
		return firestore.Desc
	}
	return firestore.Asc
}
