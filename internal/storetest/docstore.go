// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

// Package storetest provides in-memory implementations of the docstore and
// blobstore contracts for tests, with hooks for injecting failures.
package storetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/docstore"
)

// DocStore is an in-memory docstore.Store. Transactions and batches are
// serialized under one lock, so committed increments are never lost even
// under concurrent callers.
type DocStore struct {
	mu   sync.Mutex
	docs map[string]map[string]any

	subs []*subscription

	// TxErr fails every transaction and batch commit when set.
	TxErr error

	// GetErrs fails reads of specific document paths.
	GetErrs map[string]error
}

// NewDocStore returns an empty in-memory document store.
func NewDocStore() *DocStore {
	return &DocStore{docs: map[string]map[string]any{}}
}

type subscription struct {
	collection string
	orderBy    string
	desc       bool
	events     chan docstore.WatchEvent
	ctx        context.Context
}

func (s *DocStore) AllocateID(string) string {
	return uuid.NewString()
}

func (s *DocStore) Get(ctx context.Context, path string) (docstore.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.GetErrs[path]; err != nil {
		return nil, err
	}
	return s.snapshotLocked(path), nil
}

func (s *DocStore) Set(ctx context.Context, path string, data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = toFields(data)
	s.notifyLocked()
	return nil
}

func (s *DocStore) Update(ctx context.Context, path string, updates []docstore.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.updateLocked(path, updates); err != nil {
		return err
	}
	s.notifyLocked()
	return nil
}

func (s *DocStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, path)
	s.notifyLocked()
	return nil
}

func (s *DocStore) List(ctx context.Context, collection string, orderBy string, desc bool) ([]docstore.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked(collection, orderBy, desc), nil
}

func (s *DocStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx docstore.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.TxErr != nil {
		return s.TxErr
	}
	tx := &memTx{store: s}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	for _, op := range tx.writes {
		if err := op(); err != nil {
			return err
		}
	}
	s.notifyLocked()
	return nil
}

func (s *DocStore) Batch() docstore.Batch {
	return &memBatch{store: s}
}

func (s *DocStore) Watch(ctx context.Context, collection string, orderBy string, desc bool) <-chan docstore.WatchEvent {
	sub := &subscription{
		collection: collection,
		orderBy:    orderBy,
		desc:       desc,
		events:     make(chan docstore.WatchEvent, 16),
		ctx:        ctx,
	}
	s.mu.Lock()
	s.subs = append(s.subs, sub)
	sub.events <- docstore.WatchEvent{Docs: s.listLocked(collection, orderBy, desc)}
	s.mu.Unlock()

	out := make(chan docstore.WatchEvent)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				s.removeSub(sub)
				return
			case ev := <-sub.events:
				select {
				case out <- ev:
				case <-ctx.Done():
					s.removeSub(sub)
					return
				}
			}
		}
	}()
	return out
}

func (s *DocStore) removeSub(sub *subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, candidate := range s.subs {
		if candidate == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Doc decodes the document at path into v, reporting whether it exists.
func (s *DocStore) Doc(path string, v any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	fields, ok := s.docs[path]
	if !ok {
		return false
	}
	if v != nil {
		b, _ := json.Marshal(fields)
		_ = json.Unmarshal(b, v)
	}
	return true
}

// Count returns the number of documents under the given collection path.
func (s *DocStore) Count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	prefix := collection + "/"
	for path := range s.docs {
		if rest, ok := strings.CutPrefix(path, prefix); ok && !strings.Contains(rest, "/") {
			n++
		}
	}
	return n
}

func (s *DocStore) snapshotLocked(path string) docstore.Snapshot {
	fields, ok := s.docs[path]
	if !ok {
		return memSnapshot{id: docID(path)}
	}
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return memSnapshot{id: docID(path), fields: copied, exists: true}
}

func (s *DocStore) listLocked(collection string, orderBy string, desc bool) []docstore.Snapshot {
	var snapshots []docstore.Snapshot
	prefix := collection + "/"
	for path := range s.docs {
		if rest, ok := strings.CutPrefix(path, prefix); ok && !strings.Contains(rest, "/") {
			snapshots = append(snapshots, s.snapshotLocked(path))
		}
	}
	sort.Slice(snapshots, func(i, j int) bool {
		a := snapshots[i].(memSnapshot).fields[orderBy]
		b := snapshots[j].(memSnapshot).fields[orderBy]
		less := compareValues(a, b)
		if less == 0 {
			less = strings.Compare(snapshots[i].ID(), snapshots[j].ID())
		}
		if desc {
			return less > 0
		}
		return less < 0
	})
	return snapshots
}

func (s *DocStore) updateLocked(path string, updates []docstore.Update) error {
	fields, ok := s.docs[path]
	if !ok {
		return fmt.Errorf("storetest: update of missing document %s", path)
	}
	for _, u := range updates {
		switch {
		case docstore.IsServerTimestamp(u.Value):
			fields[u.Field] = time.Now().UTC().Format(time.RFC3339Nano)
		case docstore.IsDelete(u.Value):
			delete(fields, u.Field)
		default:
			if delta, ok := docstore.IncrementDelta(u.Value); ok {
				current, _ := fields[u.Field].(float64)
				fields[u.Field] = current + float64(delta)
				continue
			}
			fields[u.Field] = toValue(u.Value)
		}
	}
	return nil
}

func (s *DocStore) notifyLocked() {
	for _, sub := range s.subs {
		if sub.ctx.Err() != nil {
			continue
		}
		ev := docstore.WatchEvent{Docs: s.listLocked(sub.collection, sub.orderBy, sub.desc)}
		select {
		case sub.events <- ev:
		default:
		}
	}
}

type memTx struct {
	store  *DocStore
	writes []func() error
}

func (t *memTx) Get(path string) (docstore.Snapshot, error) {
	if err := t.store.GetErrs[path]; err != nil {
		return nil, err
	}
	return t.store.snapshotLocked(path), nil
}

func (t *memTx) Create(path string, data any) error {
	if _, ok := t.store.docs[path]; ok {
		return fmt.Errorf("storetest: create of existing document %s", path)
	}
	fields := toFields(data)
	t.writes = append(t.writes, func() error {
		t.store.docs[path] = fields
		return nil
	})
	return nil
}

func (t *memTx) Set(path string, data any) error {
	fields := toFields(data)
	t.writes = append(t.writes, func() error {
		t.store.docs[path] = fields
		return nil
	})
	return nil
}

func (t *memTx) Update(path string, updates []docstore.Update) error {
	t.writes = append(t.writes, func() error {
		return t.store.updateLocked(path, updates)
	})
	return nil
}

func (t *memTx) Delete(path string) error {
	t.writes = append(t.writes, func() error {
		delete(t.store.docs, path)
		return nil
	})
	return nil
}

type memBatch struct {
	store *DocStore
	ops   []func(tx docstore.Tx) error
}

func (b *memBatch) Set(path string, data any) {
	b.ops = append(b.ops, func(tx docstore.Tx) error { return tx.Set(path, data) })
}

func (b *memBatch) Update(path string, updates []docstore.Update) {
	b.ops = append(b.ops, func(tx docstore.Tx) error { return tx.Update(path, updates) })
}

func (b *memBatch) Delete(path string) {
	b.ops = append(b.ops, func(tx docstore.Tx) error { return tx.Delete(path) })
}

func (b *memBatch) Commit(ctx context.Context) error {
	return b.store.RunTransaction(ctx, func(_ context.Context, tx docstore.Tx) error {
		for _, op := range b.ops {
			if err := op(tx); err != nil {
				return err
			}
		}
		return nil
	})
}

type memSnapshot struct {
	id     string
	fields map[string]any
	exists bool
}

func (s memSnapshot) ID() string   { return s.id }
func (s memSnapshot) Exists() bool { return s.exists }

func (s memSnapshot) DataTo(v any) error {
	if !s.exists {
		return fmt.Errorf("storetest: document does not exist")
	}
	b, err := json.Marshal(s.fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// toFields normalizes document data through JSON so that reads behave the
// same regardless of whether the write used a struct or a map. Sentinel
// values in maps are resolved first.
func toFields(data any) map[string]any {
	if m, ok := data.(map[string]any); ok {
		resolved := make(map[string]any, len(m))
		for k, v := range m {
			resolved[k] = toValue(v)
		}
		data = resolved
	}
	b, _ := json.Marshal(data)
	fields := map[string]any{}
	_ = json.Unmarshal(b, &fields)
	return fields
}

func toValue(v any) any {
	if docstore.IsServerTimestamp(v) {
		return time.Now().UTC().Format(time.RFC3339Nano)
	}
	if delta, ok := docstore.IncrementDelta(v); ok {
		return float64(delta)
	}
	return v
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return strings.Compare(av, bv)
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	}
	return 0
}

func docID(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
