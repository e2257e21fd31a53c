// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// urlPrefix stands in for the real store's public address scheme.
const urlPrefix = "https://blobs.invalid/"

// BlobStore is an in-memory blobstore.Store recording every delete attempt.
type BlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte

	// UploadErrs fails uploads whose object path ends with a key. Keyed by
	// suffix because object paths embed store-assigned identifiers.
	UploadErrs map[string]error

	// DeleteErrs fails deletes of specific URL addresses.
	DeleteErrs map[string]error

	// DeleteAttempts records every URL passed to Delete, including failed
	// attempts.
	DeleteAttempts []string
}

// NewBlobStore returns an empty in-memory blob store.
func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: map[string][]byte{}}
}

func (s *BlobStore) Upload(ctx context.Context, path string, contentType string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for suffix, err := range s.UploadErrs {
		if strings.HasSuffix(path, suffix) {
			return "", err
		}
	}
	s.blobs[path] = append([]byte(nil), data...)
	return urlPrefix + path, nil
}

func (s *BlobStore) Delete(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DeleteAttempts = append(s.DeleteAttempts, url)
	if err := s.DeleteErrs[url]; err != nil {
		return err
	}
	delete(s.blobs, strings.TrimPrefix(url, urlPrefix))
	return nil
}

func (s *BlobStore) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var urls []string
	for path := range s.blobs {
		if strings.HasPrefix(path, prefix) {
			urls = append(urls, urlPrefix+path)
		}
	}
	sort.Strings(urls)
	return urls, nil
}

// Has reports whether a blob is currently stored at the given URL address.
func (s *BlobStore) Has(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blobs[strings.TrimPrefix(url, urlPrefix)]
	return ok
}

// Len returns the number of stored blobs.
func (s *BlobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}
