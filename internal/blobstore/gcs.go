// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

package blobstore

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// NewGCS returns a Store backed by a Cloud Storage bucket with public URLs.
func NewGCS(client *storage.Client, bucket string) Store {
	return &gcsStore{
		client: client,
		bucket: bucket,
	}
}

type gcsStore struct {
	client *storage.Client
	bucket string
}

func (s *gcsStore) Upload(ctx context.Context, path string, contentType string, data []byte) (string, error) {
	w := s.client.Bucket(s.bucket).Object(path).NewWriter(ctx)
	defer func() {
		_ = w.Close()
	}()
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		return "", fmt.Errorf("blobstore: writing %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("blobstore: closing writer for %s: %w", path, err)
	}
	return s.urlFor(path), nil
}

func (s *gcsStore) Delete(ctx context.Context, url string) error {
	path, err := s.pathFor(url)
	if err != nil {
		return err
	}
	if err := s.client.Bucket(s.bucket).Object(path).Delete(ctx); err != nil {
		return fmt.Errorf("blobstore: deleting %s: %w", path, err)
	}
	return nil
}

func (s *gcsStore) List(ctx context.Context, prefix string) ([]string, error) {
	var urls []string
	objects := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := objects.Next()
		if err != nil {
			if err == iterator.Done { //nolint:errorlint // iterator.Done is returned unwrapped.
				return urls, nil
			}
			return nil, fmt.Errorf("blobstore: listing %s: %w", prefix, err)
		}
		urls = append(urls, s.urlFor(attrs.Name))
	}
}

func (s *gcsStore) urlFor(path string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, path)
}

func (s *gcsStore) pathFor(url string) (string, error) {
	path, ok := strings.CutPrefix(url, "https://storage.googleapis.com/"+s.bucket+"/")
	if !ok {
		return "", fmt.Errorf("blobstore: address %q is not in bucket %s", url, s.bucket)
	}
	return path, nil
}
