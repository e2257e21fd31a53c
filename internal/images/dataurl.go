// Copyright (c) CulinaryExplorer (erwin@culinaryexplorer.app)
// SPDX-License-Identifier: BUSL-1.1

// Package images decodes the base64 image data URLs the mobile client sends
// for photo uploads.
package images

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/ColossalErwin/culinaryexplorer-server/internal/cooklog"
)

// DecodeDataURL parses an image data URL into its content type and bytes.
func DecodeDataURL(dataURL string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, fmt.Errorf("images: invalid data URL %q", dataURL)
	}
	ct, contents, ok := strings.Cut(rest, ";")
	if !ok {
		return "", nil, fmt.Errorf("images: invalid data URL %q", dataURL)
	}

	if !strings.HasPrefix(ct, "image/") {
		return "", nil, fmt.Errorf("images: only image data URLs supported, got %q", ct)
	}

	b64, ok := strings.CutPrefix(contents, "base64,")
	if !ok {
		return "", nil, fmt.Errorf("images: only base64 data URLs supported")
	}
	bytes, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", nil, fmt.Errorf("images: decoding base64 data URL: %w", err)
	}
	return ct, bytes, nil
}

// PhotosFromDataURLs decodes each data URL into an uploadable photo.
func PhotosFromDataURLs(dataURLs []string) ([]cooklog.Photo, error) {
	photos := make([]cooklog.Photo, 0, len(dataURLs))
	for _, dataURL := range dataURLs {
		ct, data, err := DecodeDataURL(dataURL)
		if err != nil {
			return nil, err
		}
		photos = append(photos, cooklog.Photo{ContentType: ct, Data: data})
	}
	return photos, nil
}
