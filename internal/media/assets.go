// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/taibuivan/envision/internal/platform/apperr"
)

// maxNameAttempts bounds retries when a generated name already exists.
const maxNameAttempts = 5

// AssetStore keeps uploaded binaries in a single flat directory.
//
// Files are named "<unix-millis>-<random hex>.<ext>" and created with
// O_EXCL, so concurrent uploads never overwrite each other. Records refer to
// them through a public path such as "/uploads/1731400000000-9f2c1a0b.jpg".
type AssetStore struct {
	dir        string
	publicPath string
	maxBytes   int64
	now        func() time.Time
}

// NewAssetStore creates the upload directory if needed.
func NewAssetStore(dir, publicPath string, maxBytes int64) (*AssetStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media: create upload dir: %w", err)
	}

	return &AssetStore{
		dir:        dir,
		publicPath: strings.TrimSuffix(publicPath, "/"),
		maxBytes:   maxBytes,
		now:        time.Now,
	}, nil
}

// Dir returns the directory holding the files.
func (store *AssetStore) Dir() string { return store.dir }

// MaxBytes returns the per-file size ceiling.
func (store *AssetStore) MaxBytes() int64 { return store.maxBytes }

/*
Save streams reader into a freshly named file with the given extension.

A stream longer than the ceiling is rejected with PAYLOAD_TOO_LARGE and the
partial file is removed before returning.

Returns:
  - string: Public path of the new file
  - error: PayloadTooLarge or StoreUnavailable
*/
func (store *AssetStore) Save(reader io.Reader, extension string) (string, error) {
	file, name, err := store.create(extension)
	if err != nil {
		return "", apperr.StoreUnavailable(err)
	}

	fullPath := filepath.Join(store.dir, name)
	discard := func() { _ = os.Remove(fullPath) }

	written, err := io.Copy(file, io.LimitReader(reader, store.maxBytes+1))
	closeErr := file.Close()

	switch {
	case err != nil:
		discard()
		var bodyTooLarge *http.MaxBytesError
		if errors.As(err, &bodyTooLarge) {
			return "", apperr.PayloadTooLarge(store.maxBytes)
		}
		return "", apperr.StoreUnavailable(fmt.Errorf("media: write %s: %w", name, err))
	case written > store.maxBytes:
		discard()
		return "", apperr.PayloadTooLarge(store.maxBytes)
	case closeErr != nil:
		discard()
		return "", apperr.StoreUnavailable(fmt.Errorf("media: close %s: %w", name, closeErr))
	}

	return store.publicPath + "/" + name, nil
}

// create opens a new file exclusively, retrying on the rare name collision.
func (store *AssetStore) create(extension string) (*os.File, string, error) {
	for range maxNameAttempts {
		name, err := store.generateName(extension)
		if err != nil {
			return nil, "", err
		}

		file, err := os.OpenFile(filepath.Join(store.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("media: create file: %w", err)
		}
		return file, name, nil
	}

	return nil, "", fmt.Errorf("media: no free file name after %d attempts", maxNameAttempts)
}

func (store *AssetStore) generateName(extension string) (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("media: random suffix: %w", err)
	}
	return fmt.Sprintf("%d-%s%s", store.now().UnixMilli(), hex.EncodeToString(suffix), extension), nil
}

// Owns reports whether publicPath names a file inside this store.
func (store *AssetStore) Owns(publicPath string) bool {
	_, ok := store.fileName(publicPath)
	return ok
}

// Remove deletes the file behind publicPath. A missing file is not an error;
// paths outside the store are ignored.
func (store *AssetStore) Remove(publicPath string) error {
	name, ok := store.fileName(publicPath)
	if !ok {
		return nil
	}

	err := os.Remove(filepath.Join(store.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("media: remove %s: %w", name, err)
	}
	return nil
}

// fileName maps a public path back to a bare file name, refusing anything
// that would escape the directory.
func (store *AssetStore) fileName(publicPath string) (string, bool) {
	rest, found := strings.CutPrefix(publicPath, store.publicPath+"/")
	if !found || rest == "" {
		return "", false
	}
	if rest != path.Base(rest) || rest == "." || rest == ".." || strings.ContainsAny(rest, `/\`) {
		return "", false
	}
	return rest, true
}
