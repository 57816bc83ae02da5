// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/envision/internal/platform/apperr"
)

const testMaxBytes = 10 << 20

// memoryRepository is an in-memory [Repository] with failure injection.
// List returns rows in map order so callers must sort themselves.
type memoryRepository struct {
	mu        sync.Mutex
	images    map[int64]*Image
	nextID    int64
	clock     time.Time
	listCalls int

	insertErr error
	updateErr error
	listErr   error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		images: map[int64]*Image{},
		clock:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (repo *memoryRepository) seed(images ...*Image) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, image := range images {
		clone := *image
		repo.images[image.ID] = &clone
		repo.nextID = max(repo.nextID, image.ID)
	}
}

func (repo *memoryRepository) count() int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return len(repo.images)
}

func (repo *memoryRepository) List(_ context.Context, filter Filter) ([]*Image, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.listCalls++

	if repo.listErr != nil {
		return nil, repo.listErr
	}

	images := []*Image{}
	for _, image := range repo.images {
		if filter.ActiveOnly && !image.Active {
			continue
		}
		if filter.Section != "" && image.Section != filter.Section {
			continue
		}
		if filter.Category != "" && image.Category != filter.Category {
			continue
		}
		clone := *image
		images = append(images, &clone)
	}
	return images, nil
}

func (repo *memoryRepository) FindByID(_ context.Context, id int64) (*Image, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	image, ok := repo.images[id]
	if !ok {
		return nil, apperr.NotFound(resourceImage)
	}
	clone := *image
	return &clone, nil
}

func (repo *memoryRepository) Insert(_ context.Context, image *Image) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.insertErr != nil {
		return repo.insertErr
	}

	repo.nextID++
	repo.clock = repo.clock.Add(time.Second)
	image.ID = repo.nextID
	image.CreatedAt = repo.clock
	image.UpdatedAt = repo.clock

	clone := *image
	repo.images[image.ID] = &clone
	return nil
}

func (repo *memoryRepository) Update(_ context.Context, image *Image) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.updateErr != nil {
		return repo.updateErr
	}
	if _, ok := repo.images[image.ID]; !ok {
		return apperr.NotFound(resourceImage)
	}

	repo.clock = repo.clock.Add(time.Second)
	image.UpdatedAt = repo.clock

	clone := *image
	repo.images[image.ID] = &clone
	return nil
}

func (repo *memoryRepository) Delete(_ context.Context, id int64) (*string, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	image, ok := repo.images[id]
	if !ok {
		return nil, apperr.NotFound(resourceImage)
	}
	delete(repo.images, id)
	return image.FilePath, nil
}

// fixture bundles a service over a temp upload directory.
type fixture struct {
	service *Service
	repo    *memoryRepository
	assets  *AssetStore
	dir     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	assets, err := NewAssetStore(dir, "/uploads", testMaxBytes)
	require.NoError(t, err)

	repo := newMemoryRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		service: NewService(repo, assets, logger),
		repo:    repo,
		assets:  assets,
		dir:     dir,
	}
}

// files lists the names currently in the upload directory.
func (f *fixture) files(t *testing.T) []string {
	t.Helper()

	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

// pngFile returns a small declared PNG upload.
func pngFile(content string) *File {
	return &File{
		Reader:      strings.NewReader(content),
		Filename:    "Bride.PNG",
		ContentType: "image/png",
		Size:        int64(len(content)),
	}
}

// zeroReader yields n zero bytes.
type zeroReader struct{ remaining int64 }

func (r *zeroReader) Read(p []byte) (int, error) {
	if r.remaining <= 0 {
		return 0, io.EOF
	}
	n := int64(len(p))
	if n > r.remaining {
		n = r.remaining
	}
	clear(p[:n])
	r.remaining -= n
	return int(n), nil
}
