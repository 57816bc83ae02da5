// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact

import (
	"cmp"
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/envision/internal/platform/apperr"
)

// memoryRepository is an in-memory [Repository] ordered like the SQL store.
type memoryRepository struct {
	mu       sync.Mutex
	contacts map[int64]*Contact
	nextID   int64
	clock    time.Time

	updates   int
	insertErr error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		contacts: map[int64]*Contact{},
		clock:    time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (repo *memoryRepository) Insert(_ context.Context, contact *Contact) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.insertErr != nil {
		return repo.insertErr
	}

	repo.nextID++
	repo.clock = repo.clock.Add(time.Minute)
	contact.ID = repo.nextID
	contact.CreatedAt = repo.clock
	contact.UpdatedAt = repo.clock

	clone := *contact
	repo.contacts[contact.ID] = &clone
	return nil
}

func (repo *memoryRepository) List(_ context.Context, filter Filter, limit, offset int) ([]*Contact, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	matched := []*Contact{}
	for _, contact := range repo.contacts {
		if filter.Status != "" && contact.Status != filter.Status {
			continue
		}
		clone := *contact
		matched = append(matched, &clone)
	}

	slices.SortFunc(matched, func(a, b *Contact) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	total := len(matched)
	if offset >= total {
		return []*Contact{}, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (repo *memoryRepository) FindByID(_ context.Context, id int64) (*Contact, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	contact, ok := repo.contacts[id]
	if !ok {
		return nil, apperr.NotFound(resourceContact)
	}
	clone := *contact
	return &clone, nil
}

func (repo *memoryRepository) Update(_ context.Context, contact *Contact) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.contacts[contact.ID]; !ok {
		return apperr.NotFound(resourceContact)
	}

	repo.updates++
	repo.clock = repo.clock.Add(time.Minute)
	contact.UpdatedAt = repo.clock

	clone := *contact
	repo.contacts[contact.ID] = &clone
	return nil
}

func newTestService() (*Service, *memoryRepository) {
	repo := newMemoryRepository()
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func validInput() SubmitInput {
	return SubmitInput{
		Name:    "  Linh Tran ",
		Email:   " Linh@Example.COM ",
		Phone:   " 0901 234 567 ",
		Message: " We are getting married in June. ",
	}
}
