// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/envision/internal/platform/constants"
)

// CacheClient is the subset of the go-redis API the list cache needs.
// [*redis.Client] satisfies it.
type CacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// CachedRepository decorates a [Repository] with a read-through Redis cache
// for listings.
//
// Cache keys embed a generation number. Every successful write bumps it, so
// stale listings are never read again and simply expire. Any Redis failure
// falls through to the wrapped repository.
type CachedRepository struct {
	Repository
	client CacheClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedRepository wraps next with a list cache.
func NewCachedRepository(next Repository, client CacheClient, ttl time.Duration, logger *slog.Logger) *CachedRepository {
	return &CachedRepository{Repository: next, client: client, ttl: ttl, logger: logger}
}

/*
List serves from the cache when possible.

Description: A miss or a Redis error loads from the wrapped repository.
Writing the result back is best-effort.
*/
func (repository *CachedRepository) List(context context.Context, filter Filter) ([]*Image, error) {
	generation, err := repository.generation(context)
	if err != nil {
		repository.logger.WarnContext(context, "image_cache_unavailable", slog.Any("error", err))
		return repository.Repository.List(context, filter)
	}

	key := listKey(generation, filter)

	cached, err := repository.client.Get(context, key).Bytes()
	if err == nil {
		var images []*Image
		if err := json.Unmarshal(cached, &images); err == nil {
			return images, nil
		}
		repository.logger.WarnContext(context, "image_cache_corrupt", slog.String("key", key))
	} else if !errors.Is(err, redis.Nil) {
		repository.logger.WarnContext(context, "image_cache_get_failed", slog.Any("error", err))
	}

	images, err := repository.Repository.List(context, filter)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(images); err == nil {
		if err := repository.client.Set(context, key, payload, repository.ttl).Err(); err != nil {
			repository.logger.WarnContext(context, "image_cache_set_failed", slog.Any("error", err))
		}
	}

	return images, nil
}

// Insert writes through and invalidates cached listings.
func (repository *CachedRepository) Insert(context context.Context, image *Image) error {
	if err := repository.Repository.Insert(context, image); err != nil {
		return err
	}
	repository.invalidate(context)
	return nil
}

// Update writes through and invalidates cached listings.
func (repository *CachedRepository) Update(context context.Context, image *Image) error {
	if err := repository.Repository.Update(context, image); err != nil {
		return err
	}
	repository.invalidate(context)
	return nil
}

// Delete writes through and invalidates cached listings.
func (repository *CachedRepository) Delete(context context.Context, id int64) (*string, error) {
	filePath, err := repository.Repository.Delete(context, id)
	if err != nil {
		return nil, err
	}
	repository.invalidate(context)
	return filePath, nil
}

func (repository *CachedRepository) generation(context context.Context) (int64, error) {
	raw, err := repository.client.Get(context, constants.RedisKeyImageGeneration).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis_image_generation_get_failed: %w", err)
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (repository *CachedRepository) invalidate(context context.Context) {
	if err := repository.client.Incr(context, constants.RedisKeyImageGeneration).Err(); err != nil {
		// Entries of the old generation survive until their TTL.
		repository.logger.ErrorContext(context, "image_cache_invalidate_failed", slog.Any("error", err))
	}
}

// listKey renders e.g. "media:list:3:gallery:wedding:1".
func listKey(generation int64, filter Filter) string {
	activeOnly := 0
	if filter.ActiveOnly {
		activeOnly = 1
	}
	return fmt.Sprintf("%s%d:%s:%s:%d", constants.RedisPrefixImageList, generation, filter.Section, filter.Category, activeOnly)
}
