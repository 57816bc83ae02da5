// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package carousel

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"

	// Register decoders for every format the studio accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"golang.org/x/sync/errgroup"
)

// preloadConcurrency bounds how many slides are fetched at once.
const preloadConcurrency = 4

// Loader fetches and decodes one slide image.
type Loader interface {
	Load(ctx context.Context, url string) error
}

// LoaderFunc adapts a function to [Loader].
type LoaderFunc func(ctx context.Context, url string) error

// Load calls fn.
func (fn LoaderFunc) Load(ctx context.Context, url string) error {
	return fn(ctx, url)
}

// HTTPLoader downloads an image and decodes it fully.
type HTTPLoader struct {
	Client *http.Client
}

// Load fetches url and decodes the body as JPEG, PNG, GIF or WebP.
func (loader HTTPLoader) Load(ctx context.Context, url string) error {
	client := loader.Client
	if client == nil {
		client = http.DefaultClient
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("carousel: build request: %w", err)
	}

	response, err := client.Do(request)
	if err != nil {
		return fmt.Errorf("carousel: fetch %s: %w", url, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, response.Body)
		return fmt.Errorf("carousel: fetch %s: unexpected status %d", url, response.StatusCode)
	}

	if _, _, err := image.Decode(response.Body); err != nil {
		return fmt.Errorf("carousel: decode %s: %w", url, err)
	}
	return nil
}

// startPreloadLocked cancels the previous batch and preloads the current
// items in the background. Results from an older batch are dropped.
func (carousel *Carousel) startPreloadLocked() {
	carousel.stopPreloadLocked()
	clear(carousel.loaded)

	if carousel.config.Loader == nil || len(carousel.items) == 0 || carousel.closed {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	carousel.cancelPreload = cancel
	generation := carousel.preloadGen
	items := carousel.items

	carousel.preloads.Add(1)
	go func() {
		defer carousel.preloads.Done()
		carousel.preload(ctx, generation, items)
	}()
}

func (carousel *Carousel) stopPreloadLocked() {
	if carousel.cancelPreload != nil {
		carousel.cancelPreload()
		carousel.cancelPreload = nil
	}
	carousel.preloadGen++
}

func (carousel *Carousel) preload(ctx context.Context, generation uint64, items []Item) {
	group := &errgroup.Group{}
	group.SetLimit(preloadConcurrency)

	for index, item := range items {
		if ctx.Err() != nil {
			break
		}
		if item.URL == "" {
			continue
		}

		group.Go(func() error {
			if err := carousel.config.Loader.Load(ctx, item.URL); err != nil {
				if !errors.Is(err, context.Canceled) {
					carousel.config.Logger.WarnContext(ctx, "carousel_preload_failed",
						slog.Int("index", index),
						slog.String("url", item.URL),
						slog.Any("error", err),
					)
				}
				// One broken slide must not cancel the rest.
				return nil
			}

			carousel.mutate(func() bool {
				if generation != carousel.preloadGen {
					return false
				}
				carousel.loaded[index] = struct{}{}
				return true
			})
			return nil
		})
	}

	_ = group.Wait()
}
