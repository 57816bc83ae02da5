// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package carousel

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPreloadingCarousel(t *testing.T, loader Loader, count int) *Carousel {
	t.Helper()

	config := testConfig(newFakeClock())
	config.Loader = loader
	carousel := New(config, testItems(count))
	t.Cleanup(carousel.Close)
	return carousel
}

func TestPreload_RecordsSuccesses(t *testing.T) {
	failing := testItems(3)[1].URL
	loader := LoaderFunc(func(_ context.Context, url string) error {
		if url == failing {
			return errors.New("broken image")
		}
		return nil
	})

	carousel := newPreloadingCarousel(t, loader, 3)

	require.Eventually(t, func() bool {
		return len(carousel.State().Loaded) == 2
	}, time.Second, 5*time.Millisecond)

	state := carousel.State()
	assert.Equal(t, []int{0, 2}, state.Loaded)
	assert.False(t, state.IsLoaded(1))

	// A slide that failed to load can still be shown.
	carousel.GoToSlide(1)
	assert.Equal(t, 1, carousel.State().CurrentIndex)
}

func TestPreload_BoundedConcurrency(t *testing.T) {
	release := make(chan struct{})
	var inFlight, peak atomic.Int32

	loader := LoaderFunc(func(ctx context.Context, _ string) error {
		current := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			seen := peak.Load()
			if current <= seen || peak.CompareAndSwap(seen, current) {
				break
			}
		}

		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	carousel := newPreloadingCarousel(t, loader, 10)

	require.Eventually(t, func() bool { return inFlight.Load() == preloadConcurrency }, time.Second, 5*time.Millisecond)
	close(release)

	require.Eventually(t, func() bool {
		return len(carousel.State().Loaded) == 10
	}, time.Second, 5*time.Millisecond)
	assert.LessOrEqual(t, peak.Load(), int32(preloadConcurrency))
}

func TestPreload_StaleBatchIgnored(t *testing.T) {
	var mu sync.Mutex
	started := map[string]bool{}
	block := make(chan struct{})

	loader := LoaderFunc(func(ctx context.Context, url string) error {
		mu.Lock()
		started[url] = true
		mu.Unlock()

		if url == "https://cdn.envision.test/slow.jpg" {
			select {
			case <-block:
			case <-ctx.Done():
			}
			// Reports success even after cancellation.
			return nil
		}
		return nil
	})

	config := testConfig(newFakeClock())
	config.Loader = loader
	carousel := New(config, []Item{{ID: 9, URL: "https://cdn.envision.test/slow.jpg"}})
	t.Cleanup(carousel.Close)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return started["https://cdn.envision.test/slow.jpg"]
	}, time.Second, 5*time.Millisecond)

	carousel.SetItems(testItems(2))
	close(block)

	require.Eventually(t, func() bool {
		return len(carousel.State().Loaded) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{0, 1}, carousel.State().Loaded)
}

func TestPreload_CloseStopsWorkers(t *testing.T) {
	loader := LoaderFunc(func(ctx context.Context, _ string) error {
		<-ctx.Done()
		return ctx.Err()
	})

	carousel := newPreloadingCarousel(t, loader, 6)
	carousel.Close()

	assert.Empty(t, carousel.State().Loaded)
}

func TestHTTPLoader(t *testing.T) {
	var encoded bytes.Buffer
	picture := image.NewRGBA(image.Rect(0, 0, 2, 2))
	picture.Set(0, 0, color.RGBA{R: 255, A: 255})
	require.NoError(t, png.Encode(&encoded, picture))

	mux := http.NewServeMux()
	mux.HandleFunc("/ok.png", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(encoded.Bytes())
	})
	mux.HandleFunc("/text.png", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not an image"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	loader := HTTPLoader{Client: server.Client()}

	assert.NoError(t, loader.Load(context.Background(), server.URL+"/ok.png"))
	assert.Error(t, loader.Load(context.Background(), server.URL+"/text.png"))
	assert.Error(t, loader.Load(context.Background(), server.URL+"/missing.png"))
}
