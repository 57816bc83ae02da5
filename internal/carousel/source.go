// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package carousel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Origin says where the slides in a [Result] came from.
type Origin string

const (
	// OriginLive means the API returned at least one slide.
	OriginLive Origin = "live"
	// OriginFallbackEmpty means the API answered with no slides.
	OriginFallbackEmpty Origin = "fallback_empty"
	// OriginFallbackError means the fetch failed; Err holds the reason.
	OriginFallbackError Origin = "fallback_error"
)

// Result is the outcome of loading slides. Items is never empty when the
// fallback list is non-empty.
type Result struct {
	Items  []Item
	Origin Origin
	Err    error
}

// Fetcher retrieves the live hero slides.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Item, error)
}

/*
Load prefers live slides and falls back to the built-in ones.

An empty live list and a failed fetch both fall back, but the Origin tells
the two apart so a front-end can show "nothing published yet" differently
from "could not reach the server".
*/
func Load(ctx context.Context, fetcher Fetcher, fallback []Item) Result {
	items, err := fetcher.Fetch(ctx)
	switch {
	case err != nil:
		return Result{Items: fallback, Origin: OriginFallbackError, Err: err}
	case len(items) == 0:
		return Result{Items: fallback, Origin: OriginFallbackEmpty}
	default:
		return Result{Items: items, Origin: OriginLive}
	}
}

// ErrUnexpectedStatus is wrapped by [HTTPFetcher] for non-200 responses.
var ErrUnexpectedStatus = errors.New("carousel: unexpected status")

// maxListBody bounds the JSON list the fetcher will read.
const maxListBody = 4 << 20

// HTTPFetcher reads active hero images from the public image API.
type HTTPFetcher struct {
	BaseURL string
	Section string
	Client  *http.Client
}

// Fetch calls GET {BaseURL}/api/images?section={Section} and unwraps the
// success envelope.
func (fetcher HTTPFetcher) Fetch(ctx context.Context) ([]Item, error) {
	section := fetcher.Section
	if section == "" {
		section = "hero"
	}

	endpoint := strings.TrimSuffix(fetcher.BaseURL, "/") + "/api/images?" + url.Values{"section": {section}}.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("carousel: build request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	client := fetcher.Client
	if client == nil {
		client = http.DefaultClient
	}

	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("carousel: fetch slides: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, response.Body)
		return nil, fmt.Errorf("%w %d", ErrUnexpectedStatus, response.StatusCode)
	}

	var envelope struct {
		Success bool   `json:"success"`
		Data    []Item `json:"data"`
	}
	if err := json.NewDecoder(io.LimitReader(response.Body, maxListBody)).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("carousel: decode slides: %w", err)
	}
	if !envelope.Success {
		return nil, errors.New("carousel: api reported failure")
	}

	items := make([]Item, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		if item.URL != "" {
			items = append(items, item)
		}
	}
	return items, nil
}

// DefaultSlides is shown when no live slides are available.
var DefaultSlides = []Item{
	{ID: 1, Title: "Elegant Wedding Photography", Subtitle: "Capturing your special day with artistic vision"},
	{ID: 2, Title: "Family Portrait Sessions", Subtitle: "Timeless memories for generations to come"},
	{ID: 3, Title: "Destination Weddings", Subtitle: "Adventure and romance captured beautifully"},
	{ID: 4, Title: "Senior Portrait Photography", Subtitle: "Celebrating life's milestones with style"},
	{ID: 5, Title: "Maternity Photography", Subtitle: "The beauty of new life and love"},
}
