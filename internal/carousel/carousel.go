// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package carousel implements the hero slideshow as a headless state machine.

A [Carousel] owns the slide index, the autoplay and pause flags, the swipe
accumulator and the set of preloaded slides. Front-ends feed it user input
and render the [State] snapshots it publishes to subscribers.

Lifecycle:

	c := carousel.New(carousel.DefaultConfig(), items)
	defer c.Close()

	unsubscribe := c.Subscribe(render)
	defer unsubscribe()

Timing:

  - Autoplay advances one slide every Config.Interval while playing.
  - Any explicit navigation pauses autoplay and arms a single resume timer.
    Another navigation before it fires restarts the delay.
  - Hovering pauses for the duration of the hover only.
*/
package carousel

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// # Configuration

// Config tunes timing and input thresholds. Zero durations fall back to
// the defaults from [DefaultConfig].
type Config struct {
	Interval       time.Duration
	ResumeDelay    time.Duration
	SwipeThreshold float64
	PauseOnHover   bool

	Clock  Clock
	Loader Loader
	Logger *slog.Logger
}

const (
	DefaultInterval       = 6 * time.Second
	DefaultResumeDelay    = 10 * time.Second
	DefaultSwipeThreshold = 50.0
)

// DefaultConfig returns the production timing with preloading disabled.
func DefaultConfig() Config {
	return Config{
		Interval:       DefaultInterval,
		ResumeDelay:    DefaultResumeDelay,
		SwipeThreshold: DefaultSwipeThreshold,
		PauseOnHover:   true,
	}
}

func (config Config) withDefaults() Config {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.ResumeDelay <= 0 {
		config.ResumeDelay = DefaultResumeDelay
	}
	if config.SwipeThreshold <= 0 {
		config.SwipeThreshold = DefaultSwipeThreshold
	}
	if config.Clock == nil {
		config.Clock = SystemClock{}
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return config
}

// # Types

// Item is one slide.
type Item struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	URL      string `json:"url"`
}

// State is an immutable snapshot handed to subscribers.
type State struct {
	Items         []Item
	CurrentIndex  int
	Direction     int
	IsAutoPlaying bool
	IsPaused      bool
	Hovered       bool
	Loaded        []int

	// Version increases with every published change. Snapshots from timer
	// goroutines may arrive out of order; keep the highest.
	Version uint64
}

// Playing reports whether autoplay will advance the slides.
func (state State) Playing() bool {
	return state.IsAutoPlaying && !state.IsPaused
}

// Current returns the slide on screen.
func (state State) Current() (Item, bool) {
	if state.CurrentIndex < 0 || state.CurrentIndex >= len(state.Items) {
		return Item{}, false
	}
	return state.Items[state.CurrentIndex], true
}

// IsLoaded reports whether the slide at index finished preloading.
func (state State) IsLoaded(index int) bool {
	_, found := slices.BinarySearch(state.Loaded, index)
	return found
}

type subscriber struct {
	id       int
	callback func(State)
}

// # Carousel

// Carousel is safe for concurrent use.
type Carousel struct {
	config Config

	mu          sync.Mutex
	items       []Item
	current     int
	direction   int
	autoPlaying bool
	paused      bool
	hovered     bool
	loaded      map[int]struct{}
	version     uint64
	closed      bool

	touchStart, touchEnd float64
	touching, moved      bool

	tickTimer   Timer
	tickGen     uint64
	resumeTimer Timer
	resumeGen   uint64

	preloadGen    uint64
	cancelPreload context.CancelFunc
	preloads      sync.WaitGroup

	subscribers  []subscriber
	nextObserver int
}

// New creates a playing carousel over items and starts preloading them.
func New(config Config, items []Item) *Carousel {
	carousel := &Carousel{
		config:      config.withDefaults(),
		direction:   1,
		autoPlaying: true,
		loaded:      map[int]struct{}{},
	}

	carousel.mu.Lock()
	carousel.replaceItemsLocked(items)
	carousel.mu.Unlock()

	return carousel
}

// Subscribe registers callback for every published change and returns a
// function that removes it. Callbacks run outside the carousel lock and may
// call back into the carousel.
func (carousel *Carousel) Subscribe(callback func(State)) (unsubscribe func()) {
	carousel.mu.Lock()
	defer carousel.mu.Unlock()

	carousel.nextObserver++
	id := carousel.nextObserver
	carousel.subscribers = append(carousel.subscribers, subscriber{id: id, callback: callback})

	return func() {
		carousel.mu.Lock()
		defer carousel.mu.Unlock()
		carousel.subscribers = slices.DeleteFunc(carousel.subscribers, func(s subscriber) bool {
			return s.id == id
		})
	}
}

// State returns the current snapshot.
func (carousel *Carousel) State() State {
	carousel.mu.Lock()
	defer carousel.mu.Unlock()
	return carousel.snapshotLocked()
}

// # Navigation

// Next moves forward with wraparound and pauses autoplay.
func (carousel *Carousel) Next() {
	carousel.mutate(func() bool { return carousel.navigateLocked(1) })
}

// Previous moves backward with wraparound and pauses autoplay.
func (carousel *Carousel) Previous() {
	carousel.mutate(func() bool { return carousel.navigateLocked(-1) })
}

// GoToSlide jumps to index and pauses autoplay. The current index or an
// index out of range is ignored and leaves the resume timer untouched.
func (carousel *Carousel) GoToSlide(index int) {
	carousel.mutate(func() bool {
		if index == carousel.current || index < 0 || index >= len(carousel.items) {
			return false
		}

		carousel.direction = 1
		if index < carousel.current {
			carousel.direction = -1
		}
		carousel.current = index
		carousel.pauseLocked()
		return true
	})
}

// SetItems replaces the slides. The index snaps to 0 when it would fall out
// of range, the autoplay interval restarts and preloading begins again.
func (carousel *Carousel) SetItems(items []Item) {
	carousel.mutate(func() bool {
		carousel.replaceItemsLocked(items)
		return true
	})
}

// # Hover

// HoverEnter pauses autoplay while the pointer is over the carousel.
func (carousel *Carousel) HoverEnter() {
	carousel.mutate(func() bool {
		if !carousel.config.PauseOnHover || carousel.hovered {
			return false
		}
		carousel.hovered = true
		carousel.paused = true
		carousel.syncTickLocked()
		return true
	})
}

// HoverLeave ends a hover pause. A pending resume timer keeps the carousel
// paused until it fires.
func (carousel *Carousel) HoverLeave() {
	carousel.mutate(func() bool {
		if !carousel.hovered {
			return false
		}
		carousel.hovered = false
		carousel.paused = !carousel.autoPlaying
		carousel.syncTickLocked()
		return true
	})
}

// # Shutdown

// Close cancels every timer and in-flight preload and waits for preload
// workers to exit. Later calls on the carousel are ignored.
func (carousel *Carousel) Close() {
	carousel.mu.Lock()
	if carousel.closed {
		carousel.mu.Unlock()
		return
	}
	carousel.closed = true
	carousel.stopTickLocked()
	carousel.stopResumeLocked()
	carousel.stopPreloadLocked()
	carousel.subscribers = nil
	carousel.mu.Unlock()

	carousel.preloads.Wait()
}

// # Internals

// mutate runs change under the lock and publishes a snapshot if it reports
// a change.
func (carousel *Carousel) mutate(change func() bool) {
	carousel.mu.Lock()
	if carousel.closed || !change() {
		carousel.mu.Unlock()
		return
	}

	carousel.version++
	state := carousel.snapshotLocked()
	subscribers := slices.Clone(carousel.subscribers)
	carousel.mu.Unlock()

	for _, s := range subscribers {
		s.callback(state)
	}
}

func (carousel *Carousel) snapshotLocked() State {
	loaded := make([]int, 0, len(carousel.loaded))
	for index := range carousel.loaded {
		loaded = append(loaded, index)
	}
	slices.Sort(loaded)

	return State{
		Items:         slices.Clone(carousel.items),
		CurrentIndex:  carousel.current,
		Direction:     carousel.direction,
		IsAutoPlaying: carousel.autoPlaying,
		IsPaused:      carousel.paused,
		Hovered:       carousel.hovered,
		Loaded:        loaded,
		Version:       carousel.version,
	}
}

func (carousel *Carousel) navigateLocked(delta int) bool {
	if len(carousel.items) == 0 {
		return false
	}
	carousel.stepLocked(delta)
	carousel.pauseLocked()
	return true
}

func (carousel *Carousel) stepLocked(delta int) {
	count := len(carousel.items)
	carousel.current = ((carousel.current+delta)%count + count) % count
	carousel.direction = delta
}

func (carousel *Carousel) replaceItemsLocked(items []Item) {
	carousel.items = slices.Clone(items)
	if carousel.current >= len(carousel.items) {
		carousel.current = 0
	}

	carousel.stopTickLocked()
	carousel.syncTickLocked()
	carousel.startPreloadLocked()
}

func (carousel *Carousel) playingLocked() bool {
	return carousel.autoPlaying && !carousel.paused && len(carousel.items) > 0
}

// pauseLocked suspends autoplay and restarts the resume delay.
func (carousel *Carousel) pauseLocked() {
	carousel.autoPlaying = false
	carousel.paused = true

	carousel.stopResumeLocked()
	generation := carousel.resumeGen
	carousel.resumeTimer = carousel.config.Clock.AfterFunc(carousel.config.ResumeDelay, func() {
		carousel.onResume(generation)
	})

	carousel.syncTickLocked()
}

func (carousel *Carousel) onResume(generation uint64) {
	carousel.mutate(func() bool {
		if generation != carousel.resumeGen || carousel.resumeTimer == nil {
			return false
		}
		carousel.resumeTimer = nil
		carousel.autoPlaying = true
		carousel.paused = carousel.hovered
		carousel.syncTickLocked()
		return true
	})
}

// syncTickLocked arms or stops the tick timer to match the playing state.
// A running interval is left alone.
func (carousel *Carousel) syncTickLocked() {
	playing := carousel.playingLocked()
	switch {
	case playing && carousel.tickTimer == nil:
		generation := carousel.tickGen
		carousel.tickTimer = carousel.config.Clock.AfterFunc(carousel.config.Interval, func() {
			carousel.onTick(generation)
		})
	case !playing && carousel.tickTimer != nil:
		carousel.stopTickLocked()
	}
}

func (carousel *Carousel) onTick(generation uint64) {
	carousel.mutate(func() bool {
		if generation != carousel.tickGen || carousel.tickTimer == nil {
			return false
		}
		carousel.tickTimer = nil

		if !carousel.playingLocked() {
			return false
		}

		carousel.stepLocked(1)
		carousel.syncTickLocked()
		return len(carousel.items) > 1
	})
}

// stopTickLocked also invalidates a callback that already started.
func (carousel *Carousel) stopTickLocked() {
	if carousel.tickTimer != nil {
		carousel.tickTimer.Stop()
		carousel.tickTimer = nil
	}
	carousel.tickGen++
}

func (carousel *Carousel) stopResumeLocked() {
	if carousel.resumeTimer != nil {
		carousel.resumeTimer.Stop()
		carousel.resumeTimer = nil
	}
	carousel.resumeGen++
}
