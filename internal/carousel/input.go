// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package carousel

// Key names follow the DOM KeyboardEvent.key values.
type Key string

const (
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
	KeySpace      Key = " "
	KeyEnter      Key = "Enter"
	KeyHome       Key = "Home"
	KeyEnd        Key = "End"
)

// Focus describes where keyboard focus sits when a key arrives.
type Focus int

const (
	// FocusOutside is any element outside the carousel.
	FocusOutside Focus = iota
	// FocusInside is the carousel region or one of its children.
	FocusInside
	// FocusBody is the document body, the page-level fallback.
	FocusBody
)

/*
HandleKey maps a key press onto navigation.

Keys are ignored unless focus is inside the carousel or on the body, so
that typing in a form elsewhere on the page never flips slides.

Returns true when the key was consumed and the caller should suppress the
default browser action.
*/
func (carousel *Carousel) HandleKey(key Key, focus Focus) bool {
	if focus != FocusInside && focus != FocusBody {
		return false
	}

	switch key {
	case KeyArrowLeft:
		carousel.Previous()
	case KeyArrowRight, KeySpace, KeyEnter:
		carousel.Next()
	case KeyHome:
		carousel.GoToSlide(0)
	case KeyEnd:
		carousel.GoToSlide(carousel.State().lastIndex())
	default:
		return false
	}
	return true
}

func (state State) lastIndex() int {
	return len(state.Items) - 1
}

// # Touch

// TouchStart begins a horizontal drag at x.
func (carousel *Carousel) TouchStart(x float64) {
	carousel.mu.Lock()
	defer carousel.mu.Unlock()

	carousel.touchStart = x
	carousel.touching = true
	carousel.moved = false
}

// TouchMove records the latest pointer position of the drag.
func (carousel *Carousel) TouchMove(x float64) {
	carousel.mu.Lock()
	defer carousel.mu.Unlock()

	if carousel.touching {
		carousel.touchEnd = x
		carousel.moved = true
	}
}

// TouchEnd finishes the drag. A leftward drag past the threshold is Next,
// a rightward one is Previous. Taps and short drags do nothing.
func (carousel *Carousel) TouchEnd() {
	carousel.mutate(func() bool {
		if !carousel.touching || !carousel.moved {
			carousel.touching = false
			return false
		}
		carousel.touching = false

		distance := carousel.touchStart - carousel.touchEnd
		switch {
		case distance > carousel.config.SwipeThreshold:
			return carousel.navigateLocked(1)
		case distance < -carousel.config.SwipeThreshold:
			return carousel.navigateLocked(-1)
		default:
			return false
		}
	})
}

// Swipe replays a complete drag from start to end.
func (carousel *Carousel) Swipe(start, end float64) {
	carousel.TouchStart(start)
	carousel.TouchMove(end)
	carousel.TouchEnd()
}
