// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package carousel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleKey(t *testing.T) {
	tests := []struct {
		name    string
		key     Key
		focus   Focus
		handled bool
		want    int
	}{
		{"right arrow", KeyArrowRight, FocusInside, true, 3},
		{"left arrow", KeyArrowLeft, FocusInside, true, 1},
		{"space", KeySpace, FocusBody, true, 3},
		{"enter", KeyEnter, FocusBody, true, 3},
		{"home", KeyHome, FocusInside, true, 0},
		{"end", KeyEnd, FocusInside, true, 4},
		{"focus elsewhere", KeyArrowRight, FocusOutside, false, 2},
		{"unbound key", Key("a"), FocusInside, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carousel, _ := newTestCarousel(t, 5)
			carousel.GoToSlide(2)

			handled := carousel.HandleKey(tt.key, tt.focus)

			assert.Equal(t, tt.handled, handled)
			assert.Equal(t, tt.want, carousel.State().CurrentIndex)
		})
	}
}

func TestSwipe(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		want       int
	}{
		{"leftward past threshold is next", 300, 200, 2},
		{"rightward past threshold is previous", 200, 300, 0},
		{"short drag", 200, 160, 1},
		{"exactly the threshold", 200, 150, 1},
		{"from the screen edge", 60, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carousel, _ := newTestCarousel(t, 3)
			carousel.GoToSlide(1)

			carousel.Swipe(tt.start, tt.end)

			assert.Equal(t, tt.want, carousel.State().CurrentIndex)
		})
	}
}

func TestTouch_TapDoesNothing(t *testing.T) {
	carousel, _ := newTestCarousel(t, 3)

	carousel.TouchStart(120)
	carousel.TouchEnd()
	carousel.TouchMove(10)
	carousel.TouchEnd()

	state := carousel.State()
	assert.Equal(t, 0, state.CurrentIndex)
	assert.True(t, state.Playing())
}
