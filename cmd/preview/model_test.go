// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/envision/internal/carousel"
)

func newTestModel(t *testing.T, result carousel.Result) (model, *carousel.Carousel) {
	t.Helper()

	slides := carousel.New(carousel.Config{
		Interval:     time.Hour,
		ResumeDelay:  time.Hour,
		PauseOnHover: true,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, result.Items)
	t.Cleanup(slides.Close)

	return newModel(slides, result, make(chan struct{})), slides
}

func press(t *testing.T, m model, msg tea.KeyMsg) (model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	next, ok := updated.(model)
	require.True(t, ok)
	return next, cmd
}

func runes(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func TestModel_Navigation(t *testing.T) {
	m, slides := newTestModel(t, carousel.Result{Items: carousel.DefaultSlides, Origin: carousel.OriginLive})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.state.CurrentIndex)
	assert.False(t, m.state.Playing())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, len(carousel.DefaultSlides)-1, m.state.CurrentIndex)

	m, _ = press(t, m, runes("3"))
	assert.Equal(t, 2, m.state.CurrentIndex)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, m.state.CurrentIndex)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, slides.State().CurrentIndex, m.state.CurrentIndex)
	assert.Equal(t, len(carousel.DefaultSlides)-1, m.state.CurrentIndex)
}

func TestModel_HoverToggle(t *testing.T) {
	m, _ := newTestModel(t, carousel.Result{Items: carousel.DefaultSlides, Origin: carousel.OriginLive})

	m, _ = press(t, m, runes("m"))
	assert.True(t, m.state.Hovered)
	assert.Contains(t, m.View(), "hover")

	m, _ = press(t, m, runes("m"))
	assert.False(t, m.state.Hovered)
	assert.True(t, m.state.Playing())
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t, carousel.Result{Items: carousel.DefaultSlides, Origin: carousel.OriginLive})

	_, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_ViewShowsFallback(t *testing.T) {
	m, _ := newTestModel(t, carousel.Result{
		Items:  carousel.DefaultSlides,
		Origin: carousel.OriginFallbackError,
		Err:    errors.New("connection refused"),
	})

	view := m.View()
	assert.Contains(t, view, "API unreachable")
	assert.Contains(t, view, carousel.DefaultSlides[0].Title)
	assert.Contains(t, view, "1/5")
}

func TestModel_RefreshPullsState(t *testing.T) {
	m, slides := newTestModel(t, carousel.Result{Items: carousel.DefaultSlides, Origin: carousel.OriginLive})

	slides.GoToSlide(3)
	updated, cmd := m.Update(refreshMsg{})
	require.NotNil(t, cmd)
	assert.Equal(t, 3, updated.(model).state.CurrentIndex)
}
