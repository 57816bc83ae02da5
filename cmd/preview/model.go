// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taibuivan/envision/internal/carousel"
)

// # Key Bindings

type keyMap struct {
	Previous key.Binding
	Next     key.Binding
	Advance  key.Binding
	First    key.Binding
	Last     key.Binding
	Jump     key.Binding
	Hover    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Previous: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous")),
		Next:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Advance:  key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "advance")),
		First:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home", "first")),
		Last:     key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end", "last")),
		Jump:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "jump")),
		Hover:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "hover")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (keys keyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Previous, keys.Next, keys.Hover, keys.Help, keys.Quit}
}

// FullHelp implements help.KeyMap.
func (keys keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.Previous, keys.Next, keys.Advance},
		{keys.First, keys.Last, keys.Jump},
		{keys.Hover, keys.Help, keys.Quit},
	}
}

// # Styles

var (
	frameStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(1, 3)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230"))
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	blurredStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	urlStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	activeDot     = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Render("●")
	idleDot       = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("○")
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pausedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// # Model

type refreshMsg struct{}

type model struct {
	slides  *carousel.Carousel
	refresh <-chan struct{}
	state   carousel.State
	origin  carousel.Origin
	loadErr error

	keys     keyMap
	help     help.Model
	hovering bool
	width    int
}

func newModel(slides *carousel.Carousel, result carousel.Result, refresh <-chan struct{}) model {
	return model{
		slides:  slides,
		refresh: refresh,
		state:   slides.State(),
		origin:  result.Origin,
		loadErr: result.Err,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

// waitForRefresh turns one carousel change notification into a message.
func waitForRefresh(refresh <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-refresh; !ok {
			return nil
		}
		return refreshMsg{}
	}
}

func (m model) Init() tea.Cmd {
	return waitForRefresh(m.refresh)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.state = m.slides.State()
		return m, waitForRefresh(m.refresh)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Previous):
			m.slides.HandleKey(carousel.KeyArrowLeft, carousel.FocusInside)
		case key.Matches(msg, m.keys.Next):
			m.slides.HandleKey(carousel.KeyArrowRight, carousel.FocusInside)
		case key.Matches(msg, m.keys.Advance):
			m.slides.HandleKey(carousel.KeySpace, carousel.FocusInside)
		case key.Matches(msg, m.keys.First):
			m.slides.HandleKey(carousel.KeyHome, carousel.FocusInside)
		case key.Matches(msg, m.keys.Last):
			m.slides.HandleKey(carousel.KeyEnd, carousel.FocusInside)
		case key.Matches(msg, m.keys.Jump):
			m.slides.GoToSlide(int(msg.String()[0]-'1'))
		case key.Matches(msg, m.keys.Hover):
			m.hovering = !m.hovering
			if m.hovering {
				m.slides.HoverEnter()
			} else {
				m.slides.HoverLeave()
			}
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		m.state = m.slides.State()
	}

	return m, nil
}

func (m model) View() string {
	var body strings.Builder

	item, ok := m.state.Current()
	switch {
	case !ok:
		body.WriteString(blurredStyle.Render("No slides"))
	default:
		title := titleStyle.Render(item.Title)
		if !m.state.IsLoaded(m.state.CurrentIndex) && item.URL != "" {
			title = blurredStyle.Render(item.Title + " (loading)")
		}
		body.WriteString(title + "\n")
		if item.Subtitle != "" {
			body.WriteString(subtitleStyle.Render(item.Subtitle) + "\n")
		}
		if item.URL != "" {
			body.WriteString(urlStyle.Render(item.URL) + "\n")
		}
	}

	body.WriteString("\n" + m.dots() + "\n")

	var view strings.Builder
	view.WriteString(m.banner() + "\n")
	view.WriteString(frameStyle.Render(body.String()) + "\n")
	view.WriteString(m.status() + "\n\n")
	view.WriteString(m.help.View(m.keys))
	return view.String()
}

func (m model) dots() string {
	dots := make([]string, len(m.state.Items))
	for index := range m.state.Items {
		dots[index] = idleDot
		if index == m.state.CurrentIndex {
			dots[index] = activeDot
		}
	}
	return strings.Join(dots, " ")
}

func (m model) status() string {
	position := fmt.Sprintf("%d/%d", m.state.CurrentIndex+1, len(m.state.Items))
	if len(m.state.Items) == 0 {
		position = "0/0"
	}

	switch {
	case m.state.Playing():
		return statusStyle.Render("▶ playing " + position)
	case m.state.Hovered:
		return pausedStyle.Render("⏸ hover " + position)
	default:
		return pausedStyle.Render("⏸ paused " + position)
	}
}

func (m model) banner() string {
	switch m.origin {
	case carousel.OriginFallbackError:
		return warnStyle.Render(fmt.Sprintf("API unreachable (%v), showing built-in slides", m.loadErr))
	case carousel.OriginFallbackEmpty:
		return pausedStyle.Render("No hero images published, showing built-in slides")
	default:
		return statusStyle.Render("Live slides")
	}
}
