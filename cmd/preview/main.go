// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Command preview plays the hero carousel in a terminal.

It loads the published hero images from a running API, falls back to the
built-in slides when there are none or the API is unreachable, and drives
the same carousel state machine a web front-end would.

Usage:

	preview --api http://localhost:5000 --interval 4s
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/taibuivan/envision/internal/carousel"
)

type options struct {
	apiURL      string
	section     string
	interval    time.Duration
	resumeDelay time.Duration
	hoverPause  bool
	preload     bool
	timeout     time.Duration
	logFile     string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := options{}

	command := &cobra.Command{
		Use:           "preview",
		Short:         "Play the studio hero carousel in the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := command.Flags()
	flags.StringVar(&opts.apiURL, "api", "http://localhost:5000", "base URL of the Envision API")
	flags.StringVar(&opts.section, "section", "hero", "image section to play")
	flags.DurationVar(&opts.interval, "interval", carousel.DefaultInterval, "autoplay interval")
	flags.DurationVar(&opts.resumeDelay, "resume", carousel.DefaultResumeDelay, "resume delay after navigating")
	flags.BoolVar(&opts.hoverPause, "hover-pause", true, "pause while the hover toggle is on")
	flags.BoolVar(&opts.preload, "preload", true, "download and decode every slide in the background")
	flags.DurationVar(&opts.timeout, "timeout", 5*time.Second, "HTTP timeout for the slide list and each image")
	flags.StringVar(&opts.logFile, "log-file", "", "write JSON logs to this file")

	return command
}

func run(ctx context.Context, opts options) error {
	logger, closeLog, err := newLogger(opts.logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	client := &http.Client{Timeout: opts.timeout}

	fetchCtx, cancel := context.WithTimeout(ctx, opts.timeout)
	result := carousel.Load(fetchCtx, carousel.HTTPFetcher{BaseURL: opts.apiURL, Section: opts.section, Client: client}, carousel.DefaultSlides)
	cancel()

	if result.Err != nil {
		logger.WarnContext(ctx, "carousel_fallback", slog.String("origin", string(result.Origin)), slog.Any("error", result.Err))
	} else {
		logger.InfoContext(ctx, "carousel_loaded", slog.String("origin", string(result.Origin)), slog.Int("slides", len(result.Items)))
	}

	config := carousel.Config{
		Interval:     opts.interval,
		ResumeDelay:  opts.resumeDelay,
		PauseOnHover: opts.hoverPause,
		Logger:       logger,
	}
	if opts.preload {
		config.Loader = carousel.HTTPLoader{Client: client}
	}

	slides := carousel.New(config, result.Items)
	defer slides.Close()

	// Subscribers must not block: a navigation key runs inside Update, which
	// is also the loop that would drain a blocking Send.
	refresh := make(chan struct{}, 1)
	unsubscribe := slides.Subscribe(func(carousel.State) {
		select {
		case refresh <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	program := tea.NewProgram(newModel(slides, result, refresh), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}

func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, nil)), func() {}, nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("preview: open log file: %w", err)
	}
	return slog.New(slog.NewJSONHandler(file, nil)), func() { _ = file.Close() }, nil
}
