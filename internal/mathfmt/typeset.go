// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mathfmt prepares bot-authored math text for display.
package mathfmt

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// ErrTypeset is returned (wrapped) when the typesetting engine fails.
var ErrTypeset = errors.New("typeset failed")

// inlineSpan matches a \( ... \) inline-math span produced by Format.
var inlineSpan = regexp.MustCompile(`\\\((.+?)\\\)`)

// Engine renders markdown into terminal output.
type Engine interface {
	Render(in string) (string, error)
}

// TypesetterOptions configures a Typesetter.
type TypesetterOptions struct {
	// Theme is "auto", "dark", "light" or "ascii" (default: auto)
	Theme string
	// Width is the word-wrap column (default: 80)
	Width int
}

// Typesetter renders formatted math text with glamour.
// It is safe for concurrent use; renders are serialized.
type Typesetter struct {
	mu      sync.Mutex
	theme   string
	engines map[int]Engine

	// newEngine builds an engine for a wrap width. Replaced in tests.
	newEngine func(style string, width int) (Engine, error)
	width     int
}

// NewTypesetter creates a typesetter. The engine for the default width is
// built eagerly so configuration errors surface at startup.
func NewTypesetter(opts TypesetterOptions) (*Typesetter, error) {
	if opts.Width <= 0 {
		opts.Width = 80
	}
	t := &Typesetter{
		theme:     resolveTheme(opts.Theme),
		engines:   make(map[int]Engine),
		newEngine: newGlamourEngine,
		width:     opts.Width,
	}
	if _, err := t.engine(opts.Width); err != nil {
		return nil, err
	}
	return t, nil
}

// NewTypesetterWithEngine wraps an existing engine. Used by callers that
// need a fixed renderer (tests, plain output).
func NewTypesetterWithEngine(e Engine) *Typesetter {
	return &Typesetter{
		theme:   "custom",
		engines: map[int]Engine{0: e},
		newEngine: func(string, int) (Engine, error) {
			return e, nil
		},
	}
}

func newGlamourEngine(style string, width int) (Engine, error) {
	return glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
}

// resolveTheme maps a configured theme name to a glamour standard style.
func resolveTheme(theme string) string {
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case "dark":
		return "dark"
	case "light":
		return "light"
	case "ascii", "plain":
		return "ascii"
	default:
		if termenv.HasDarkBackground() {
			return "dark"
		}
		return "light"
	}
}

// Theme returns the resolved glamour style name.
func (t *Typesetter) Theme() string {
	return t.theme
}

// Typeset renders formatted text for display at the given width.
// A width <= 0 uses the typesetter's default width.
func (t *Typesetter) Typeset(ctx context.Context, formatted string, width int) (out string, err error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTypeset, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if width <= 0 {
		width = t.width
	}
	e, err := t.engine(width)
	if err != nil {
		return "", err
	}

	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = fmt.Errorf("%w: renderer panic: %v", ErrTypeset, r)
		}
	}()

	rendered, err := e.Render(ToMarkdown(formatted))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTypeset, err)
	}
	return strings.Trim(rendered, "\n"), nil
}

// engine returns (building if needed) the engine for a width. Caller holds mu.
func (t *Typesetter) engine(width int) (Engine, error) {
	if e, ok := t.engines[width]; ok {
		return e, nil
	}
	if e, ok := t.engines[0]; ok && t.theme == "custom" {
		return e, nil
	}
	e, err := t.newEngine(t.theme, width)
	if err != nil {
		return nil, fmt.Errorf("%w: create renderer: %v", ErrTypeset, err)
	}
	t.engines[width] = e
	return e, nil
}

// ToMarkdown converts formatted text into the markdown fed to the engine.
// Inline-math spans become code spans so they stand out and are not
// reinterpreted as emphasis.
func ToMarkdown(formatted string) string {
	return inlineSpan.ReplaceAllStringFunc(formatted, func(span string) string {
		inner := inlineSpan.FindStringSubmatch(span)[1]
		fence := "`"
		if strings.Contains(inner, "`") {
			fence = "``"
		}
		return fence + inner + fence
	})
}

// Fallback is the plain-text rendering shown when typesetting fails.
func Fallback(raw string) string {
	return "Error rendering math. Raw content: " + raw
}
