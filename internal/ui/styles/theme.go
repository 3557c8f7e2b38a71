// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/mathly-tui/internal/model"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// Header
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderInfo  lipgloss.Style

	// Message bubbles
	UserBubble  lipgloss.Style
	BotBubble   lipgloss.Style
	ErrorBubble lipgloss.Style
	SenderLabel lipgloss.Style
	Timestamp   lipgloss.Style

	// Input area
	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// Loading indicator
	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
	ThinkingTime lipgloss.Style

	// Camera overlay
	CameraBox     lipgloss.Style
	CameraTitle   lipgloss.Style
	CameraHint    lipgloss.Style
	CameraWaiting lipgloss.Style

	// Plain text helpers
	Muted lipgloss.Style
}

// NewTheme creates a theme for the detected terminal background.
func NewTheme() *Theme {
	return newTheme(termenv.HasDarkBackground())
}

// NewThemeNamed creates a theme for a config theme name. "auto" and
// unknown names detect the background.
func NewThemeNamed(name string) *Theme {
	switch name {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return newTheme(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return newTheme(false)
	default:
		return NewTheme()
	}
}

func newTheme(isDark bool) *Theme {
	t := &Theme{
		IsDark:       isDark,
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderInfo = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1).
		MarginLeft(4)

	t.BotBubble = lipgloss.NewStyle().
		Foreground(BotBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(BotBubbleBorder).
		Padding(0, 1).
		MarginRight(4)

	t.ErrorBubble = t.BotBubble.
		Foreground(ErrorBubbleFg).
		BorderForeground(ErrorBubbleBorder)

	t.SenderLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ThinkingTime = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.CameraBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)

	t.CameraTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.CameraHint = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.CameraWaiting = lipgloss.NewStyle().
		Foreground(Amber).
		Italic(true)

	t.Muted = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// BubbleFor returns the bubble style for a message author.
func (t *Theme) BubbleFor(sender model.Sender, isError bool) lipgloss.Style {
	switch {
	case sender == model.SenderUser:
		return t.UserBubble
	case isError:
		return t.ErrorBubble
	default:
		return t.BotBubble
	}
}

// SetSize updates the theme dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// BubbleWidth is the content width available inside a message bubble.
func (t *Theme) BubbleWidth() int {
	// margin 4 + border 2 + padding 2
	w := t.Width - 8
	if w < 20 {
		w = 20
	}
	return w
}

// GetLayoutMode returns the layout mode based on terminal width.
func (t *Theme) GetLayoutMode() LayoutMode {
	switch {
	case t.Width < 60:
		return LayoutCompact
	case t.Width < 100:
		return LayoutNormal
	default:
		return LayoutWide
	}
}

// LayoutMode represents different layout configurations.
type LayoutMode int

const (
	LayoutCompact LayoutMode = iota // < 60 columns
	LayoutNormal                    // 60-99 columns
	LayoutWide                      // >= 100 columns
)
