// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mathly-tui/internal/ui/styles"
)

// =============================================================================
// LOADING INDICATOR
// =============================================================================

// LoadingIndicator is the transient entry shown below the last message while
// a reply is pending.
type LoadingIndicator struct {
	spinner   spinner.Model
	message   string
	startTime time.Time
	active    bool
	now       func() time.Time
}

// NewLoadingIndicator creates an inactive indicator with ASCII frames.
func NewLoadingIndicator() LoadingIndicator {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
		FPS:    time.Second / 6,
	}
	return LoadingIndicator{
		spinner: s,
		message: "Mathly is thinking",
		now:     time.Now,
	}
}

// SetMessage sets the text displayed next to the spinner.
func (l *LoadingIndicator) SetMessage(msg string) {
	l.message = msg
}

// Start activates the indicator and returns the first tick.
func (l *LoadingIndicator) Start() tea.Cmd {
	l.active = true
	l.startTime = l.now()
	return l.spinner.Tick
}

// Stop deactivates the indicator.
func (l *LoadingIndicator) Stop() {
	l.active = false
}

// IsActive reports whether the indicator is shown.
func (l LoadingIndicator) IsActive() bool {
	return l.active
}

// Elapsed returns the time since Start.
func (l LoadingIndicator) Elapsed() time.Duration {
	if l.startTime.IsZero() {
		return 0
	}
	return l.now().Sub(l.startTime)
}

// Update advances the animation. Ticks are dropped while inactive so the
// tick chain ends.
func (l LoadingIndicator) Update(msg tea.Msg) (LoadingIndicator, tea.Cmd) {
	if !l.active {
		return l, nil
	}
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

// View renders the indicator, or "" when inactive.
func (l LoadingIndicator) View(theme *styles.Theme) string {
	if !l.active {
		return ""
	}
	spin, text, timer := lipgloss.NewStyle(), lipgloss.NewStyle(), lipgloss.NewStyle()
	if theme != nil {
		spin, text, timer = theme.Spinner, theme.ThinkingText, theme.ThinkingTime
	}

	out := text.Render(l.message) + spin.Render(l.spinner.View())
	if elapsed := l.Elapsed(); elapsed >= time.Second {
		out += timer.Render(" (" + formatElapsed(elapsed) + ")")
	}
	return out
}

// formatElapsed formats a duration for display.
func formatElapsed(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 60 {
		return strconv.Itoa(seconds) + "s"
	}
	return strconv.Itoa(seconds/60) + "m " + strconv.Itoa(seconds%60) + "s"
}
