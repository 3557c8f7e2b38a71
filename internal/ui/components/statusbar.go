// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mathly-tui/internal/ui/styles"
	"github.com/jeranaias/mathly-tui/internal/util"
)

// StatusBar shows key hints on the left and connection info on the right.
type StatusBar struct {
	Width    int
	Bindings []key.Binding
	Info     string
	Notice   string // transient message, replaces the hints
	theme    *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) StatusBar {
	if theme == nil {
		theme = styles.NewTheme()
	}
	return StatusBar{theme: theme}
}

// View renders the bar at Width columns.
func (s StatusBar) View() string {
	left := s.Notice
	if left == "" {
		var hints []string
		for _, b := range s.Bindings {
			if !b.Enabled() {
				continue
			}
			h := b.Help()
			hints = append(hints, s.theme.ShortcutKey.Render(h.Key)+" "+s.theme.ShortcutDesc.Render(h.Desc))
		}
		left = strings.Join(hints, "  ")
	}

	inner := s.Width - 2 // padding
	if inner < 1 {
		return ""
	}

	right := s.theme.Muted.Render(s.Info)
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	var line string
	if gap >= 1 {
		line = left + strings.Repeat(" ", gap) + right
	} else {
		line = util.TruncateWidth(left, inner)
	}
	return s.theme.StatusBar.Width(s.Width).Render(line)
}
