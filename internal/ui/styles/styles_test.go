// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/mathly-tui/internal/model"
)

func TestLayoutMode(t *testing.T) {
	theme := newTheme(true)
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutCompact},
		{59, LayoutCompact},
		{60, LayoutNormal},
		{99, LayoutNormal},
		{100, LayoutWide},
	}
	for _, tc := range tests {
		theme.SetSize(tc.width, 30)
		assert.Equal(t, tc.want, theme.GetLayoutMode(), "width %d", tc.width)
	}
}

func TestBubbleWidth(t *testing.T) {
	theme := newTheme(false)
	theme.SetSize(100, 40)
	assert.Equal(t, 92, theme.BubbleWidth())

	theme.SetSize(10, 40)
	assert.Equal(t, 20, theme.BubbleWidth())
}

func TestBubbleFor(t *testing.T) {
	theme := newTheme(true)
	body := "x = 2"

	user := theme.BubbleFor(model.SenderUser, false).Render(body)
	bot := theme.BubbleFor(model.SenderBot, false).Render(body)
	apology := theme.BubbleFor(model.SenderBot, true).Render(body)

	for _, out := range []string{user, bot, apology} {
		assert.Contains(t, out, body)
	}
	// User bubbles are indented, bot bubbles are not.
	assert.True(t, strings.HasPrefix(user, "    "))
	assert.False(t, strings.HasPrefix(bot, " "))
}

func TestNewThemeNamed(t *testing.T) {
	assert.True(t, NewThemeNamed("dark").IsDark)
	assert.False(t, NewThemeNamed("light").IsDark)
}
