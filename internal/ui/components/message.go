// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mathly-tui/internal/model"
	"github.com/jeranaias/mathly-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one transcript entry.
type MessageBubble struct {
	Message *model.Message

	// Body is the text inside the bubble. Typeset bot output arrives
	// already wrapped; anything else is wrapped to Width.
	Body       string
	Prewrapped bool

	Width         int
	ShowTimestamp bool
	theme         *styles.Theme
}

// NewMessageBubble creates a bubble showing the message's raw content.
func NewMessageBubble(msg *model.Message, theme *styles.Theme) *MessageBubble {
	if theme == nil {
		theme = styles.NewTheme()
	}
	b := &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
	}
	if msg != nil {
		b.Body = msg.DisplayContent()
	}
	return b
}

// SetBody replaces the bubble content.
func (b *MessageBubble) SetBody(body string, prewrapped bool) {
	b.Body = body
	b.Prewrapped = prewrapped
}

// SetWidth sets the content width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the label line and the bubble.
func (b *MessageBubble) View() string {
	if b.Message == nil {
		return ""
	}

	body := strings.TrimRight(b.Body, "\n")
	if body == "" {
		body = "..."
	}

	style := b.theme.BubbleFor(b.Message.Sender, b.Message.IsError)
	if !b.Prewrapped && b.Width > 0 {
		style = style.Width(b.Width)
	}
	bubble := style.Render(body)

	header := b.theme.SenderLabel.Render(b.Message.Sender.DisplayName())
	if b.ShowTimestamp && !b.Message.Timestamp.IsZero() {
		header += " " + b.theme.Timestamp.Render(b.Message.Timestamp.Format("15:04"))
	}
	if b.Message.Sender == model.SenderUser {
		header = lipgloss.NewStyle().MarginLeft(4).Render(header)
	}

	return header + "\n" + bubble
}
