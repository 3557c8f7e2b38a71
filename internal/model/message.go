// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript.
package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/mathly-tui/internal/mathfmt"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderBot:
		return "Mathly"
	default:
		return string(s)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// StepsHeading introduces the step-by-step section of a bot message.
const StepsHeading = "Step-by-step solution:"

// Message represents a single entry in the transcript.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Text      string `json:"text"`
	Formatted string `json:"-"` // Typesetter input, bot messages only

	// Solution steps appended after creation
	HasSteps       bool     `json:"has_steps"`
	Steps          []string `json:"steps,omitempty"`
	FormattedSteps []string `json:"-"`

	// IsError marks bot apologies produced by failures
	IsError bool `json:"is_error,omitempty"`
}

// NewUserMessage creates a user message. User text is never formatted.
func NewUserMessage(text string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Sender:    SenderUser,
		Timestamp: time.Now(),
		Text:      text,
	}
}

// NewBotMessage creates a bot message and formats its text.
func NewBotMessage(text string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Sender:    SenderBot,
		Timestamp: time.Now(),
		Text:      text,
		Formatted: mathfmt.Format(text),
	}
}

// NewErrorMessage creates a bot apology.
func NewErrorMessage(text string) *Message {
	msg := NewBotMessage(text)
	msg.IsError = true
	return msg
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// IsBot reports whether the bot authored the message.
func (m *Message) IsBot() bool {
	return m.Sender == SenderBot
}

// appendSteps adds steps in order. Empty input is a no-op.
func (m *Message) appendSteps(steps []string) {
	if len(steps) == 0 {
		return
	}
	m.HasSteps = true
	m.Steps = append(m.Steps, steps...)
	m.FormattedSteps = append(m.FormattedSteps, mathfmt.FormatAll(steps)...)
}

// DisplayContent returns the body text to show, without steps.
func (m *Message) DisplayContent() string {
	if m.IsBot() {
		return m.Formatted
	}
	return m.Text
}

// Markdown returns the typesetter input for the whole message, including
// the step-by-step section when present.
func (m *Message) Markdown() string {
	var b strings.Builder
	b.WriteString(m.DisplayContent())
	if m.HasSteps {
		b.WriteString("\n\n**")
		b.WriteString(StepsHeading)
		b.WriteString("**\n")
		for i, step := range m.FormattedSteps {
			b.WriteString("\n")
			b.WriteString(StepLabel(i))
			b.WriteString(" ")
			b.WriteString(step)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// PlainText returns the message with steps, unformatted, for fallbacks and
// clipboard copies.
func (m *Message) PlainText() string {
	if !m.HasSteps {
		return m.Text
	}
	var b strings.Builder
	b.WriteString(m.Text)
	b.WriteString("\n\n")
	b.WriteString(StepsHeading)
	for i, step := range m.Steps {
		b.WriteString("\n")
		b.WriteString(strings.Trim(StepLabel(i), "*"))
		b.WriteString(" ")
		b.WriteString(step)
	}
	return b.String()
}

// StepLabel returns the bold "Step N:" label for the zero-based index i.
func StepLabel(i int) string {
	return "**Step " + strconv.Itoa(i+1) + ":**"
}
