// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript.
package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrStepsTarget is returned when steps are appended to anything other than
// the most recent message, or to a user message.
var ErrStepsTarget = errors.New("steps can only be appended to the latest bot message")

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is the ordered transcript. It is append-only: messages are
// never removed individually, only by Clear.
type Conversation struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []*Message `json:"messages"`
}

// NewConversation creates an empty conversation with a generated ID.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
}

// AddUserMessage creates and appends a user message.
func (c *Conversation) AddUserMessage(text string) *Message {
	msg := NewUserMessage(text)
	c.AddMessage(msg)
	return msg
}

// AddBotMessage creates and appends a bot message.
func (c *Conversation) AddBotMessage(text string) *Message {
	msg := NewBotMessage(text)
	c.AddMessage(msg)
	return msg
}

// AddErrorMessage creates and appends a bot apology.
func (c *Conversation) AddErrorMessage(text string) *Message {
	msg := NewErrorMessage(text)
	c.AddMessage(msg)
	return msg
}

// AppendSteps appends solution steps to the message with the given ID.
// Only the most recent message may be augmented, and only if the bot wrote it.
func (c *Conversation) AppendSteps(id string, steps []string) error {
	last := c.Last()
	if last == nil || last.ID != id || !last.IsBot() {
		return ErrStepsTarget
	}
	last.appendSteps(steps)
	c.UpdatedAt = time.Now()
	return nil
}

// Last returns the most recent message, or nil if empty.
func (c *Conversation) Last() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// LastBot returns the most recent bot message that is not an apology.
func (c *Conversation) LastBot() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].IsBot() && !c.Messages[i].IsError {
			return c.Messages[i]
		}
	}
	return nil
}

// Count returns the number of messages.
func (c *Conversation) Count() int {
	return len(c.Messages)
}

// Clear tears the whole transcript down.
func (c *Conversation) Clear() {
	c.Messages = make([]*Message, 0)
	c.UpdatedAt = time.Now()
}
