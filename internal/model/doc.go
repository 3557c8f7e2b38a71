// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript.
//
// This package defines the core domain types shared by the conversation
// controller, the TUI and the line-mode REPL.
//
// # Key Types
//
//   - Message: one chat entry authored by the user or the bot, with optional
//     solution steps
//   - Sender: message author enumeration (user, bot)
//   - Conversation: append-only, ordered list of messages
//
// # Usage
//
//	conv := model.NewConversation()
//	conv.AddUserMessage("solve x^2 = 4")
//	bot := conv.AddBotMessage("x = ±2")
//	_ = conv.AppendSteps(bot.ID, []string{"take the square root"})
//
// Bot text is run through mathfmt.Format exactly once, when the message is
// created; steps are formatted once when appended.
package model
