// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the TUI.
//
// This file defines the Bubble Tea message types used by the chat
// interface. Every asynchronous operation reports back through one of
// them so controller state only changes inside Update.
package chat

import (
	"github.com/jeranaias/mathly-tui/internal/capture"
	"github.com/jeranaias/mathly-tui/internal/config"
	"github.com/jeranaias/mathly-tui/internal/conversation"
)

// =============================================================================
// BACKEND MESSAGES
// =============================================================================

// ReplyMsg carries the outcome of a chat or image request.
type ReplyMsg struct {
	Result conversation.Result
}

// CommandResultMsg carries the outcome of a /calc or /formula command.
type CommandResultMsg struct {
	Text string
	Err  error
}

// BackendStatusMsg reports whether the backend answered the health check.
type BackendStatusMsg struct {
	Err error
}

// =============================================================================
// TYPESETTING MESSAGES
// =============================================================================

// TypesetMsg delivers the typeset rendering of a bot message.
type TypesetMsg struct {
	ID      string
	Version int
	Width   int
	Output  string
	Raw     string // plain text shown on failure
	Err     error
}

// =============================================================================
// CAMERA MESSAGES
// =============================================================================

// CameraOpenedMsg carries the result of the device request. Gen identifies
// the open it answers.
type CameraOpenedMsg struct {
	Stream capture.Stream
	Err    error
	Gen    int
}

// PreviewTickMsg asks for the next preview frame. Ticks from an earlier
// preview run carry a stale Gen and are dropped.
type PreviewTickMsg struct {
	Gen int
}

// =============================================================================
// MISC MESSAGES
// =============================================================================

// ConfigReloadedMsg is sent by the config watcher after the file changed.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// NoticeExpiredMsg clears the status bar notice with the same sequence.
type NoticeExpiredMsg struct {
	Seq int
}
