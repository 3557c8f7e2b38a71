// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the mathly TUI.
//
//   - LoadingIndicator: the "Mathly is thinking" spinner entry
//   - MessageBubble: one transcript entry with sender label and timestamp
//   - RenderPreview: camera frames drawn with half-block characters
//   - StatusBar: key hints and connection info
//
// Components are plain values with View methods; the chat model owns them.
package components
