// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the mathly TUI.
//
// Colors are Lip Gloss AdaptiveColors so they follow the terminal's light or
// dark background. A Theme bundles the styles used by the chat view; it is
// rebuilt when the configured theme changes.
//
//	theme := styles.NewTheme()
//	theme.SetSize(width, height)
//	bubble := theme.BubbleFor(msg.Sender, msg.IsError).Render(body)
package styles
