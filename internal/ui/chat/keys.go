// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/mathly-tui/internal/capture"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat interface.
type KeyMap struct {
	// Chat
	Submit   key.Binding
	Camera   key.Binding
	Copy     key.Binding
	Clear    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding

	// Camera overlay
	Capture     key.Binding
	Retake      key.Binding
	SendPhoto   key.Binding
	CloseCamera key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Camera: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("C-p", "camera"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy answer"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "clear"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "page down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("C-c", "quit"),
		),
		Capture: key.NewBinding(
			key.WithKeys(" ", "c"),
			key.WithHelp("space", "capture"),
		),
		Retake: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retake"),
		),
		SendPhoto: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send photo"),
		),
		CloseCamera: key.NewBinding(
			key.WithKeys("esc", "ctrl+p"),
			key.WithHelp("esc", "close"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar for the chat.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Camera, k.Copy, k.Clear, k.Quit}
}

// CameraHelp returns the bindings that apply in the given capture phase.
func (k KeyMap) CameraHelp(phase capture.Phase) []key.Binding {
	switch phase {
	case capture.PhasePreviewing:
		return []key.Binding{k.Capture, k.CloseCamera}
	case capture.PhaseCaptured:
		return []key.Binding{k.SendPhoto, k.Retake, k.CloseCamera}
	default:
		return []key.Binding{k.CloseCamera}
	}
}
