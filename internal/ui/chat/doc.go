// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main chat view for the mathly TUI.

The package wires the conversation and capture controllers into a Bubble
Tea program. Controller state only changes inside Update; backend calls,
typesetting and camera requests run as commands and report back as
messages.

# Key Components

## Model (model.go)

The Model holds the controllers, the transcript and the bubbles components
(viewport, text input, loading indicator).

## Transcript (transcript.go)

The transcript is the conversation.View implementation. It caches one
rendered bubble per message and collects typesetting jobs for bot
messages.

## Camera Overlay (camera.go)

While the camera is open the transcript is replaced by a half-block
preview of the live frame. Space captures, r retakes, enter sends and esc
closes.

## Commands (commands.go)

Slash commands:
  - /help - Show available commands
  - /clear - Clear the conversation
  - /calc <expression> - Evaluate an expression on the backend
  - /formula <category> [topic] - Look up a formula
  - /camera - Open the camera
  - /copy - Copy the last answer
  - /quit - Exit

# Usage

	client := backend.NewClient()
	ts, _ := mathfmt.NewTypesetter(mathfmt.TypesetterOptions{Theme: "auto"})
	m := chat.New(chat.Options{
		Client:     client,
		Camera:     capture.FileCamera{Path: "problem.jpg"},
		Typesetter: ts,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
*/
package chat
