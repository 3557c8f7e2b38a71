// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import "github.com/jeranaias/mathly-tui/internal/backend"

// User-facing apologies. Transport details never reach the transcript.
const (
	ApologyUnreachable  = "Sorry, I had trouble connecting to the server. Please try again later."
	ApologyBackendError = "Sorry, I encountered an error: "
	ApologyMalformed    = "Sorry, I received a response but couldn't understand it. Please try again."
	ApologyCamera       = "Sorry, I couldn't access your camera. Please check permissions and try again."
)

// ImagePlaceholder is the user message shown in place of a sent picture.
const ImagePlaceholder = "📷 I've sent a picture of my math problem."

// Welcome greets the user when a session starts.
const Welcome = "Hi, I'm Mathly! Ask me any math question, or press ctrl+p to " +
	"photograph a problem. Try something like $x^2 - 4 = 0$ or sqrt(144)."

// Apology maps a backend failure to the message shown to the user.
// Only backend-reported errors carry their detail text.
func Apology(err error) string {
	switch backend.TypeOf(err) {
	case backend.ErrTypeBackend:
		detail := backend.DetailOf(err)
		if detail == "" {
			detail = "unknown error"
		}
		return ApologyBackendError + detail
	case backend.ErrTypeMalformed:
		return ApologyMalformed
	default:
		return ApologyUnreachable
	}
}
