// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import "github.com/jeranaias/mathly-tui/internal/model"

// View is the rendering surface the Controller drives.
type View interface {
	// AppendMessage adds a new entry below the last one.
	AppendMessage(msg *model.Message)

	// UpdateMessage re-renders an entry whose steps changed.
	UpdateMessage(msg *model.Message)

	ShowIndicator()
	HideIndicator()
	ClearInput()
	ScrollToBottom()
}

// Resetter is implemented by views that can drop every entry at once.
// Controller.Clear calls it when available. The loading indicator is not
// an entry and must survive Reset.
type Resetter interface {
	Reset()
}

// Discard is a View that renders nothing.
var Discard View = discardView{}

type discardView struct{}

func (discardView) AppendMessage(*model.Message) {}
func (discardView) UpdateMessage(*model.Message) {}
func (discardView) ShowIndicator()               {}
func (discardView) HideIndicator()               {}
func (discardView) ClearInput()                  {}
func (discardView) ScrollToBottom()              {}
