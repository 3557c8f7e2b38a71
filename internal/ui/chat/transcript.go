// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/jeranaias/mathly-tui/internal/model"
	"github.com/jeranaias/mathly-tui/internal/ui/components"
	"github.com/jeranaias/mathly-tui/internal/ui/styles"
)

// entry is one rendered message.
type entry struct {
	msg *model.Message

	// Typeset output for version, at typesetWidth. Empty until the
	// first TypesetMsg arrives.
	typeset      string
	typesetWidth int
	version      int

	// Cached bubble, rebuilt when empty or the width changes.
	view      string
	viewWidth int
}

// typesetJob asks for one bot message to be typeset.
type typesetJob struct {
	id       string
	version  int
	markdown string
	raw      string
}

// transcript is the conversation.View of the TUI. The controller calls
// it synchronously from Update; the Model then drains the pending flags
// and jobs in sync.
type transcript struct {
	entries []*entry
	byID    map[string]*entry

	indicator  bool
	clearInput bool
	scroll     bool
	jobs       []typesetJob
}

func newTranscript() *transcript {
	return &transcript{byID: make(map[string]*entry)}
}

// =============================================================================
// conversation.View
// =============================================================================

func (t *transcript) AppendMessage(msg *model.Message) {
	e := &entry{msg: msg}
	t.entries = append(t.entries, e)
	t.byID[msg.ID] = e
	t.queue(e)
}

func (t *transcript) UpdateMessage(msg *model.Message) {
	e, ok := t.byID[msg.ID]
	if !ok {
		return
	}
	e.version++
	e.view = ""
	t.queue(e)
}

func (t *transcript) ShowIndicator()  { t.indicator = true }
func (t *transcript) HideIndicator()  { t.indicator = false }
func (t *transcript) ClearInput()     { t.clearInput = true }
func (t *transcript) ScrollToBottom() { t.scroll = true }

// Reset drops every entry. The indicator belongs to an outstanding
// request and stays.
func (t *transcript) Reset() {
	t.entries = nil
	t.byID = make(map[string]*entry)
	t.jobs = nil
}

// =============================================================================
// TYPESETTING
// =============================================================================

// needsTypeset reports whether msg is rendered through the typesetter.
// Apologies and user text are shown as-is.
func needsTypeset(msg *model.Message) bool {
	return msg.IsBot() && !msg.IsError
}

func (t *transcript) queue(e *entry) {
	if !needsTypeset(e.msg) {
		return
	}
	// A newer job for the same message supersedes an unsent one.
	for i := range t.jobs {
		if t.jobs[i].id == e.msg.ID {
			t.jobs = append(t.jobs[:i], t.jobs[i+1:]...)
			break
		}
	}
	t.jobs = append(t.jobs, typesetJob{
		id:       e.msg.ID,
		version:  e.version,
		markdown: e.msg.Markdown(),
		raw:      e.msg.PlainText(),
	})
}

// retypeset queues every bot message again, after a resize or theme change.
func (t *transcript) retypeset() {
	for _, e := range t.entries {
		e.view = ""
		if needsTypeset(e.msg) {
			e.version++
			t.queue(e)
		}
	}
}

// setTypeset stores a typeset result. Results for an outdated version or
// a message that is gone are dropped.
func (t *transcript) setTypeset(id string, version, width int, out string) bool {
	e, ok := t.byID[id]
	if !ok || e.version != version {
		return false
	}
	e.typeset = out
	e.typesetWidth = width
	e.view = ""
	return true
}

// takeJobs returns and clears the pending typesetting jobs.
func (t *transcript) takeJobs() []typesetJob {
	jobs := t.jobs
	t.jobs = nil
	return jobs
}

// takeFlags returns and clears the input and scroll requests.
func (t *transcript) takeFlags() (clearInput, scroll bool) {
	clearInput, scroll = t.clearInput, t.scroll
	t.clearInput, t.scroll = false, false
	return clearInput, scroll
}

// =============================================================================
// RENDERING
// =============================================================================

// Len returns the number of entries.
func (t *transcript) Len() int {
	return len(t.entries)
}

// render draws every entry at the theme width using cached bubbles where
// possible.
func (t *transcript) render(theme *styles.Theme) string {
	width := theme.Width
	if len(t.entries) == 0 {
		return ""
	}
	parts := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		if e.view == "" || e.viewWidth != width {
			e.view = renderEntry(e, theme)
			e.viewWidth = width
		}
		parts = append(parts, e.view)
	}
	return strings.Join(parts, "\n\n")
}

func renderEntry(e *entry, theme *styles.Theme) string {
	b := components.NewMessageBubble(e.msg, theme)
	b.SetWidth(theme.BubbleWidth())
	switch {
	case e.typeset != "":
		b.SetBody(e.typeset, true)
	case needsTypeset(e.msg):
		// Shown until the typesetter answers.
		b.SetBody(e.msg.Markdown(), false)
	}
	return b.View()
}
