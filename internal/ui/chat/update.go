// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mathly-tui/internal/backend"
	"github.com/jeranaias/mathly-tui/internal/capture"
	"github.com/jeranaias/mathly-tui/internal/conversation"
	"github.com/jeranaias/mathly-tui/internal/mathfmt"
)

const (
	// typesetTimeout bounds one typesetting job.
	typesetTimeout = 5 * time.Second

	// healthCheckTimeout bounds the startup backend check.
	healthCheckTimeout = 5 * time.Second

	// noticeDuration is how long a status bar notice stays visible.
	noticeDuration = 3 * time.Second
)

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// dispatchCmd performs a backend request off the event loop.
func dispatchCmd(conv *conversation.Controller, req conversation.Request) tea.Cmd {
	return func() tea.Msg {
		return ReplyMsg{Result: conv.Dispatch(context.Background(), req)}
	}
}

// typesetCmd renders one bot message.
func typesetCmd(ts *mathfmt.Typesetter, job typesetJob, width int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), typesetTimeout)
		defer cancel()

		out, err := ts.Typeset(ctx, job.markdown, width)
		return TypesetMsg{
			ID:      job.id,
			Version: job.version,
			Width:   width,
			Output:  out,
			Raw:     job.raw,
			Err:     err,
		}
	}
}

// checkBackendCmd checks whether the backend is reachable.
func checkBackendCmd(client Backend) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return BackendStatusMsg{Err: backend.ErrUnreachable}
		}
		ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
		defer cancel()
		return BackendStatusMsg{Err: client.CheckRunning(ctx)}
	}
}

// calcCmd evaluates an expression on the backend.
func calcCmd(client Backend, expr string) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return CommandResultMsg{Err: backend.ErrUnreachable}
		}
		result, err := client.Calculate(context.Background(), expr)
		if err != nil {
			return CommandResultMsg{Err: err}
		}
		return CommandResultMsg{Text: expr + " = " + result}
	}
}

// formulaCmd looks up a formula on the backend.
func formulaCmd(client Backend, category, topic string) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return CommandResultMsg{Err: backend.ErrUnreachable}
		}
		formula, err := client.Formula(context.Background(), category, topic)
		if err != nil {
			return CommandResultMsg{Err: err}
		}
		return CommandResultMsg{Text: formula}
	}
}

// acquireCmd requests the camera device. Acquire does not touch
// controller state, so it is safe off the event loop. Canceling ctx
// abandons the request.
func acquireCmd(ctx context.Context, c *capture.Controller, gen int) tea.Cmd {
	return func() tea.Msg {
		s, err := c.Acquire(ctx)
		return CameraOpenedMsg{Stream: s, Err: err, Gen: gen}
	}
}

// previewTickCmd schedules the next preview frame.
func previewTickCmd(gen, fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(time.Time) tea.Msg {
		return PreviewTickMsg{Gen: gen}
	})
}

// noticeExpiryCmd clears a status bar notice after noticeDuration.
func noticeExpiryCmd(seq int) tea.Cmd {
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return NoticeExpiredMsg{Seq: seq}
	})
}
