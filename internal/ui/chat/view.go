// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mathly-tui/internal/capture"
	"github.com/jeranaias/mathly-tui/internal/ui/components"
	"github.com/jeranaias/mathly-tui/internal/ui/styles"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// renderChat renders the complete chat view.
// Layout: header (1 line) + body (viewport or camera) + input (3 lines) + status (1 line).
// bodyHeight in model.go must agree with these heights.
func (m Model) renderChat() string {
	if !m.ready {
		return "Loading..."
	}

	body := m.viewport.View()
	if m.cameraOpen {
		body = m.renderCamera()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderInput(),
		m.renderStatusBar(),
	)
}

// =============================================================================
// HEADER
// =============================================================================

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("Mathly")

	var info string
	if m.client != nil {
		info = m.theme.HeaderInfo.Render(" | " + m.client.BaseURL())
	}

	var status string
	switch {
	case m.loading.IsActive():
		status = lipgloss.NewStyle().Foreground(styles.Cyan).
			Render(" " + styles.StatusIndicators.Info)
	case m.backendErr != nil:
		status = lipgloss.NewStyle().Foreground(styles.Rose).
			Render(" " + styles.StatusIndicators.Error + " offline")
	default:
		status = lipgloss.NewStyle().Foreground(styles.Emerald).
			Render(" " + styles.StatusIndicators.Success)
	}

	return m.theme.Header.Width(m.width).MaxHeight(1).Render(title + info + status)
}

// =============================================================================
// INPUT
// =============================================================================

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())
}

// =============================================================================
// STATUS BAR
// =============================================================================

func (m Model) renderStatusBar() string {
	bar := components.NewStatusBar(m.theme)
	bar.Width = m.width
	bar.Notice = m.notice
	if m.cameraOpen {
		bar.Bindings = m.keys.CameraHelp(m.capture.Phase())
		bar.Info = "camera " + m.capture.Phase().String()
		if m.capture.Pending() {
			bar.Info = "camera opening"
		}
	} else {
		bar.Bindings = m.keys.ShortHelp()
		if m.theme.GetLayoutMode() == styles.LayoutCompact {
			bar.Bindings = []key.Binding{m.keys.Camera, m.keys.Quit}
		}
		bar.Info = pluralize(m.conv.Conversation().Count(), "message")
	}
	return bar.View()
}

// =============================================================================
// CAMERA
// =============================================================================

// renderCamera draws the camera overlay in place of the transcript.
func (m Model) renderCamera() string {
	height := m.bodyHeight()

	var title string
	switch m.capture.Phase() {
	case capture.PhaseCaptured:
		title = "Captured. Send it or retake"
	case capture.PhasePreviewing:
		title = "Point the camera at the problem"
	default:
		title = "Opening camera..."
	}

	lines := []string{m.theme.CameraTitle.Render(title)}

	// box border 2 + title 1 + hint 1
	rows := height - 4
	cols := m.width - 4
	switch {
	case m.preview != nil && rows > 0 && cols > 0:
		lines = append(lines, components.RenderPreview(m.preview, cols, rows, m.theme.ColorProfile))
	default:
		lines = append(lines, m.theme.CameraWaiting.Render("Waiting for camera..."))
	}

	hint := m.cameraNote
	if hint == "" && m.capture.Phase() == capture.PhasePreviewing {
		hint = "Hold steady and press space"
	}
	if hint != "" {
		lines = append(lines, m.theme.CameraHint.Render(hint))
	}

	return m.theme.CameraBox.
		Width(m.width - 2).
		Height(height - 2).
		MaxHeight(height).
		Render(strings.Join(lines, "\n"))
}

// pluralize formats a count with a noun.
func pluralize(n int, noun string) string {
	s := noun
	if n != 1 {
		s += "s"
	}
	return strconv.Itoa(n) + " " + s
}
