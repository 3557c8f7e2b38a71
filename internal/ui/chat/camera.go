// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/mathly-tui/internal/capture"
)

// =============================================================================
// CAMERA OVERLAY
// =============================================================================

// openCamera shows the overlay and requests the device off the event loop.
func (m Model) openCamera() (tea.Model, tea.Cmd) {
	if err := m.capture.BeginOpen(); err != nil {
		m.logger.Debug("camera open ignored", zap.Error(err))
		return m, nil
	}
	m.cameraOpen = true
	m.preview = nil
	m.cameraNote = ""

	ctx, cancel := context.WithCancel(context.Background())
	m.acquireCancel = cancel
	m.openGen++
	return m, acquireCmd(ctx, m.capture, m.openGen)
}

// cancelAcquire stops an outstanding device request.
func (m *Model) cancelAcquire() {
	if m.acquireCancel != nil {
		m.acquireCancel()
		m.acquireCancel = nil
	}
}

// closeCamera releases the device and hides the overlay. A device request
// still in flight is canceled.
func (m *Model) closeCamera() {
	m.cancelAcquire()
	if err := m.capture.Close(); err != nil {
		m.logger.Warn("camera close", zap.Error(err))
	}
	m.cameraOpen = false
	m.preview = nil
	m.cameraNote = ""
	m.previewGen++
}

func (m Model) handleCameraOpened(msg CameraOpenedMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.openGen {
		// An open that was closed and superseded by a newer one.
		if msg.Stream != nil {
			msg.Stream.Close()
		}
		return m, nil
	}
	m.cancelAcquire()

	err := m.capture.FinishOpen(msg.Stream, msg.Err)
	switch {
	case errors.Is(err, capture.ErrOpenCanceled):
		return m, nil
	case err != nil:
		m.cameraOpen = false
		m.conv.ReportCameraFailure(err)
		cmd := m.sync()
		return m, cmd
	}
	cmd := m.startPreview()
	return m, cmd
}

// startPreview begins a new preview tick chain. Older chains stop at their
// next tick.
func (m *Model) startPreview() tea.Cmd {
	m.previewGen++
	m.refreshPreview()
	return previewTickCmd(m.previewGen, m.previewFPS)
}

func (m Model) handlePreviewTick(msg PreviewTickMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.previewGen || m.capture.Phase() != capture.PhasePreviewing {
		return m, nil
	}
	m.refreshPreview()
	return m, previewTickCmd(m.previewGen, m.previewFPS)
}

// refreshPreview pulls the current frame. A stream that has not produced
// a frame yet keeps the waiting screen.
func (m *Model) refreshPreview() {
	img, err := m.capture.Preview()
	if err != nil {
		if !errors.Is(err, capture.ErrNoFrame) {
			m.logger.Debug("preview frame", zap.Error(err))
		}
		return
	}
	m.preview = img
}

func (m Model) handleCameraKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	phase := m.capture.Phase()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.closeCamera()
		return m, tea.Quit

	case key.Matches(msg, m.keys.CloseCamera):
		m.closeCamera()
		return m, nil

	case phase == capture.PhasePreviewing && key.Matches(msg, m.keys.Capture):
		if err := m.capture.Capture(); err != nil {
			m.logger.Debug("capture failed", zap.Error(err))
			m.cameraNote = "No picture yet, try again"
			return m, nil
		}
		m.cameraNote = ""
		m.refreshPreview()
		return m, nil

	case phase == capture.PhaseCaptured && key.Matches(msg, m.keys.Retake):
		if err := m.capture.Retake(); err != nil {
			return m, nil
		}
		m.cameraNote = ""
		cmd := m.startPreview()
		return m, cmd

	case phase == capture.PhaseCaptured && key.Matches(msg, m.keys.SendPhoto):
		return m.sendPhoto()
	}
	return m, nil
}

// sendPhoto hands the captured frame to the conversation.
func (m Model) sendPhoto() (tea.Model, tea.Cmd) {
	if m.conv.Busy() {
		m.cameraNote = "Mathly is still answering"
		return m, nil
	}
	dataURL, err := m.capture.Send()
	if err != nil {
		return m, nil
	}
	m.cameraOpen = false
	m.preview = nil
	m.cameraNote = ""
	m.previewGen++

	req, ok := m.conv.SubmitImage(dataURL)
	if ok {
		m.loading.SetMessage(readingText)
	}
	cmd := m.sync()
	if !ok {
		return m, cmd
	}
	return m, tea.Batch(cmd, dispatchCmd(m.conv, req))
}
