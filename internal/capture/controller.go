// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package capture

import (
	"context"
	"errors"
	"image"

	"go.uber.org/zap"
)

// ErrOpenCanceled is returned by FinishOpen when the session was closed
// while the device request was in flight.
var ErrOpenCanceled = errors.New("camera open canceled")

// Controller owns one capture Session. It is not safe for concurrent use;
// call it from the event loop only. Acquire is the exception: it touches no
// session state and may run on any goroutine.
type Controller struct {
	camera      Camera
	constraints Constraints
	logger      *zap.Logger

	session Session
	pending bool
	frozen  image.Image
}

// NewController creates a controller for cam. A nil logger logs nothing.
func NewController(cam Camera, c Constraints, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		camera:      cam,
		constraints: c,
		logger:      logger.Named("capture"),
	}
}

// Session returns a copy of the current session.
func (c *Controller) Session() Session {
	return c.session
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.session.Phase
}

// Pending reports whether an open is waiting for FinishOpen.
func (c *Controller) Pending() bool {
	return c.pending
}

// =============================================================================
// OPEN
// =============================================================================

// BeginOpen starts an open from Idle.
func (c *Controller) BeginOpen() error {
	if c.session.Phase != PhaseIdle || c.pending {
		return &TransitionError{Action: "open", From: c.session.Phase}
	}
	c.pending = true
	c.logger.Debug("camera requested",
		zap.Int("width", c.constraints.Width),
		zap.Int("height", c.constraints.Height),
		zap.String("facing", c.constraints.Facing),
	)
	return nil
}

// Acquire requests the device. Failures always match ErrCameraAccessDenied.
func (c *Controller) Acquire(ctx context.Context) (Stream, error) {
	if c.camera == nil {
		return nil, &AccessError{Reason: "no camera configured"}
	}
	s, err := c.camera.Open(ctx, c.constraints)
	if err != nil {
		return nil, denied("", err)
	}
	return s, nil
}

// FinishOpen completes an open with the result of Acquire. On success the
// session is Previewing. On failure, or if Close ran in between, any stream
// is released and the session stays Idle.
func (c *Controller) FinishOpen(s Stream, err error) error {
	if !c.pending {
		c.release(s)
		return ErrOpenCanceled
	}
	c.pending = false

	if err != nil {
		c.release(s)
		c.logger.Warn("camera open failed", zap.Error(err))
		return denied("", err)
	}
	if s == nil {
		return &AccessError{Reason: "camera returned no stream"}
	}

	c.session = Session{Stream: s, Phase: PhasePreviewing}
	c.logger.Debug("camera opened")
	return nil
}

// Open runs BeginOpen, Acquire and FinishOpen in sequence.
func (c *Controller) Open(ctx context.Context) error {
	if err := c.BeginOpen(); err != nil {
		return err
	}
	s, err := c.Acquire(ctx)
	return c.FinishOpen(s, err)
}

// =============================================================================
// CAPTURE / RETAKE / SEND
// =============================================================================

// Capture freezes the current frame and encodes it. A frame error leaves
// the session Previewing.
func (c *Controller) Capture() error {
	if c.session.Phase != PhasePreviewing {
		return &TransitionError{Action: "capture", From: c.session.Phase}
	}
	if c.session.Stream == nil {
		panic("capture: previewing without a stream")
	}

	img, err := c.session.Stream.Frame()
	if err != nil {
		return err
	}
	url, err := EncodeDataURL(img)
	if err != nil {
		return err
	}

	c.frozen = img
	c.session.Frame = url
	c.session.Phase = PhaseCaptured
	c.logger.Debug("frame captured", zap.Int("bytes", len(url)))
	return nil
}

// Retake discards the captured frame and resumes the preview on the same
// stream.
func (c *Controller) Retake() error {
	if c.session.Phase != PhaseCaptured {
		return &TransitionError{Action: "retake", From: c.session.Phase}
	}
	c.frozen = nil
	c.session.Frame = ""
	c.session.Phase = PhasePreviewing
	return nil
}

// Send releases the camera and returns the captured frame as a data URL.
// The session is Idle afterwards.
func (c *Controller) Send() (string, error) {
	if c.session.Phase != PhaseCaptured {
		return "", &TransitionError{Action: "send", From: c.session.Phase}
	}
	frame := c.session.Frame
	c.reset()
	return frame, nil
}

// Close releases the camera from any phase and cancels a pending open.
func (c *Controller) Close() error {
	c.pending = false
	return c.reset()
}

// Preview returns the live frame while Previewing and the frozen frame
// while Captured.
func (c *Controller) Preview() (image.Image, error) {
	switch c.session.Phase {
	case PhasePreviewing:
		return c.session.Stream.Frame()
	case PhaseCaptured:
		return c.frozen, nil
	default:
		return nil, &TransitionError{Action: "preview", From: c.session.Phase}
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func (c *Controller) reset() error {
	err := c.release(c.session.Stream)
	c.session = Session{}
	c.frozen = nil
	return err
}

func (c *Controller) release(s Stream) error {
	if s == nil {
		return nil
	}
	if err := s.Close(); err != nil {
		c.logger.Warn("camera release failed", zap.Error(err))
		return err
	}
	c.logger.Debug("camera released")
	return nil
}
