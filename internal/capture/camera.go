// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package capture

import (
	"context"
	"errors"
	"image"
)

// Constraints are the preferences passed to a camera when it is opened.
// Cameras treat them as hints.
type Constraints struct {
	Width  int
	Height int
	// Facing is "environment" (back camera) or "user" (front camera)
	Facing string
}

// DefaultConstraints asks for a 1280x720 back camera.
func DefaultConstraints() Constraints {
	return Constraints{Width: 1280, Height: 720, Facing: "environment"}
}

// Camera opens video streams.
type Camera interface {
	// Open requests the device. It blocks until the first frame is
	// available or the request fails.
	Open(ctx context.Context, c Constraints) (Stream, error)
}

// Stream is a held camera device.
type Stream interface {
	// Frame returns the most recent frame.
	Frame() (image.Image, error)

	// Close releases the device. It is safe to call more than once.
	Close() error
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrCameraAccessDenied is matched by every failure to acquire a camera.
	ErrCameraAccessDenied = errors.New("camera access denied")

	// ErrNoFrame means the stream has not produced a frame yet.
	ErrNoFrame = errors.New("no frame available")

	// ErrStreamClosed is returned by Frame after Close.
	ErrStreamClosed = errors.New("stream closed")
)

// AccessError describes why a camera could not be opened.
type AccessError struct {
	Device string
	Reason string
	Cause  error
}

func (e *AccessError) Error() string {
	msg := "camera access denied"
	if e.Device != "" {
		msg += " (" + e.Device + ")"
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *AccessError) Unwrap() error {
	return e.Cause
}

// Is makes every AccessError match ErrCameraAccessDenied.
func (e *AccessError) Is(target error) bool {
	return target == ErrCameraAccessDenied
}

// denied wraps cause as an AccessError unless it already is one.
func denied(device string, cause error) error {
	var ae *AccessError
	if errors.As(cause, &ae) {
		return cause
	}
	return &AccessError{Device: device, Cause: cause}
}
