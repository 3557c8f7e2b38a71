// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package capture

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"
)

// FileCamera serves a still image file as a stream. It is used when no
// camera is available (--image) and in tests.
type FileCamera struct {
	Path string
}

// Open decodes the file. A missing or unreadable file is an access denial.
func (f FileCamera) Open(ctx context.Context, _ Constraints) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, &AccessError{Device: f.Path, Cause: err}
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return nil, &AccessError{Device: f.Path, Reason: "cannot open image", Cause: err}
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, &AccessError{Device: f.Path, Reason: "not an image", Cause: err}
	}
	return NewStillStream(img), nil
}

// StillStream is a Stream that always returns the same image.
type StillStream struct {
	mu     sync.Mutex
	img    image.Image
	closed bool
}

// NewStillStream returns a stream serving img.
func NewStillStream(img image.Image) *StillStream {
	return &StillStream{img: img}
}

// Frame returns the image.
func (s *StillStream) Frame() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStreamClosed
	}
	if s.img == nil {
		return nil, ErrNoFrame
	}
	return s.img, nil
}

// Close marks the stream closed.
func (s *StillStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (s *StillStream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *StillStream) String() string {
	if s.img == nil {
		return "still(empty)"
	}
	b := s.img.Bounds()
	return fmt.Sprintf("still(%dx%d)", b.Dx(), b.Dy())
}
