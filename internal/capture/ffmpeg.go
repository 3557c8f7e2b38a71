// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package capture

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxFrameBytes bounds a single MJPEG frame.
const maxFrameBytes = 8 << 20

// Defaults for FFmpegCamera.
const (
	DefaultPreviewFPS   = 10
	DefaultStartTimeout = 10 * time.Second
)

// FFmpegCamera captures from a local video device through an ffmpeg
// subprocess writing MJPEG to stdout.
type FFmpegCamera struct {
	// FFmpegPath overrides the ffmpeg lookup.
	FFmpegPath string

	// Device is the platform device name: /dev/video0 on Linux, an
	// avfoundation index on macOS, a dshow device name on Windows.
	Device string

	// InputFormat is passed as -input_format on Linux (e.g. "mjpeg").
	InputFormat string

	// PreviewFPS caps how often a new frame replaces the current one.
	PreviewFPS int

	// StartTimeout bounds the wait for the first frame.
	StartTimeout time.Duration

	Logger *zap.Logger
}

// Open starts ffmpeg and waits for the first frame. Every failure matches
// ErrCameraAccessDenied.
func (c *FFmpegCamera) Open(ctx context.Context, cons Constraints) (Stream, error) {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ffmpegPath, err := findFFmpegExecutable(c.FFmpegPath)
	if err != nil {
		return nil, &AccessError{Device: c.Device, Reason: "ffmpeg not found", Cause: err}
	}

	device := c.Device
	if device == "" {
		device = defaultDevice()
	}
	args := append(inputArgs(device, c.InputFormat, cons),
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-q:v", "3",
		"-",
	)
	if cons.Facing != "" {
		// Desktop capture APIs have no facing selection; the device decides.
		logger.Debug("facing hint not applied", zap.String("facing", cons.Facing))
	}

	cmd := exec.Command(ffmpegPath, args...)
	stderr := &tailBuffer{max: 4096}
	cmd.Stderr = stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &AccessError{Device: device, Cause: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &AccessError{Device: device, Reason: "failed to start ffmpeg", Cause: err}
	}
	logger.Info("ffmpeg started",
		zap.String("path", ffmpegPath),
		zap.String("device", device),
		zap.Int("pid", cmd.Process.Pid),
	)

	stop := func() error {
		cmd.Process.Kill()
		return nil
	}
	wait := func() error {
		err := cmd.Wait()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Killed on purpose.
			return nil
		}
		return err
	}
	s := newFrameStream(stdout, c.PreviewFPS, stop, wait)

	timeout := c.StartTimeout
	if timeout <= 0 {
		timeout = DefaultStartTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.first:
		return s, nil
	case <-s.done:
		s.Close()
		return nil, &AccessError{Device: device, Reason: deniedReason(stderr.String())}
	case <-timer.C:
		s.Close()
		return nil, &AccessError{Device: device, Reason: "no frame within " + timeout.String()}
	case <-ctx.Done():
		s.Close()
		return nil, &AccessError{Device: device, Cause: ctx.Err()}
	}
}

// deniedReason picks the useful line out of ffmpeg's stderr.
func deniedReason(stderr string) string {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "permission denied"), strings.Contains(lower, "not authorized"):
		return "permission denied"
	case strings.Contains(lower, "no such file or directory"), strings.Contains(lower, "could not find"):
		return "device not found"
	case strings.Contains(lower, "device or resource busy"):
		return "device busy"
	}
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	if last := strings.TrimSpace(lines[len(lines)-1]); last != "" {
		return last
	}
	return "ffmpeg exited"
}

func videoSize(cons Constraints) string {
	if cons.Width <= 0 || cons.Height <= 0 {
		return ""
	}
	return strconv.Itoa(cons.Width) + "x" + strconv.Itoa(cons.Height)
}

// =============================================================================
// FRAME STREAM
// =============================================================================

// frameStream splits an MJPEG byte stream into frames and keeps the latest.
type frameStream struct {
	mu      sync.Mutex
	latest  []byte
	limiter *rate.Limiter

	first     chan struct{}
	firstOnce sync.Once
	done      chan struct{}

	stop      func() error
	wait      func() error
	closeOnce sync.Once
	closeErr  error
	closed    bool
}

// newFrameStream starts the reader goroutine. stop interrupts the producer
// so the reader sees EOF; wait reaps it once the reader has finished.
func newFrameStream(r io.Reader, fps int, stop, wait func() error) *frameStream {
	if fps <= 0 {
		fps = DefaultPreviewFPS
	}
	s := &frameStream{
		limiter: rate.NewLimiter(rate.Limit(fps), 1),
		first:   make(chan struct{}),
		done:    make(chan struct{}),
		stop:    stop,
		wait:    wait,
	}
	go s.readLoop(r)
	return s
}

func (s *frameStream) readLoop(r io.Reader) {
	defer close(s.done)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 256<<10), maxFrameBytes)
	scanner.Split(splitJPEG)

	for scanner.Scan() {
		s.publish(scanner.Bytes())
	}
	// Drain so a blocked producer can exit.
	io.Copy(io.Discard, r)
}

func (s *frameStream) publish(frame []byte) {
	isFirst := false
	s.firstOnce.Do(func() { isFirst = true })
	if !isFirst && !s.limiter.Allow() {
		return
	}

	buf := make([]byte, len(frame))
	copy(buf, frame)

	s.mu.Lock()
	s.latest = buf
	s.mu.Unlock()

	if isFirst {
		close(s.first)
	}
}

// Frame decodes the latest frame.
func (s *frameStream) Frame() (image.Image, error) {
	s.mu.Lock()
	data, closed := s.latest, s.closed
	s.mu.Unlock()

	if closed {
		return nil, ErrStreamClosed
	}
	if data == nil {
		return nil, ErrNoFrame
	}
	return jpeg.Decode(bytes.NewReader(data))
}

// Close stops the producer and waits for the reader goroutine.
func (s *frameStream) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		if s.stop != nil {
			s.closeErr = s.stop()
		}
		<-s.done
		if s.wait != nil {
			if err := s.wait(); err != nil && s.closeErr == nil {
				s.closeErr = err
			}
		}
	})
	return s.closeErr
}

// splitJPEG is a bufio.SplitFunc yielding complete JPEG images from a
// concatenated MJPEG stream. Bytes outside SOI..EOI are dropped.
func splitJPEG(data []byte, atEOF bool) (advance int, token []byte, err error) {
	soi := bytes.Index(data, []byte{0xFF, 0xD8})
	if soi < 0 {
		if atEOF {
			return len(data), nil, nil
		}
		// Keep a trailing 0xFF that may start the next marker.
		if n := len(data); n > 0 && data[n-1] == 0xFF {
			return n - 1, nil, nil
		}
		return len(data), nil, nil
	}

	eoi := bytes.Index(data[soi+2:], []byte{0xFF, 0xD9})
	if eoi < 0 {
		if atEOF {
			return len(data), nil, nil
		}
		return soi, nil, nil
	}
	end := soi + 2 + eoi + 2
	return end, data[soi:end], nil
}

// =============================================================================
// STDERR CAPTURE
// =============================================================================

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	buf []byte
	max int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
