// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package capture

import (
	"bufio"
	"bytes"
	"context"
	"image/color"
	"image/jpeg"
	"io"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solidImage(w, h, color.Gray{Y: 128}), nil))
	return buf.Bytes()
}

func TestSplitJPEG(t *testing.T) {
	a := jpegBytes(t, 2, 2)
	b := jpegBytes(t, 4, 4)

	var stream bytes.Buffer
	stream.WriteString("noise")
	stream.Write(a)
	stream.Write([]byte{0x00, 0x01})
	stream.Write(b)
	stream.Write(b[:10]) // truncated trailing frame

	scanner := bufio.NewScanner(&stream)
	scanner.Split(splitJPEG)

	var frames [][]byte
	for scanner.Scan() {
		frames = append(frames, append([]byte(nil), scanner.Bytes()...))
	}
	require.NoError(t, scanner.Err())
	require.Len(t, frames, 2)
	assert.Equal(t, a, frames[0])
	assert.Equal(t, b, frames[1])
}

func TestFrameStream_LatestFrameAndClose(t *testing.T) {
	pr, pw := io.Pipe()
	s := newFrameStream(pr, 1000, pw.Close, nil)

	_, err := pw.Write(jpegBytes(t, 2, 2))
	require.NoError(t, err)

	select {
	case <-s.first:
	case <-time.After(5 * time.Second):
		t.Fatal("first frame not published")
	}
	img, err := s.Frame()
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())

	_, err = pw.Write(jpegBytes(t, 4, 4))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		img, err := s.Frame()
		return err == nil && img.Bounds().Dx() == 4
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "second close is a no-op")
	_, err = s.Frame()
	assert.ErrorIs(t, err, ErrStreamClosed)
}

func TestFrameStream_RateLimitsPublication(t *testing.T) {
	pr, pw := io.Pipe()
	s := newFrameStream(pr, 1, pw.Close, nil)

	for _, size := range []int{2, 4, 6} {
		_, err := pw.Write(jpegBytes(t, size, size))
		require.NoError(t, err)
	}
	require.NoError(t, s.Close())

	// First frame always lands, the burst token admits the second, the
	// third arrives inside the same second and is dropped.
	img, err := jpeg.Decode(bytes.NewReader(s.latest))
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestFrameStream_ProducerExit(t *testing.T) {
	pr, pw := io.Pipe()
	s := newFrameStream(pr, 10, nil, nil)

	pw.CloseWithError(io.ErrUnexpectedEOF)

	select {
	case <-s.done:
	case <-time.After(5 * time.Second):
		t.Fatal("reader did not stop")
	}
	_, err := s.Frame()
	assert.ErrorIs(t, err, ErrNoFrame)
	require.NoError(t, s.Close())
}

func TestDeniedReason(t *testing.T) {
	tests := map[string]string{
		"[video4linux2,v4l2 @ 0x1] Cannot open video device /dev/video0: Permission denied": "permission denied",
		"/dev/video3: No such file or directory":                                             "device not found",
		"Cannot open video device: Device or resource busy":                                  "device busy",
		"line one\nsomething odd happened\n":                                                 "something odd happened",
		"":                                                                                   "ffmpeg exited",
	}
	for in, want := range tests {
		assert.Equal(t, want, deniedReason(in), "stderr %q", in)
	}
}

func TestInputArgs(t *testing.T) {
	args := inputArgs("/dev/video2", "mjpeg", DefaultConstraints())

	assert.Contains(t, args, "-video_size")
	assert.Contains(t, args, "1280x720")
	assert.Equal(t, "-i", args[len(args)-2])

	switch runtime.GOOS {
	case "linux":
		assert.Contains(t, args, "v4l2")
		assert.Contains(t, args, "-input_format")
		assert.Equal(t, "/dev/video2", args[len(args)-1])
	case "windows":
		assert.Equal(t, "video=/dev/video2", args[len(args)-1])
	}

	args = inputArgs("0", "", Constraints{})
	assert.NotContains(t, args, "-video_size")
}

func TestFFmpegCamera_MissingBinary(t *testing.T) {
	cam := &FFmpegCamera{FFmpegPath: "/nonexistent/ffmpeg-for-tests"}
	_, err := cam.Open(context.Background(), DefaultConstraints())
	assert.ErrorIs(t, err, ErrCameraAccessDenied)

	var ae *AccessError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "ffmpeg not found", ae.Reason)
}

func TestTailBuffer(t *testing.T) {
	tb := &tailBuffer{max: 5}
	tb.Write([]byte("hello"))
	tb.Write([]byte(" world"))
	assert.Equal(t, "world", tb.String())
}
