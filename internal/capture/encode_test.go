// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package capture

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDataURL(t *testing.T) {
	url, err := EncodeDataURL(solidImage(16, 9, color.RGBA{R: 200, A: 255}))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))

	img := decodeDataURL(t, url)
	assert.Equal(t, 16, img.Bounds().Dx())

	_, err = EncodeDataURL(nil)
	assert.Error(t, err)
}

// decodeDataURL reverses EncodeDataURL.
func decodeDataURL(t *testing.T, s string) image.Image {
	t.Helper()
	data, ok := strings.CutPrefix(s, DataURLPrefix)
	require.True(t, ok, "not a JPEG data URL: %.40q", s)
	raw, err := base64.StdEncoding.DecodeString(data)
	require.NoError(t, err)
	img, _, err := image.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestFileCamera(t *testing.T) {
	path := filepath.Join(t.TempDir(), "problem.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, solidImage(10, 5, color.Black)))
	require.NoError(t, f.Close())

	c := NewController(FileCamera{Path: path}, DefaultConstraints(), nil)
	require.NoError(t, c.Open(context.Background()))
	require.NoError(t, c.Capture())

	url, err := c.Send()
	require.NoError(t, err)
	img := decodeDataURL(t, url)
	assert.Equal(t, 10, img.Bounds().Dx())
}

func TestFileCamera_Errors(t *testing.T) {
	dir := t.TempDir()
	notImage := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notImage, []byte("x^2"), 0o644))

	for _, path := range []string{filepath.Join(dir, "missing.png"), notImage} {
		_, err := FileCamera{Path: path}.Open(context.Background(), DefaultConstraints())
		assert.ErrorIs(t, err, ErrCameraAccessDenied, "path %s", path)
	}
}

func TestStillStream_Closed(t *testing.T) {
	s := NewStillStream(solidImage(1, 1, color.White))
	require.NoError(t, s.Close())
	_, err := s.Frame()
	assert.ErrorIs(t, err, ErrStreamClosed)
	assert.Equal(t, "still(1x1)", s.String())
}
