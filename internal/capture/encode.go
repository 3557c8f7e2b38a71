// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package capture

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	// Still images may be any of these formats.
	_ "image/gif"
	_ "image/png"
)

// DataURLPrefix starts every encoded frame.
const DataURLPrefix = "data:image/jpeg;base64,"

// JPEGQuality matches the default quality of browser canvas exports.
const JPEGQuality = 92

// EncodeDataURL encodes img as a base64 JPEG data URL.
func EncodeDataURL(img image.Image) (string, error) {
	if img == nil {
		return "", errors.New("encode frame: nil image")
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return "", fmt.Errorf("encode frame: %w", err)
	}
	return DataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
