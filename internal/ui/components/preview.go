// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/muesli/termenv"
)

// asciiRamp maps luminance to characters, darkest first.
const asciiRamp = " .:-=+*#%@"

// RenderPreview draws img into at most cols x rows terminal cells,
// keeping its aspect ratio. Each cell shows two vertical pixels with the
// upper half block. The Ascii profile gets a luminance ramp instead.
func RenderPreview(img image.Image, cols, rows int, profile termenv.Profile) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return ""
	}

	// Target size in pixels; a cell is one pixel wide and two tall.
	w, h := fitSize(b.Dx(), b.Dy(), cols, rows*2)

	sample := func(x, y int) color.Color {
		sx := b.Min.X + x*b.Dx()/w
		sy := b.Min.Y + y*b.Dy()/h
		return img.At(sx, sy)
	}

	var sb strings.Builder
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			top := sample(x, y)
			bottom := top
			if y+1 < h {
				bottom = sample(x, y+1)
			}

			if profile == termenv.Ascii {
				sb.WriteByte(rampChar(top, bottom))
				continue
			}
			cell := termenv.String("▀").
				Foreground(profile.Color(hexColor(top))).
				Background(profile.Color(hexColor(bottom)))
			sb.WriteString(cell.String())
		}
		if y+2 < h {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// fitSize scales w x h to fit inside maxW x maxH.
func fitSize(w, h, maxW, maxH int) (int, int) {
	if w*maxH > h*maxW {
		nh := h * maxW / w
		if nh < 1 {
			nh = 1
		}
		return maxW, nh
	}
	nw := w * maxH / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxH
}

func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

func rampChar(top, bottom color.Color) byte {
	l := (luminance(top) + luminance(bottom)) / 2
	last := len(asciiRamp) - 1
	i := int(math.Round(l * float64(last)))
	if i < 0 {
		i = 0
	}
	if i > last {
		i = last
	}
	return asciiRamp[i]
}

// luminance returns perceived brightness in [0, 1].
func luminance(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 0xffff
}
