// Package cardimage renders the gradient card-face bitmaps used to visualize
// stored cards. The text shown on a face comes from the extraction result;
// this package only paints the background.
package cardimage

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

// Standard card aspect ratio (ISO/IEC 7810 ID-1), scaled for display.
const (
	FaceWidth  = 642
	FaceHeight = 404
)

// ParseHexColor parses #RGB and #RRGGBB forms.
func ParseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// RenderFace paints a diagonal gradient from the base color to a darkened
// variant of it, which is how card faces are displayed in the app.
func RenderFace(hex string) (*image.NRGBA, error) {
	base, err := ParseHexColor(hex)
	if err != nil {
		return nil, err
	}
	dark := color.NRGBA{R: base.R / 3, G: base.G / 3, B: base.B / 3, A: 255}
	out := imaging.New(FaceWidth, FaceHeight, base)
	maxDist := float64(FaceWidth + FaceHeight)
	for y := 0; y < FaceHeight; y++ {
		for x := 0; x < FaceWidth; x++ {
			t := float64(x+y) / maxDist
			out.Set(x, y, lerp(base, dark, t))
		}
	}
	return out, nil
}

// SaveFace renders and writes a card face for the given color.
func SaveFace(hex, path string) error {
	img, err := RenderFace(hex)
	if err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save face: %w", err)
	}
	return nil
}

func lerp(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}
