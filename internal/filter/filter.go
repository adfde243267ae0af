// Package filter implements the presentational photo filters shown on the
// thumbnail strip.
package filter

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
)

// Selection is one of the closed set of filters.
type Selection int

const (
	None Selection = iota
	Grayscale
	Sepia
	Saturate
	Contrast
	Brightness
	Invert
)

// All lists every selection in display order.
var All = []Selection{None, Grayscale, Sepia, Saturate, Contrast, Brightness, Invert}

var names = map[Selection]string{
	None:       "none",
	Grayscale:  "grayscale",
	Sepia:      "sepia",
	Saturate:   "saturate",
	Contrast:   "contrast",
	Brightness: "brightness",
	Invert:     "invert",
}

func (s Selection) String() string {
	if n, ok := names[s]; ok {
		return n
	}
	return fmt.Sprintf("Selection(%d)", int(s))
}

// Label is the human readable name.
func (s Selection) Label() string {
	n := s.String()
	if n == "" {
		return n
	}
	return strings.ToUpper(n[:1]) + n[1:]
}

// Next cycles to the following selection.
func (s Selection) Next() Selection {
	return All[(int(s)+1)%len(All)]
}

// Parse returns the selection named s. The empty string is None.
func Parse(s string) (Selection, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return None, nil
	}
	for sel, n := range names {
		if n == s {
			return sel, nil
		}
	}
	return None, fmt.Errorf("unknown filter %q", s)
}

// Apply returns img with the filter applied. None returns img unchanged.
// Strengths follow the CSS filter functions: grayscale(100%), sepia(100%),
// saturate(200%), contrast(150%), brightness(125%), invert(100%).
func Apply(img image.Image, s Selection) image.Image {
	if img == nil {
		return nil
	}
	switch s {
	case Grayscale:
		return imaging.Grayscale(img)
	case Sepia:
		return imaging.AdjustFunc(img, sepia)
	case Saturate:
		return imaging.AdjustSaturation(img, 100)
	case Contrast:
		return imaging.AdjustContrast(img, 50)
	case Brightness:
		return imaging.AdjustFunc(img, scaleChannels(1.25))
	case Invert:
		return imaging.Invert(img)
	}
	return img
}

// sepia is the CSS sepia(1) colour matrix.
func sepia(c color.NRGBA) color.NRGBA {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	return color.NRGBA{
		R: clamp8(0.393*r + 0.769*g + 0.189*b),
		G: clamp8(0.349*r + 0.686*g + 0.168*b),
		B: clamp8(0.272*r + 0.534*g + 0.131*b),
		A: c.A,
	}
}

// scaleChannels multiplies each colour channel by k, as CSS brightness does.
func scaleChannels(k float64) func(color.NRGBA) color.NRGBA {
	return func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clamp8(float64(c.R) * k),
			G: clamp8(float64(c.G) * k),
			B: clamp8(float64(c.B) * k),
			A: c.A,
		}
	}
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}
