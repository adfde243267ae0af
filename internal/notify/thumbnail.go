package notify

import (
	"image"

	"github.com/disintegration/imaging"
)

// thumbnail bounds img to max pixels on its longer side.
func thumbnail(img image.Image, max int) image.Image {
	b := img.Bounds()
	if b.Dx() <= max && b.Dy() <= max {
		return img
	}
	return imaging.Fit(img, max, max, imaging.Box)
}
