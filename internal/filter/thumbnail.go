package filter

import (
	"image"

	"github.com/disintegration/imaging"
)

// Default thumbnail size, a 4:5 card matching the canvas.
const (
	ThumbWidth  = 96
	ThumbHeight = 120
)

// Thumbnail is one filtered preview card.
type Thumbnail struct {
	Filter Selection
	Image  *image.NRGBA
}

// Thumbnails cover-fits img into w x h (cropping the centre) and renders one
// card per filter. The photo is resized once and each filter is applied to
// the small copy.
func Thumbnails(img image.Image, w, h int) []Thumbnail {
	if img == nil || w <= 0 || h <= 0 {
		return nil
	}
	base := imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)
	out := make([]Thumbnail, 0, len(All))
	for _, s := range All {
		out = append(out, Thumbnail{Filter: s, Image: imaging.Clone(Apply(base, s))})
	}
	return out
}
