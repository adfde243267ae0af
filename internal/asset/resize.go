package asset

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// acceptedFormats are the upload formats, keyed by image.DecodeConfig name.
var acceptedFormats = map[string]bool{
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

// MaxPixels bounds the decoded size of any source. Headers are checked
// before the pixel data is decoded.
const MaxPixels = 50_000_000

// ResizeToMax downsizes img so that its larger side is at most max, keeping
// the aspect ratio. The shorter side is rounded down. Images already within
// bounds are returned as is.
func ResizeToMax(img image.Image, max int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if max <= 0 || (w <= max && h <= max) {
		return img
	}
	nw, nh := BoundedSize(w, h, max)
	return imaging.Resize(img, nw, nh, imaging.Lanczos)
}

// BoundedSize returns the size ResizeToMax produces for a w x h image.
func BoundedSize(w, h, max int) (int, int) {
	if max <= 0 || (w <= max && h <= max) {
		return w, h
	}
	if w >= h {
		return max, atLeastOne(h * max / w)
	}
	return atLeastOne(w * max / h), max
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// ReadUpload reads an uploaded photo, rejecting data over maxBytes and
// formats other than jpeg, png, gif and webp. It returns the raw bytes and
// the detected format.
func ReadUpload(r io.Reader, maxBytes int64) ([]byte, string, error) {
	data, err := readLimited(r, maxBytes)
	if err != nil {
		return nil, "", err
	}
	format, err := CheckFormat(data)
	if err != nil {
		return nil, "", err
	}
	return data, format, nil
}

// CheckFormat reports the format of data if it is an accepted upload format
// within MaxPixels.
func CheckFormat(data []byte) (string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if !acceptedFormats[format] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err := checkPixels(cfg); err != nil {
		return "", err
	}
	return format, nil
}

func checkPixels(cfg image.Config) error {
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, cfg.Width, cfg.Height, MaxPixels)
	}
	return nil
}
