// Package asset loads the raster layers the compositor draws: the user photo
// and the frame.
package asset

import (
	"errors"
	"fmt"
	"image"
)

// Layer names which compositor layer an asset feeds.
type Layer string

const (
	LayerPhoto Layer = "photo"
	LayerFrame Layer = "frame"
)

var (
	// ErrLoad is matched by every *LoadError.
	ErrLoad = errors.New("asset load failed")
	// ErrUnsupportedFormat reports image data in a format that is not accepted.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrTooLarge reports a source that exceeds the configured byte limit.
	ErrTooLarge = errors.New("image too large")
	// ErrUnsupportedSource reports a source URL whose scheme has no fetcher.
	ErrUnsupportedSource = errors.New("unsupported source")
)

// LoadError describes a failed load for one layer.
type LoadError struct {
	Source string
	Layer  Layer
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s %s: %v", e.Layer, shorten(e.Source), e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// RasterAsset is a decoded image together with the resolved source it came
// from. Assets are never mutated after creation.
type RasterAsset struct {
	SourceURL string
	Image     image.Image
	Width     int
	Height    int
}

// NewRasterAsset wraps img, recording its intrinsic size.
func NewRasterAsset(source string, img image.Image) *RasterAsset {
	b := img.Bounds()
	return &RasterAsset{SourceURL: source, Image: img, Width: b.Dx(), Height: b.Dy()}
}

// Img returns the decoded image, or nil for a nil asset.
func (a *RasterAsset) Img() image.Image {
	if a == nil {
		return nil
	}
	return a.Image
}

// shorten keeps data URIs readable in messages.
func shorten(src string) string {
	const max = 64
	if len(src) <= max {
		return src
	}
	return src[:max] + "..."
}
