package render

import (
	"fmt"
	"image"

	"github.com/example/twibbon/internal/aspect"
	"github.com/example/twibbon/internal/transform"
	"seehuhn.de/go/geom/matrix"
)

// Canonical canvas size. All transform offsets are expressed in this space.
const (
	CanonicalWidth  = 1080
	CanonicalHeight = 1350
)

// DefaultExportMultiple is the integer multiple of the canonical canvas used
// for exports.
const DefaultExportMultiple = 2

// ManipulatingPhotoAlpha is the photo opacity while the user drags it.
const ManipulatingPhotoAlpha = 0.7

// DrawMode controls layer order and photo opacity.
type DrawMode int

const (
	// ModeIdle draws the photo fully behind the frame.
	ModeIdle DrawMode = iota
	// ModeManipulating draws the frame first and the photo over it at
	// ManipulatingPhotoAlpha so the user can see the cutout while dragging.
	ModeManipulating
)

func (m DrawMode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeManipulating:
		return "manipulating"
	}
	return fmt.Sprintf("DrawMode(%d)", int(m))
}

// Profile is a target resolution for the compositor.
type Profile struct {
	Name   string
	Width  int
	Height int
}

// Preview is the live editing resolution (the canonical canvas).
func Preview() Profile {
	return Profile{Name: "preview", Width: CanonicalWidth, Height: CanonicalHeight}
}

// Export returns the export profile at multiple times the canonical canvas.
// Multiples below 1 fall back to DefaultExportMultiple.
func Export(multiple int) Profile {
	if multiple < 1 {
		multiple = DefaultExportMultiple
	}
	return Profile{Name: "export", Width: CanonicalWidth * multiple, Height: CanonicalHeight * multiple}
}

// ScaleFactor is the ratio k between this profile and the canonical canvas.
func (p Profile) ScaleFactor() float64 {
	return float64(p.Width) / CanonicalWidth
}

// Scene is everything the compositor draws. A nil Photo or Frame is a layer
// that has not loaded (or failed to load) and is skipped.
type Scene struct {
	Photo     image.Image
	Transform transform.PhotoTransform
	Frame     image.Image
	Mode      DrawMode
}

// Render draws sc onto s at the profile's resolution.
func Render(s Surface, p Profile, sc Scene) error {
	return RenderAt(s, p.Width, p.Height, sc)
}

// RenderAt draws sc onto s at width x height. Translation offsets are scaled
// by width/CanonicalWidth so every resolution shows the same composition.
func RenderAt(s Surface, width, height int, sc Scene) error {
	if s == nil {
		return fmt.Errorf("%w: no surface", ErrSurfaceUnavailable)
	}
	if err := s.Reset(width, height); err != nil {
		return err
	}
	s.SetQuality(QualityHigh)

	w, h := float64(width), float64(height)
	switch sc.Mode {
	case ModeManipulating:
		drawFrame(s, w, h, sc.Frame)
		drawPhoto(s, w, h, sc, ManipulatingPhotoAlpha)
	default:
		drawPhoto(s, w, h, sc, 1)
		drawFrame(s, w, h, sc.Frame)
	}
	return nil
}

// PhotoRect returns the user-space rectangle the photo is drawn into before
// the centre rotation and scale are applied.
func PhotoRect(photo image.Rectangle, width, height int, t transform.PhotoTransform) (x, y, w, h float64) {
	tw, th := float64(width), float64(height)
	pl := aspect.FitCover(float64(photo.Dx()), float64(photo.Dy()), tw, th)
	tx, ty := t.Scaled(tw / CanonicalWidth)
	return tx + pl.OffsetX, ty + pl.OffsetY, pl.DrawW, pl.DrawH
}

func drawPhoto(s Surface, w, h float64, sc Scene, alpha float64) {
	if sc.Photo == nil {
		return
	}
	x, y, dw, dh := PhotoRect(sc.Photo.Bounds(), int(w), int(h), sc.Transform)
	withState(s, func() {
		s.Transform(matrix.Translate(w/2, h/2))
		s.Transform(rotation(sc.Transform.RotationDegrees))
		s.Transform(matrix.Scale(sc.Transform.Scale, sc.Transform.Scale))
		s.Transform(matrix.Translate(-w/2, -h/2))
		s.SetAlpha(alpha)
		s.DrawImage(sc.Photo, x, y, dw, dh)
	})
}

// drawFrame stretches the frame over the whole surface. It is authored at the
// canonical aspect ratio and never transformed.
func drawFrame(s Surface, w, h float64, frame image.Image) {
	if frame == nil {
		return
	}
	s.DrawImage(frame, 0, 0, w, h)
}
