// Package transform holds the photo placement model used by the editor: the
// translation, scale and rotation applied to the user photo in canonical
// canvas space, and the maths that turns on-screen pointer movement into
// photo-space translation.
package transform

import "math"

// Control bounds. Translation bounds are tied to the canonical canvas
// (1080x1350) and only limit explicit control input; dragging may exceed them.
const (
	MinScale      = 0.5
	MaxScale      = 3.0
	ScaleStep     = 0.1
	MinRotation   = -180.0
	MaxRotation   = 180.0
	RotationStep  = 1.0
	MaxTranslateX = 1080.0
	MaxTranslateY = 1350.0
)

// PhotoTransform places the photo relative to the canonical canvas.
type PhotoTransform struct {
	TranslateX      float64
	TranslateY      float64
	Scale           float64
	RotationDegrees float64
}

// Identity returns the transform applied to a freshly loaded photo.
func Identity() PhotoTransform {
	return PhotoTransform{Scale: 1}
}

// Reset returns the identity transform regardless of t.
func (t PhotoTransform) Reset() PhotoTransform { return Identity() }

// IsIdentity reports whether t is exactly {0,0,1,0}.
func (t PhotoTransform) IsIdentity() bool { return t == Identity() }

// ApplyPointerDelta converts a raw viewport delta into photo space and adds it
// to the translation. The delta is rotated by the negative of the current
// rotation because the displayed photo is itself rotated relative to the
// canvas, then scaled by the viewport-to-canvas ratios. Translation is not
// clamped.
func ApplyPointerDelta(t PhotoTransform, rawDeltaX, rawDeltaY, scaleX, scaleY float64) PhotoTransform {
	angle := t.RotationDegrees * math.Pi / 180
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	dx := (rawDeltaX*cos + rawDeltaY*sin) * scaleX
	dy := (-rawDeltaX*sin + rawDeltaY*cos) * scaleY
	t.TranslateX += dx
	t.TranslateY += dy
	return t
}

// WithScale returns t with Scale set to v clamped to [MinScale, MaxScale].
func (t PhotoTransform) WithScale(v float64) PhotoTransform {
	t.Scale = clamp(v, MinScale, MaxScale)
	return t
}

// WithRotation returns t with RotationDegrees set to v clamped to [-180, 180].
func (t PhotoTransform) WithRotation(v float64) PhotoTransform {
	t.RotationDegrees = clamp(v, MinRotation, MaxRotation)
	return t
}

// WithTranslateX returns t with TranslateX set to v clamped to the control range.
func (t PhotoTransform) WithTranslateX(v float64) PhotoTransform {
	t.TranslateX = clamp(v, -MaxTranslateX, MaxTranslateX)
	return t
}

// WithTranslateY returns t with TranslateY set to v clamped to the control range.
func (t PhotoTransform) WithTranslateY(v float64) PhotoTransform {
	t.TranslateY = clamp(v, -MaxTranslateY, MaxTranslateY)
	return t
}

// Scaled returns the translation multiplied by k. It is the only place where
// offsets cross resolutions so preview and export stay consistent.
func (t PhotoTransform) Scaled(k float64) (x, y float64) {
	return t.TranslateX * k, t.TranslateY * k
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		v = 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
