package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// ErrSurfaceUnavailable reports that a drawing target could not be acquired.
// It only fails the render call that hit it.
var ErrSurfaceUnavailable = errors.New("render surface unavailable")

// Quality selects the resampling filter used when drawing scaled images.
type Quality int

const (
	QualityFast Quality = iota
	QualityHigh
)

// Surface is a raster drawing target with a canvas-like graphics state:
// a current transformation matrix and a global alpha, both saved and
// restored as a stack.
type Surface interface {
	// Reset resizes the surface to width x height, clears it to transparent
	// and drops any saved graphics state.
	Reset(width, height int) error
	SetQuality(q Quality)
	Save()
	Restore()
	// Transform pre-multiplies m onto the current transformation so that
	// m is applied to coordinates before the existing transformation.
	Transform(m matrix.Matrix)
	SetAlpha(alpha float64)
	// DrawImage draws img stretched to the rectangle (x, y, w, h) in user space.
	DrawImage(img image.Image, x, y, w, h float64)
}

// withState runs fn inside a saved graphics state. The state is restored on
// every exit path, including a panic inside fn.
func withState(s Surface, fn func()) {
	s.Save()
	defer s.Restore()
	fn()
}

type gstate struct {
	ctm   matrix.Matrix
	alpha float64
}

func initialState() gstate { return gstate{ctm: matrix.Identity, alpha: 1} }

// Raster is a Surface backed by an *image.RGBA.
type Raster struct {
	img     *image.RGBA
	quality Quality
	state   gstate
	stack   []gstate
}

// NewRaster returns an empty raster surface. Call Reset before drawing.
func NewRaster() *Raster {
	return &Raster{quality: QualityHigh, state: initialState()}
}

// Image returns the backing image, or nil before the first Reset.
func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) Reset(width, height int) (err error) {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: invalid size %dx%d", ErrSurfaceUnavailable, width, height)
	}
	defer func() {
		// image.NewRGBA panics when the buffer cannot be allocated.
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: allocate %dx%d: %v", ErrSurfaceUnavailable, width, height, p)
		}
	}()
	rect := image.Rect(0, 0, width, height)
	if r.img == nil || !r.img.Rect.Eq(rect) {
		r.img = image.NewRGBA(rect)
	} else {
		draw.Draw(r.img, rect, image.Transparent, image.Point{}, draw.Src)
	}
	r.state = initialState()
	r.stack = r.stack[:0]
	return nil
}

func (r *Raster) SetQuality(q Quality) { r.quality = q }

func (r *Raster) Save() { r.stack = append(r.stack, r.state) }

func (r *Raster) Restore() {
	n := len(r.stack)
	if n == 0 {
		return
	}
	r.state = r.stack[n-1]
	r.stack = r.stack[:n-1]
}

func (r *Raster) Transform(m matrix.Matrix) { r.state.ctm = m.Mul(r.state.ctm) }

func (r *Raster) SetAlpha(alpha float64) {
	r.state.alpha = math.Max(0, math.Min(1, alpha))
}

func (r *Raster) DrawImage(img image.Image, x, y, w, h float64) {
	if r.img == nil || img == nil || r.state.alpha <= 0 {
		return
	}
	sb := img.Bounds()
	if sb.Empty() || w == 0 || h == 0 {
		return
	}
	s2u := matrix.Translate(-float64(sb.Min.X), -float64(sb.Min.Y)).
		Mul(matrix.Scale(w/float64(sb.Dx()), h/float64(sb.Dy()))).
		Mul(matrix.Translate(x, y))
	s2d := toAff3(s2u.Mul(r.state.ctm))

	var opts *xdraw.Options
	if r.state.alpha < 1 {
		opts = &xdraw.Options{
			SrcMask: image.NewUniform(color.Alpha16{A: uint16(r.state.alpha*0xffff + 0.5)}),
		}
	}
	r.interpolator().Transform(r.img, s2d, img, sb, xdraw.Over, opts)
}

func (r *Raster) interpolator() xdraw.Interpolator {
	if r.quality == QualityHigh {
		return xdraw.CatmullRom
	}
	return xdraw.ApproxBiLinear
}

// toAff3 converts m into the row-major source-to-destination matrix used by
// x/image/draw by probing the images of the origin and the unit vectors.
func toAff3(m matrix.Matrix) f64.Aff3 {
	var o, ex, ey vec.Vec2
	o.X, o.Y = m.Apply(0, 0)
	ex.X, ex.Y = m.Apply(1, 0)
	ey.X, ey.Y = m.Apply(0, 1)
	return f64.Aff3{
		ex.X - o.X, ey.X - o.X, o.X,
		ex.Y - o.Y, ey.Y - o.Y, o.Y,
	}
}

// rotation returns the canvas-style rotation by deg degrees (clockwise on a
// y-down raster).
func rotation(deg float64) matrix.Matrix {
	rad := deg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return matrix.Matrix{cos, sin, -sin, cos, 0, 0}
}
