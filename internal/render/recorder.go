package render

import (
	"image"

	"seehuhn.de/go/geom/matrix"
)

// OpKind identifies a recorded surface call.
type OpKind string

const (
	OpReset     OpKind = "reset"
	OpQuality   OpKind = "quality"
	OpSave      OpKind = "save"
	OpRestore   OpKind = "restore"
	OpTransform OpKind = "transform"
	OpAlpha     OpKind = "alpha"
	OpDraw      OpKind = "draw"
)

// Op is one recorded surface call. Draw ops carry the effective
// transformation and alpha at the time of the call.
type Op struct {
	Kind       OpKind
	Image      image.Image
	X, Y, W, H float64
	Alpha      float64
	CTM        matrix.Matrix
}

// Recorder is a Surface that records calls instead of rasterising. It is
// used to check draw order and geometry without comparing pixels.
type Recorder struct {
	Ops []Op
	// ResetErr, when set, is returned by Reset.
	ResetErr error

	state gstate
	stack []gstate
}

func (r *Recorder) Reset(width, height int) error {
	if r.ResetErr != nil {
		return r.ResetErr
	}
	r.Ops = append(r.Ops, Op{Kind: OpReset, W: float64(width), H: float64(height)})
	r.state = initialState()
	r.stack = r.stack[:0]
	return nil
}

func (r *Recorder) SetQuality(q Quality) {
	r.Ops = append(r.Ops, Op{Kind: OpQuality, X: float64(q)})
}

func (r *Recorder) Save() {
	r.stack = append(r.stack, r.state)
	r.Ops = append(r.Ops, Op{Kind: OpSave})
}

func (r *Recorder) Restore() {
	if n := len(r.stack); n > 0 {
		r.state = r.stack[n-1]
		r.stack = r.stack[:n-1]
	}
	r.Ops = append(r.Ops, Op{Kind: OpRestore})
}

func (r *Recorder) Transform(m matrix.Matrix) {
	r.state.ctm = m.Mul(r.state.ctm)
	r.Ops = append(r.Ops, Op{Kind: OpTransform, CTM: m})
}

func (r *Recorder) SetAlpha(alpha float64) {
	r.state.alpha = alpha
	r.Ops = append(r.Ops, Op{Kind: OpAlpha, Alpha: alpha})
}

func (r *Recorder) DrawImage(img image.Image, x, y, w, h float64) {
	r.Ops = append(r.Ops, Op{Kind: OpDraw, Image: img, X: x, Y: y, W: w, H: h, Alpha: r.state.alpha, CTM: r.state.ctm})
}

// Draws returns only the draw ops, in order.
func (r *Recorder) Draws() []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == OpDraw {
			out = append(out, op)
		}
	}
	return out
}

// Depth reports the number of unbalanced Save calls.
func (r *Recorder) Depth() int { return len(r.stack) }
