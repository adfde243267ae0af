// Package interaction turns pointer and touch input into photo transform
// updates and compositor redraw requests.
package interaction

import (
	"fmt"

	"github.com/example/twibbon/internal/render"
	"github.com/example/twibbon/internal/transform"
)

// State is the gesture state.
type State int

const (
	StateIdle State = iota
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// PointerID identifies an input pointer. The mouse is MousePointer; touch
// sequences use TouchPointer(n).
type PointerID int64

const MousePointer PointerID = -1

// TouchPointer returns the id for touch sequence n.
func TouchPointer(n int64) PointerID { return PointerID(n) }

// Viewport relates the canvas buffer to its on-screen size.
type Viewport struct {
	CanvasW, CanvasH   float64
	DisplayW, DisplayH float64
}

// Ratio returns the viewport-to-canvas scale ratios canvas/displayed. A
// missing dimension yields 1.
func (v Viewport) Ratio() (float64, float64) {
	sx, sy := 1.0, 1.0
	if v.DisplayW > 0 && v.CanvasW > 0 {
		sx = v.CanvasW / v.DisplayW
	}
	if v.DisplayH > 0 && v.CanvasH > 0 {
		sy = v.CanvasH / v.DisplayH
	}
	return sx, sy
}

// Session is the ephemeral state of a drag gesture.
type Session struct {
	Dragging     bool
	Pointer      PointerID
	LastX, LastY float64
}

// Controller is the idle/dragging state machine. It mutates the transform it
// was given and asks for a redraw after every change. It is not safe for
// concurrent use; feed it from one event loop.
type Controller struct {
	t           *transform.PhotoTransform
	photoLoaded func() bool
	redraw      func(render.DrawMode)
	viewport    Viewport
	session     Session
}

// New returns an idle controller. photoLoaded gates gestures; redraw may be
// nil.
func New(t *transform.PhotoTransform, photoLoaded func() bool, redraw func(render.DrawMode)) *Controller {
	if redraw == nil {
		redraw = func(render.DrawMode) {}
	}
	return &Controller{t: t, photoLoaded: photoLoaded, redraw: redraw}
}

// SetViewport records the current on-screen size of the canvas.
func (c *Controller) SetViewport(v Viewport) { c.viewport = v }

// Viewport returns the current viewport.
func (c *Controller) Viewport() Viewport { return c.viewport }

// State reports the gesture state.
func (c *Controller) State() State {
	if c.session.Dragging {
		return StateDragging
	}
	return StateIdle
}

// Session returns a copy of the gesture session.
func (c *Controller) Session() Session { return c.session }

// Mode is the draw mode matching the gesture state.
func (c *Controller) Mode() render.DrawMode {
	if c.session.Dragging {
		return render.ModeManipulating
	}
	return render.ModeIdle
}

// PointerDown starts a drag at (x, y) in viewport coordinates. It does
// nothing when no photo is loaded or another pointer is already dragging.
func (c *Controller) PointerDown(id PointerID, x, y float64) bool {
	if c.session.Dragging || c.photoLoaded == nil || !c.photoLoaded() {
		return false
	}
	c.session = Session{Dragging: true, Pointer: id, LastX: x, LastY: y}
	return true
}

// PointerMove applies the delta since the last position of the dragging
// pointer and requests a manipulating redraw.
func (c *Controller) PointerMove(id PointerID, x, y float64) bool {
	if !c.session.Dragging || id != c.session.Pointer {
		return false
	}
	dx, dy := x-c.session.LastX, y-c.session.LastY
	c.session.LastX, c.session.LastY = x, y
	sx, sy := c.viewport.Ratio()
	*c.t = transform.ApplyPointerDelta(*c.t, dx, dy, sx, sy)
	c.redraw(render.ModeManipulating)
	return true
}

// PointerUp ends the drag of pointer id.
func (c *Controller) PointerUp(id PointerID) bool {
	if !c.session.Dragging || id != c.session.Pointer {
		return false
	}
	return c.end()
}

// PointerLeave ends any drag when the pointer leaves the canvas.
func (c *Controller) PointerLeave() bool { return c.end() }

// PointerCancel ends any drag when the platform cancels the gesture.
func (c *Controller) PointerCancel() bool { return c.end() }

func (c *Controller) end() bool {
	if !c.session.Dragging {
		return false
	}
	c.session = Session{}
	c.redraw(render.ModeIdle)
	return true
}

// Reset abandons any gesture without requesting a redraw. It is used when
// the photo is replaced.
func (c *Controller) Reset() { c.session = Session{} }
