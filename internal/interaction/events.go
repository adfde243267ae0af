package interaction

import (
	"image"

	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"
)

// HandleMouse feeds a window mouse event. area is where the canvas is shown
// in window pixels; leaving it ends a drag.
func (c *Controller) HandleMouse(e mouse.Event, area image.Rectangle) bool {
	x, y := float64(e.X), float64(e.Y)
	inside := image.Pt(int(e.X), int(e.Y)).In(area)
	switch e.Direction {
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft || !inside {
			return false
		}
		return c.PointerDown(MousePointer, x, y)
	case mouse.DirRelease:
		if e.Button != mouse.ButtonLeft {
			return false
		}
		return c.PointerUp(MousePointer)
	case mouse.DirNone:
		if !inside {
			if c.session.Pointer == MousePointer {
				return c.PointerLeave()
			}
			return false
		}
		return c.PointerMove(MousePointer, x, y)
	}
	return false
}

// HandleTouch feeds a touch event. Only the first active touch sequence
// drives the gesture.
func (c *Controller) HandleTouch(e touch.Event, area image.Rectangle) bool {
	id := TouchPointer(int64(e.Sequence))
	x, y := float64(e.X), float64(e.Y)
	switch e.Type {
	case touch.TypeBegin:
		if !image.Pt(int(e.X), int(e.Y)).In(area) {
			return false
		}
		return c.PointerDown(id, x, y)
	case touch.TypeMove:
		return c.PointerMove(id, x, y)
	case touch.TypeEnd:
		return c.PointerUp(id)
	}
	return false
}
