package interaction

import (
	"image"
	"math"
	"testing"

	"github.com/example/twibbon/internal/render"
	"github.com/example/twibbon/internal/transform"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"
)

type harness struct {
	t      transform.PhotoTransform
	loaded bool
	modes  []render.DrawMode
	c      *Controller
}

func newHarness(loaded bool) *harness {
	h := &harness{t: transform.Identity(), loaded: loaded}
	h.c = New(&h.t, func() bool { return h.loaded }, func(m render.DrawMode) { h.modes = append(h.modes, m) })
	return h
}

func TestPointerDownRequiresPhoto(t *testing.T) {
	h := newHarness(false)
	if h.c.PointerDown(MousePointer, 10, 10) {
		t.Fatal("gesture started without a photo")
	}
	if h.c.PointerMove(MousePointer, 50, 50) || h.c.State() != StateIdle {
		t.Fatal("controller left idle without a photo")
	}
	if h.t != transform.Identity() || len(h.modes) != 0 {
		t.Fatalf("transform %+v modes %v", h.t, h.modes)
	}
}

func TestDragLifecycle(t *testing.T) {
	h := newHarness(true)
	// Canvas shown at half size: one screen pixel is two canvas units.
	h.c.SetViewport(Viewport{CanvasW: 1080, CanvasH: 1350, DisplayW: 540, DisplayH: 675})

	if !h.c.PointerDown(MousePointer, 100, 100) || h.c.State() != StateDragging {
		t.Fatal("expected dragging")
	}
	if h.c.Mode() != render.ModeManipulating {
		t.Fatal("dragging should select the manipulating draw mode")
	}
	h.c.PointerMove(MousePointer, 110, 95)
	h.c.PointerMove(MousePointer, 120, 90)
	if h.t.TranslateX != 40 || h.t.TranslateY != -20 {
		t.Fatalf("translate = (%v, %v)", h.t.TranslateX, h.t.TranslateY)
	}
	if s := h.c.Session(); s.LastX != 120 || s.LastY != 90 {
		t.Fatalf("last position not updated: %+v", s)
	}
	h.c.PointerUp(MousePointer)
	want := []render.DrawMode{render.ModeManipulating, render.ModeManipulating, render.ModeIdle}
	if len(h.modes) != len(want) {
		t.Fatalf("modes = %v", h.modes)
	}
	for i := range want {
		if h.modes[i] != want[i] {
			t.Fatalf("modes = %v, want %v", h.modes, want)
		}
	}
	if h.c.State() != StateIdle || h.c.Mode() != render.ModeIdle {
		t.Fatal("expected idle after pointer up")
	}
}

func TestDragIsRotationAware(t *testing.T) {
	h := newHarness(true)
	h.t = h.t.WithRotation(90)
	h.c.PointerDown(MousePointer, 0, 0)
	h.c.PointerMove(MousePointer, 10, 0)
	if math.Abs(h.t.TranslateX) > 1e-9 || math.Abs(h.t.TranslateY+10) > 1e-9 {
		t.Fatalf("rotated drag = (%v, %v)", h.t.TranslateX, h.t.TranslateY)
	}
}

func TestGestureEndings(t *testing.T) {
	endings := map[string]func(c *Controller) bool{
		"up":     func(c *Controller) bool { return c.PointerUp(MousePointer) },
		"leave":  func(c *Controller) bool { return c.PointerLeave() },
		"cancel": func(c *Controller) bool { return c.PointerCancel() },
	}
	for name, end := range endings {
		t.Run(name, func(t *testing.T) {
			h := newHarness(true)
			h.c.PointerDown(MousePointer, 0, 0)
			if !end(h.c) {
				t.Fatal("ending not applied")
			}
			if h.c.State() != StateIdle || len(h.modes) != 1 || h.modes[0] != render.ModeIdle {
				t.Fatalf("state %v modes %v", h.c.State(), h.modes)
			}
			if end(h.c) {
				t.Fatal("ending an idle controller should be a no-op")
			}
		})
	}
}

func TestOnlyFirstTouchIsTracked(t *testing.T) {
	h := newHarness(true)
	area := image.Rect(0, 0, 1080, 1350)
	h.c.HandleTouch(touch.Event{X: 100, Y: 100, Sequence: 1, Type: touch.TypeBegin}, area)
	if h.c.HandleTouch(touch.Event{X: 500, Y: 500, Sequence: 2, Type: touch.TypeBegin}, area) {
		t.Fatal("second touch should be ignored")
	}
	h.c.HandleTouch(touch.Event{X: 900, Y: 900, Sequence: 2, Type: touch.TypeMove}, area)
	h.c.HandleTouch(touch.Event{X: 130, Y: 100, Sequence: 1, Type: touch.TypeMove}, area)
	if h.t.TranslateX != 30 || h.t.TranslateY != 0 {
		t.Fatalf("translate = (%v, %v)", h.t.TranslateX, h.t.TranslateY)
	}
	h.c.HandleTouch(touch.Event{Sequence: 2, Type: touch.TypeEnd}, area)
	if h.c.State() != StateDragging {
		t.Fatal("ending the second touch should not end the gesture")
	}
	h.c.HandleTouch(touch.Event{Sequence: 1, Type: touch.TypeEnd}, area)
	if h.c.State() != StateIdle {
		t.Fatal("ending the first touch should end the gesture")
	}
}

func TestMouseLeavingCanvasEndsDrag(t *testing.T) {
	h := newHarness(true)
	area := image.Rect(10, 10, 118, 145)
	h.c.HandleMouse(mouse.Event{X: 5, Y: 5, Button: mouse.ButtonLeft, Direction: mouse.DirPress}, area)
	if h.c.State() != StateIdle {
		t.Fatal("press outside the canvas should not start a drag")
	}
	h.c.HandleMouse(mouse.Event{X: 20, Y: 20, Button: mouse.ButtonLeft, Direction: mouse.DirPress}, area)
	h.c.HandleMouse(mouse.Event{X: 25, Y: 20}, area)
	h.c.HandleMouse(mouse.Event{X: 200, Y: 20}, area)
	if h.c.State() != StateIdle {
		t.Fatal("leaving the canvas should end the drag")
	}
	if h.t.TranslateX != 5 {
		t.Fatalf("translateX = %v", h.t.TranslateX)
	}
}

func TestViewportRatio(t *testing.T) {
	sx, sy := Viewport{CanvasW: 1080, CanvasH: 1350, DisplayW: 360, DisplayH: 450}.Ratio()
	if sx != 3 || sy != 3 {
		t.Fatalf("ratio = %v, %v", sx, sy)
	}
	if sx, sy := (Viewport{}).Ratio(); sx != 1 || sy != 1 {
		t.Fatalf("empty viewport ratio = %v, %v", sx, sy)
	}
}
