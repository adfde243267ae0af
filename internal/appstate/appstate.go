package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"

	"github.com/example/twibbon/internal/filter"
	"github.com/example/twibbon/internal/render"
	"github.com/example/twibbon/internal/theme"
	"github.com/example/twibbon/internal/transform"
)

const (
	panelWidth   = 232
	statusHeight = 24
	panelPad     = 8
	sliderHeight = 40
	buttonHeight = 24
	thumbWidth   = 64
	thumbHeight  = 80
	thumbLabel   = 16
	thumbColumns = 3
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// Initial window size: the canvas at half size next to the panel.
var (
	defaultWidth  = render.CanonicalWidth/2 + panelWidth
	defaultHeight = render.CanonicalHeight/2 + statusHeight
)

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 20, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

// previewRect fits a canvas of cw x ch into area, centred, preserving aspect.
func previewRect(area image.Rectangle, cw, ch int) image.Rectangle {
	if area.Empty() || cw <= 0 || ch <= 0 {
		return image.Rectangle{}
	}
	zx := float64(area.Dx()) / float64(cw)
	zy := float64(area.Dy()) / float64(ch)
	zoom := math.Min(zx, zy)
	w := int(float64(cw) * zoom)
	h := int(float64(ch) * zoom)
	x0 := area.Min.X + (area.Dx()-w)/2
	y0 := area.Min.Y + (area.Dy()-h)/2
	return image.Rect(x0, y0, x0+w, y0+h)
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	u := &image.Uniform{col}
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thick), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Max.Y-thick, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thick, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Max.X-thick, rect.Min.Y, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
}

func drawLabel(dst *image.RGBA, x, y int, text string, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
	d.DrawString(text)
}

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) Rect() image.Rectangle { return cb.Button.Rect() }

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.Invalidate()
	}
}

func (cb *CacheButton) Activate() { cb.Button.Activate() }

// Invalidate drops the cached renderings, e.g. after a selection change.
func (cb *CacheButton) Invalidate() { cb.cache = [3]*image.RGBA{} }

func buttonColor(th *theme.Theme, state ButtonState) color.RGBA {
	switch state {
	case StateHover:
		return th.ButtonBackgroundHover
	case StatePressed:
		return th.ButtonBackgroundPress
	}
	return th.ButtonBackground
}

// ActionButton is a labelled panel button.
type ActionButton struct {
	label      string
	theme      *theme.Theme
	rect       image.Rectangle
	onActivate func()
}

func (ab *ActionButton) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, ab.rect, &image.Uniform{buttonColor(ab.theme, state)}, image.Point{}, draw.Src)
	drawRect(dst, ab.rect, ab.theme.ButtonBorder, 1)
	drawLabel(dst, ab.rect.Min.X+6, ab.rect.Min.Y+16, ab.label, ab.theme.ButtonText)
}

func (ab *ActionButton) Rect() image.Rectangle { return ab.rect }

func (ab *ActionButton) SetRect(r image.Rectangle) { ab.rect = r }

func (ab *ActionButton) Activate() {
	if ab.onActivate != nil {
		ab.onActivate()
	}
}

// FilterButton shows one filtered thumbnail card.
type FilterButton struct {
	thumb    filter.Thumbnail
	theme    *theme.Theme
	selected bool
	rect     image.Rectangle
	onSelect func(filter.Selection)
}

func (fb *FilterButton) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, fb.rect, &image.Uniform{buttonColor(fb.theme, state)}, image.Point{}, draw.Src)
	card := image.Rect(fb.rect.Min.X, fb.rect.Min.Y, fb.rect.Max.X, fb.rect.Max.Y-thumbLabel)
	if fb.thumb.Image != nil {
		xdraw.ApproxBiLinear.Scale(dst, card, fb.thumb.Image, fb.thumb.Image.Bounds(), draw.Src, nil)
	}
	drawLabel(dst, fb.rect.Min.X+2, fb.rect.Max.Y-4, fb.thumb.Filter.Label(), fb.theme.ButtonText)
	if fb.selected {
		drawRect(dst, fb.rect, fb.theme.Selection, 3)
	}
}

func (fb *FilterButton) Rect() image.Rectangle { return fb.rect }

func (fb *FilterButton) SetRect(r image.Rectangle) { fb.rect = r }

func (fb *FilterButton) Activate() {
	if fb.onSelect != nil {
		fb.onSelect(fb.thumb.Filter)
	}
}

// Slider edits one transform field.
type Slider struct {
	Field    transform.Field
	Label    string
	Min, Max float64
	rect     image.Rectangle
}

func defaultSliders() []Slider {
	return []Slider{
		{Field: transform.FieldScale, Label: "Scale", Min: transform.MinScale, Max: transform.MaxScale},
		{Field: transform.FieldRotation, Label: "Rotation", Min: transform.MinRotation, Max: transform.MaxRotation},
		{Field: transform.FieldTranslateX, Label: "X", Min: -transform.MaxTranslateX, Max: transform.MaxTranslateX},
		{Field: transform.FieldTranslateY, Label: "Y", Min: -transform.MaxTranslateY, Max: transform.MaxTranslateY},
	}
}

// track is the horizontal bar below the label.
func (s Slider) track() image.Rectangle {
	y := s.rect.Min.Y + 24
	return image.Rect(s.rect.Min.X, y, s.rect.Max.X, y+6)
}

// valueAt maps a window x coordinate onto the slider range.
func (s Slider) valueAt(x int) float64 {
	tr := s.track()
	if tr.Dx() <= 0 {
		return s.Min
	}
	f := float64(x-tr.Min.X) / float64(tr.Dx())
	f = math.Max(0, math.Min(1, f))
	return s.Min + f*(s.Max-s.Min)
}

// knobX is the window x coordinate of v.
func (s Slider) knobX(v float64) int {
	tr := s.track()
	f := (v - s.Min) / (s.Max - s.Min)
	f = math.Max(0, math.Min(1, f))
	return tr.Min.X + int(math.Round(f*float64(tr.Dx())))
}

func (s Slider) format(v float64) string {
	switch s.Field {
	case transform.FieldScale:
		return fmt.Sprintf("%s %.2fx", s.Label, v)
	case transform.FieldRotation:
		return fmt.Sprintf("%s %.0f deg", s.Label, v)
	}
	return fmt.Sprintf("%s %.0f", s.Label, v)
}

func drawSlider(dst *image.RGBA, s Slider, v float64, th *theme.Theme, active bool) {
	drawLabel(dst, s.rect.Min.X, s.rect.Min.Y+14, s.format(v), th.Foreground)
	tr := s.track()
	draw.Draw(dst, tr, &image.Uniform{th.SliderTrack}, image.Point{}, draw.Src)
	kx := s.knobX(v)
	draw.Draw(dst, image.Rect(tr.Min.X, tr.Min.Y, kx, tr.Max.Y), &image.Uniform{th.SliderFill}, image.Point{}, draw.Src)
	knob := image.Rect(kx-4, tr.Min.Y-5, kx+4, tr.Max.Y+5)
	draw.Draw(dst, knob, &image.Uniform{th.SliderKnob}, image.Point{}, draw.Src)
	if active {
		drawRect(dst, knob.Inset(-1), th.Selection, 1)
	}
}

// layout places every element for a window of width x height.
type layout struct {
	preview image.Rectangle
	panel   image.Rectangle
	status  image.Rectangle
	sliders []image.Rectangle
	buttons []image.Rectangle
	thumbs  []image.Rectangle
}

func computeLayout(width, height, nSliders, nButtons, nThumbs int) layout {
	var l layout
	px := width - panelWidth
	if px < 0 {
		px = 0
	}
	l.panel = image.Rect(px, 0, width, height-statusHeight)
	l.status = image.Rect(0, height-statusHeight, width, height)
	l.preview = previewRect(image.Rect(0, 0, px, height-statusHeight), render.CanonicalWidth, render.CanonicalHeight)

	y := panelPad
	x0, x1 := px+panelPad, width-panelPad
	for i := 0; i < nSliders; i++ {
		l.sliders = append(l.sliders, image.Rect(x0, y, x1, y+sliderHeight))
		y += sliderHeight
	}
	y += panelPad
	for i := 0; i < nButtons; i++ {
		l.buttons = append(l.buttons, image.Rect(x0, y, x1, y+buttonHeight))
		y += buttonHeight + 2
	}
	y += panelPad
	for i := 0; i < nThumbs; i++ {
		col, row := i%thumbColumns, i/thumbColumns
		x := x0 + col*(thumbWidth+panelPad)
		ty := y + row*(thumbHeight+thumbLabel+panelPad)
		l.thumbs = append(l.thumbs, image.Rect(x, ty, x+thumbWidth, ty+thumbHeight+thumbLabel))
	}
	return l
}

// hit returns the index of the rectangle containing p, or -1.
func hit(rects []image.Rectangle, p image.Point) int {
	for i, r := range rects {
		if p.In(r) {
			return i
		}
	}
	return -1
}

type paintState struct {
	width, height int
	theme         *theme.Theme
	layout        layout
	preview       *image.RGBA
	photoLoaded   bool
	photoPending  bool
	sliders       []Slider
	values        []float64
	activeSlider  int
	buttons       []*CacheButton
	thumbs        []*CacheButton
	hoverButton   int
	hoverThumb    int
	status        string
	message       string
	messageError  bool
	messageUntil  time.Time
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()
	th := st.theme

	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.Background}, image.Point{}, draw.Src)
	drawCheckerboard(dst, st.layout.preview, 8, th.CheckerLight, th.CheckerDark)
	if ctx.Err() != nil {
		return
	}

	if st.preview != nil {
		xdraw.ApproxBiLinear.Scale(dst, st.layout.preview, st.preview, st.preview.Bounds(), draw.Over, nil)
	}
	if !st.photoLoaded {
		hint := "Ctrl+V to paste a photo"
		if st.photoPending {
			hint = "Loading photo..."
		}
		d := &font.Drawer{Face: basicfont.Face7x13}
		wt := d.MeasureString(hint).Ceil()
		c := st.layout.preview
		drawLabel(dst, c.Min.X+(c.Dx()-wt)/2, c.Min.Y+c.Dy()/2, hint, th.Foreground)
	}
	if ctx.Err() != nil {
		return
	}

	draw.Draw(dst, st.layout.panel, &image.Uniform{th.PanelBackground}, image.Point{}, draw.Src)
	for i, sl := range st.sliders {
		drawSlider(dst, sl, st.values[i], th, i == st.activeSlider)
	}
	for i, bt := range st.buttons {
		state := StateDefault
		if i == st.hoverButton {
			state = StateHover
		}
		bt.Draw(dst, state)
	}
	for i, bt := range st.thumbs {
		state := StateDefault
		if i == st.hoverThumb {
			state = StateHover
		}
		bt.Draw(dst, state)
	}
	if ctx.Err() != nil {
		return
	}

	draw.Draw(dst, st.layout.status, &image.Uniform{th.PanelBackground}, image.Point{}, draw.Src)
	drawLabel(dst, st.layout.status.Min.X+6, st.layout.status.Min.Y+16, st.status, th.Foreground)

	if st.message != "" && time.Now().Before(st.messageUntil) {
		col := th.Foreground
		if st.messageError {
			col = th.Error
		}
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: messageFace}
		wmsg := d.MeasureString(st.message).Ceil()
		ascent := messageFace.Metrics().Ascent.Ceil()
		descent := messageFace.Metrics().Descent.Ceil()
		c := st.layout.preview
		px := c.Min.X + (c.Dx()-wmsg)/2
		py := c.Max.Y - descent - 24
		rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
		draw.Draw(dst, rect, &image.Uniform{th.PanelBackground}, image.Point{}, draw.Over)
		drawRect(dst, rect, th.ButtonBorder, 2)
		d.Dot = fixed.P(px, py)
		d.DrawString(st.message)
	}

	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
