package appstate

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/twibbon/internal/filter"
	"github.com/example/twibbon/internal/theme"
	"github.com/example/twibbon/internal/transform"
)

func TestPreviewRectKeepsAspect(t *testing.T) {
	tests := []struct {
		area image.Rectangle
		want image.Rectangle
	}{
		{image.Rect(0, 0, 540, 675), image.Rect(0, 0, 540, 675)},
		{image.Rect(0, 0, 1000, 675), image.Rect(230, 0, 770, 675)},
		{image.Rect(0, 0, 540, 1000), image.Rect(0, 162, 540, 837)},
		{image.Rectangle{}, image.Rectangle{}},
	}
	for _, tt := range tests {
		if got := previewRect(tt.area, 1080, 1350); got != tt.want {
			t.Errorf("previewRect(%v) = %v, want %v", tt.area, got, tt.want)
		}
	}
}

func TestComputeLayout(t *testing.T) {
	l := computeLayout(defaultWidth, defaultHeight, 4, 5, 7)
	if l.preview != image.Rect(0, 0, 540, 675) {
		t.Fatalf("preview = %v", l.preview)
	}
	if l.panel.Min.X != 540 || l.status.Min.Y != 675 {
		t.Fatalf("panel = %v status = %v", l.panel, l.status)
	}
	if len(l.sliders) != 4 || len(l.buttons) != 5 || len(l.thumbs) != 7 {
		t.Fatalf("unexpected element counts %+v", l)
	}
	all := append(append(append([]image.Rectangle{}, l.sliders...), l.buttons...), l.thumbs...)
	for i, r := range all {
		if !r.In(l.panel) {
			t.Errorf("element %d %v outside panel %v", i, r, l.panel)
		}
		for j := i + 1; j < len(all); j++ {
			if r.Overlaps(all[j]) {
				t.Errorf("elements %d and %d overlap", i, j)
			}
		}
	}
	if got := hit(l.buttons, l.buttons[2].Min.Add(image.Pt(1, 1))); got != 2 {
		t.Errorf("hit = %d, want 2", got)
	}
	if got := hit(l.buttons, image.Pt(-1, -1)); got != -1 {
		t.Errorf("hit outside = %d", got)
	}
}

func TestSliderMapping(t *testing.T) {
	s := Slider{Field: transform.FieldRotation, Min: -180, Max: 180, rect: image.Rect(100, 0, 300, 40)}
	tests := []struct {
		x    int
		want float64
	}{
		{100, -180},
		{200, 0},
		{300, 180},
		{50, -180},
		{400, 180},
	}
	for _, tt := range tests {
		if got := s.valueAt(tt.x); got != tt.want {
			t.Errorf("valueAt(%d) = %v, want %v", tt.x, got, tt.want)
		}
	}
	for _, v := range []float64{-180, -90, 0, 45, 180} {
		if got := s.valueAt(s.knobX(v)); got < v-1 || got > v+1 {
			t.Errorf("round trip of %v gave %v", v, got)
		}
	}
}

type countingButton struct {
	rect  image.Rectangle
	draws int
}

func (b *countingButton) Draw(dst *image.RGBA, _ ButtonState) {
	b.draws++
	dst.Set(b.rect.Min.X, b.rect.Min.Y, color.RGBA{R: 255, A: 255})
}
func (b *countingButton) Rect() image.Rectangle     { return b.rect }
func (b *countingButton) SetRect(r image.Rectangle) { b.rect = r }
func (b *countingButton) Activate()                 {}

func TestCacheButtonRedrawsOnlyWhenInvalidated(t *testing.T) {
	inner := &countingButton{rect: image.Rect(2, 2, 10, 10)}
	cb := &CacheButton{Button: inner}
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))

	cb.Draw(dst, StateDefault)
	cb.Draw(dst, StateDefault)
	if inner.draws != 1 {
		t.Fatalf("draws = %d, want 1", inner.draws)
	}
	if dst.RGBAAt(2, 2).R != 255 {
		t.Fatal("cached rendering not copied to dst")
	}
	cb.Draw(dst, StateHover)
	cb.SetRect(inner.rect)
	cb.Draw(dst, StateDefault)
	if inner.draws != 2 {
		t.Fatalf("draws = %d, want 2", inner.draws)
	}
	cb.Invalidate()
	cb.Draw(dst, StateDefault)
	cb.SetRect(image.Rect(0, 0, 8, 8))
	cb.Draw(dst, StateDefault)
	if inner.draws != 4 {
		t.Fatalf("draws = %d, want 4", inner.draws)
	}
}

func TestFilterButtonActivatesSelection(t *testing.T) {
	var got filter.Selection
	fb := &FilterButton{
		thumb:    filter.Thumbnail{Filter: filter.Sepia, Image: image.NewNRGBA(image.Rect(0, 0, thumbWidth, thumbHeight))},
		theme:    theme.Default(),
		selected: true,
		rect:     image.Rect(0, 0, thumbWidth, thumbHeight+thumbLabel),
		onSelect: func(s filter.Selection) { got = s },
	}
	dst := image.NewRGBA(fb.rect)
	fb.Draw(dst, StateDefault)
	if dst.RGBAAt(0, 0) != theme.Default().Selection {
		t.Errorf("selected card border = %v", dst.RGBAAt(0, 0))
	}
	fb.Activate()
	if got != filter.Sepia {
		t.Fatalf("selected %v", got)
	}
}
