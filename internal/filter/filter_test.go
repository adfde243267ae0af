package filter

import (
	"image"
	"image/color"
	"testing"
)

func uniform(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func at(img image.Image) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(img.Bounds().Min.X+1, img.Bounds().Min.Y+1)).(color.NRGBA)
}

func TestParse(t *testing.T) {
	for _, s := range All {
		got, err := Parse(s.String())
		if err != nil || got != s {
			t.Fatalf("Parse(%q) = %v, %v", s.String(), got, err)
		}
	}
	if got, err := Parse(" Sepia "); err != nil || got != Sepia {
		t.Fatalf("case-insensitive parse: %v %v", got, err)
	}
	if got, err := Parse(""); err != nil || got != None {
		t.Fatalf("empty parse: %v %v", got, err)
	}
	if _, err := Parse("vintage"); err == nil {
		t.Fatal("expected error for unknown filter")
	}
}

func TestNextCycles(t *testing.T) {
	s := None
	for range All {
		s = s.Next()
	}
	if s != None {
		t.Fatalf("cycling through all filters ended at %v", s)
	}
	if Invert.Next() != None || None.Label() != "None" {
		t.Fatal("unexpected cycle or label")
	}
}

func TestApply(t *testing.T) {
	src := uniform(color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	tests := []struct {
		name  string
		s     Selection
		check func(c color.NRGBA) bool
	}{
		{"none", None, func(c color.NRGBA) bool { return c == color.NRGBA{R: 200, G: 100, B: 50, A: 255} }},
		{"grayscale", Grayscale, func(c color.NRGBA) bool { return c.R == c.G && c.G == c.B }},
		{"sepia", Sepia, func(c color.NRGBA) bool { return c.R >= c.G && c.G >= c.B && c.A == 255 }},
		{"saturate", Saturate, func(c color.NRGBA) bool { return int(c.R)-int(c.B) > 150 }},
		{"contrast", Contrast, func(c color.NRGBA) bool { return c.R > 200 && c.B < 50 }},
		{"brightness", Brightness, func(c color.NRGBA) bool { return c.R == 250 && c.G == 125 && c.B == 63 }},
		{"invert", Invert, func(c color.NRGBA) bool { return c.R == 55 && c.G == 155 && c.B == 205 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := at(Apply(src, tt.s))
			if !tt.check(got) {
				t.Fatalf("unexpected colour %+v", got)
			}
		})
	}
	if Apply(nil, Sepia) != nil {
		t.Fatal("nil image should stay nil")
	}
}

func TestThumbnails(t *testing.T) {
	wide := image.NewNRGBA(image.Rect(0, 0, 400, 100))
	thumbs := Thumbnails(wide, ThumbWidth, ThumbHeight)
	if len(thumbs) != len(All) {
		t.Fatalf("got %d thumbnails", len(thumbs))
	}
	for i, th := range thumbs {
		if th.Filter != All[i] {
			t.Fatalf("thumbnail %d is %v", i, th.Filter)
		}
		if b := th.Image.Bounds(); b.Dx() != ThumbWidth || b.Dy() != ThumbHeight {
			t.Fatalf("%v: size %v", th.Filter, b)
		}
	}
	if Thumbnails(nil, 10, 10) != nil {
		t.Fatal("nil image should produce no thumbnails")
	}
}
