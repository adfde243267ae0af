package assets

import (
	"image"
	"image/png"
	"strings"
	"testing"
)

func TestFrameHasTransparentCutout(t *testing.T) {
	f, err := FS().Open(FrameName)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 1080, 1350) {
		t.Fatalf("frame bounds = %v", img.Bounds())
	}
	if _, _, _, a := img.At(540, 675).RGBA(); a != 0 {
		t.Fatalf("centre alpha = %d, want transparent", a)
	}
	if _, _, _, a := img.At(5, 5).RGBA(); a != 0xffff {
		t.Fatalf("corner alpha = %d, want opaque", a)
	}
}

func TestCaption(t *testing.T) {
	c := Caption()
	if c == "" || strings.HasSuffix(c, "\n") {
		t.Fatalf("caption = %q", c)
	}
}
