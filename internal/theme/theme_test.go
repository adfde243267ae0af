package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	th, err := Parse(strings.NewReader("Name: Test\n# comment\nbackground: #102030\nSliderFill: #11223344\nUnknown: #000000\n"))
	if err != nil {
		t.Fatal(err)
	}
	if th.Name != "Test" {
		t.Errorf("name = %q", th.Name)
	}
	if th.Background != (color.RGBA{0x10, 0x20, 0x30, 0xFF}) {
		t.Errorf("background = %+v", th.Background)
	}
	if th.SliderFill != (color.RGBA{0x11, 0x22, 0x33, 0x44}) {
		t.Errorf("slider fill = %+v", th.SliderFill)
	}
	if th.Foreground != Default().Foreground {
		t.Error("unset fields should keep defaults")
	}
	if _, err := Parse(strings.NewReader("Background: 102030")); err == nil {
		t.Error("expected error for colour without #")
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, s := range []string{"#A0B0C0", "#01020304"} {
		c, err := ParseColor(s)
		if err != nil {
			t.Fatal(err)
		}
		if got := Hex(c); got != s {
			t.Errorf("Hex(ParseColor(%q)) = %q", s, got)
		}
	}
	if _, err := ParseColor("#123"); err == nil {
		t.Error("expected error for short colour")
	}
}

func TestLoader(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mine.theme"), []byte("Name: Mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{ConfigDir: dir}
	for name, want := range map[string]string{"": "Default", "dark": "Dark", "light.theme": "Light", "mine": "Mine"} {
		th, err := l.Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		if th.Name != want {
			t.Errorf("Load(%q).Name = %q, want %q", name, th.Name, want)
		}
	}
	if _, err := l.Load("missing"); err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestFields(t *testing.T) {
	fields := Fields(Default())
	if len(fields) == 0 || fields[0].Name != "Background" {
		t.Fatalf("fields = %+v", fields)
	}
}
