package clipboard

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
)

type memBackend struct{ data map[kind][]byte }

func (m *memBackend) write(k kind, data []byte) error {
	m.data = map[kind][]byte{k: data}
	return nil
}

func (m *memBackend) read(k kind) ([]byte, error) { return m.data[k], nil }

func useBackend(t *testing.T, b backend, err error) {
	t.Helper()
	prev := open
	open = func() (backend, error) { return b, err }
	initOnce = sync.Once{}
	t.Cleanup(func() {
		open = prev
		initOnce = sync.Once{}
		active, initErr = nil, nil
	})
}

func TestRoundTripThroughBackend(t *testing.T) {
	useBackend(t, &memBackend{}, nil)

	if err := WriteText("caption\x00"); err != nil {
		t.Fatal(err)
	}
	if got, err := ReadText(); err != nil || got != "caption" {
		t.Fatalf("ReadText = %q, %v", got, err)
	}
	if _, err := ReadImage(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("text-only clipboard should have no image, got %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	if err := (System{}).WriteImage(img); err != nil {
		t.Fatal(err)
	}
	got, err := ReadImage()
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds() != img.Bounds() {
		t.Fatalf("bounds = %v", got.Bounds())
	}
	if r, _, _, _ := got.At(1, 1).RGBA(); r>>8 != 200 {
		t.Fatalf("pixel red = %d", r>>8)
	}
}

func TestInitErrorIsSticky(t *testing.T) {
	useBackend(t, nil, errNoDisplay)
	if err := WriteText("x"); !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay, got %v", err)
	}
	if _, err := ReadText(); !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay, got %v", err)
	}
}
