// Package clipboard copies exports and the caption to the system clipboard
// and reads pasted photos from it.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync"
)

var (
	// ErrEmpty reports that the clipboard holds no data of the requested kind.
	ErrEmpty = errors.New("clipboard does not contain the requested data")
	// ErrUnsupported reports a platform without clipboard support.
	ErrUnsupported = errors.New("clipboard operations are not supported on this platform")

	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
)

type kind int

const (
	kindText kind = iota
	kindPNG
)

func (k kind) String() string {
	if k == kindPNG {
		return "image"
	}
	return "text"
}

// backend is one platform clipboard implementation.
type backend interface {
	write(k kind, data []byte) error
	read(k kind) ([]byte, error)
}

var (
	initOnce sync.Once
	initErr  error
	active   backend
	// open is replaced in tests.
	open = openPlatform
)

func ensureInit() (backend, error) {
	initOnce.Do(func() {
		active, initErr = open()
	})
	return active, initErr
}

// WriteImage encodes img as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	b, err := ensureInit()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return b.write(kindPNG, buf.Bytes())
}

// ReadImage decodes the image on the clipboard.
func ReadImage() (image.Image, error) {
	data, err := readKind(kindPNG)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode clipboard image: %w", err)
	}
	return img, nil
}

// WriteText writes text to the clipboard.
func WriteText(text string) error {
	b, err := ensureInit()
	if err != nil {
		return err
	}
	return b.write(kindText, []byte(text))
}

// ReadText returns the UTF-8 text on the clipboard.
func ReadText() (string, error) {
	data, err := readKind(kindText)
	if err != nil {
		return "", err
	}
	return string(bytes.TrimRight(data, "\x00")), nil
}

func readKind(k kind) ([]byte, error) {
	b, err := ensureInit()
	if err != nil {
		return nil, err
	}
	data, err := b.read(k)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, k)
	}
	return data, nil
}

// System is the process clipboard as a value, for callers that take a
// clipboard interface.
type System struct{}

func (System) WriteImage(img image.Image) error { return WriteImage(img) }
func (System) WriteText(text string) error      { return WriteText(text) }
func (System) ReadImage() (image.Image, error)  { return ReadImage() }
