//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"golang.design/x/clipboard"
)

// designBackend uses golang.design/x/clipboard, which needs cgo.
type designBackend struct{}

func openPlatform() (backend, error) {
	if !hasDisplay() {
		return nil, errNoDisplay
	}
	if err := clipboard.Init(); err != nil {
		return nil, err
	}
	return designBackend{}, nil
}

func (designBackend) format(k kind) clipboard.Format {
	if k == kindPNG {
		return clipboard.FmtImage
	}
	return clipboard.FmtText
}

func (b designBackend) write(k kind, data []byte) error {
	clipboard.Write(b.format(k), data)
	return nil
}

func (b designBackend) read(k kind) ([]byte, error) {
	return clipboard.Read(b.format(k)), nil
}
