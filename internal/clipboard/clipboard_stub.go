//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

func openPlatform() (backend, error) {
	return nil, ErrUnsupported
}
