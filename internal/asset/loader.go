package asset

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// DefaultMaxDimension bounds the larger side of a loaded photo.
	DefaultMaxDimension = 2000
	// DefaultMaxBytes bounds uploaded and fetched image data.
	DefaultMaxBytes = 10 << 20
	// DefaultHTTPTimeout bounds an http(s) fetch when no Client is set.
	DefaultHTTPTimeout = 30 * time.Second
)

var defaultClient = &http.Client{Timeout: DefaultHTTPTimeout}

// Loader resolves a source URL to a decoded image. Supported sources are
// plain file paths, file:, data:, http:, https:, embed: (read from Embedded)
// and clipboard: (read through Clipboard).
type Loader struct {
	Client    *http.Client
	Embedded  fs.FS
	Clipboard func() (image.Image, error)
	// MaxDimension, when positive, downsizes larger images on load.
	MaxDimension int
	// MaxBytes, when positive, rejects larger encoded sources.
	MaxBytes int64
}

// Load fetches and decodes src. The returned asset records the resolved
// source so equivalent references compare equal.
func (l *Loader) Load(ctx context.Context, src string) (*RasterAsset, error) {
	resolved := Resolve(src)
	img, err := l.fetch(ctx, resolved)
	if err != nil {
		return nil, err
	}
	return NewRasterAsset(resolved, l.bound(img)), nil
}

// FromBytes decodes already fetched image data recorded under source.
func (l *Loader) FromBytes(source string, data []byte) (*RasterAsset, error) {
	img, err := decode(data)
	if err != nil {
		return nil, err
	}
	return NewRasterAsset(source, l.bound(img)), nil
}

func (l *Loader) bound(img image.Image) image.Image {
	if l.MaxDimension > 0 {
		return ResizeToMax(img, l.MaxDimension)
	}
	return img
}

func (l *Loader) fetch(ctx context.Context, src string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	scheme, rest := splitScheme(src)
	switch scheme {
	case "":
		f, err := os.Open(src)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return l.decodeFrom(f)
	case "embed":
		if l.Embedded == nil {
			return nil, fmt.Errorf("%w: no embedded assets", ErrUnsupportedSource)
		}
		f, err := l.Embedded.Open(rest)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return l.decodeFrom(f)
	case "data":
		data, err := parseDataURI(rest)
		if err != nil {
			return nil, err
		}
		if l.MaxBytes > 0 && int64(len(data)) > l.MaxBytes {
			return nil, ErrTooLarge
		}
		return decode(data)
	case "http", "https":
		return l.fetchHTTP(ctx, src)
	case "clipboard":
		if l.Clipboard == nil {
			return nil, fmt.Errorf("%w: clipboard", ErrUnsupportedSource)
		}
		return l.Clipboard()
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, scheme)
}

func (l *Loader) fetchHTTP(ctx context.Context, src string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	client := l.Client
	if client == nil {
		client = defaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", src, resp.Status)
	}
	return l.decodeFrom(resp.Body)
}

func (l *Loader) decodeFrom(r io.Reader) (image.Image, error) {
	data, err := readLimited(r, l.MaxBytes)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func readLimited(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, ErrTooLarge
	}
	return data, nil
}

func decode(data []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) {
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := checkPixels(cfg); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) {
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

// Resolve normalises src so that equivalent references compare equal: file
// paths and file: URLs become absolute cleaned paths, everything else is
// returned unchanged.
func Resolve(src string) string {
	src = strings.TrimSpace(src)
	scheme, _ := splitScheme(src)
	switch scheme {
	case "":
		if src == "" {
			return ""
		}
	case "file":
		u, err := url.Parse(src)
		if err != nil || u.Path == "" {
			return src
		}
		src = filepath.FromSlash(u.Path)
	default:
		return src
	}
	abs, err := filepath.Abs(src)
	if err != nil {
		return filepath.Clean(src)
	}
	return abs
}

// splitScheme returns the lower-cased scheme and the remainder. Single letter
// schemes are treated as Windows drive letters.
func splitScheme(src string) (string, string) {
	i := strings.IndexByte(src, ':')
	if i < 2 {
		return "", src
	}
	for _, r := range src[:i] {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.') {
			return "", src
		}
	}
	return strings.ToLower(src[:i]), src[i+1:]
}

// parseDataURI decodes the payload of a data: URI (without the scheme).
func parseDataURI(rest string) ([]byte, error) {
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URI")
	}
	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		payload = strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
				return -1
			}
			return r
		}, payload)
		if data, err := base64.StdEncoding.DecodeString(payload); err == nil {
			return data, nil
		}
		return base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// DataURI encodes data as a base64 data: URI of the given media type.
func DataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
