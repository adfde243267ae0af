package asset

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"golang.org/x/image/bmp"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// pngHeader returns the signature and IHDR chunk of a w x h grayscale PNG.
// It is enough for image.DecodeConfig.
func pngHeader(w, h int) []byte {
	var ihdr [13]byte
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(w))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(h))
	ihdr[8] = 8 // bit depth; colour type 0 is grayscale
	chunk := append([]byte("IHDR"), ihdr[:]...)
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestLoaderRejectsHugeDimensions(t *testing.T) {
	huge := pngHeader(16000, 16000)
	dir := t.TempDir()
	path := filepath.Join(dir, "huge.png")
	if err := os.WriteFile(path, huge, 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{MaxBytes: DefaultMaxBytes}
	for _, src := range []string{path, DataURI("image/png", huge)} {
		if _, err := l.Load(context.Background(), src); !errors.Is(err, ErrTooLarge) {
			t.Errorf("Load(%.40s) = %v, want ErrTooLarge", src, err)
		}
	}
	if _, err := l.FromBytes("upload:huge.png", huge); !errors.Is(err, ErrTooLarge) {
		t.Errorf("FromBytes = %v, want ErrTooLarge", err)
	}
}

func TestLoaderHTTPTimeout(t *testing.T) {
	if defaultClient.Timeout <= 0 {
		t.Fatal("default client has no timeout")
	}
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	client := srv.Client()
	client.Timeout = 50 * time.Millisecond
	l := &Loader{Client: client}
	start := time.Now()
	if _, err := l.Load(context.Background(), srv.URL+"/stalled.png"); err == nil {
		t.Fatal("expected a timeout error")
	}
	if d := time.Since(start); d > 5*time.Second {
		t.Fatalf("stalled fetch took %v", d)
	}
}

func TestLoaderSources(t *testing.T) {
	data := encodePNG(t, 30, 20)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/photo.png" {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	defer srv.Close()

	l := &Loader{
		Client:    srv.Client(),
		Embedded:  fstest.MapFS{"frame.png": {Data: data}},
		Clipboard: func() (image.Image, error) { return image.NewRGBA(image.Rect(0, 0, 30, 20)), nil },
	}
	sources := []string{
		DataURI("image/png", data),
		"embed:frame.png",
		srv.URL + "/photo.png",
		"clipboard:",
	}
	for _, src := range sources {
		a, err := l.Load(context.Background(), src)
		if err != nil {
			t.Fatalf("%s: %v", shorten(src), err)
		}
		if a.Width != 30 || a.Height != 20 {
			t.Fatalf("%s: size %dx%d", shorten(src), a.Width, a.Height)
		}
	}

	if _, err := l.Load(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Fatal("expected error for 404")
	}
	if _, err := l.Load(context.Background(), "ftp://example.com/x.png"); !errors.Is(err, ErrUnsupportedSource) {
		t.Fatalf("ftp: got %v", err)
	}
}

func TestLoaderFileAndLimits(t *testing.T) {
	data := encodePNG(t, 50, 10)
	dir := t.TempDir()
	path := filepath.Join(dir, "p.png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	l := &Loader{MaxDimension: 25}
	a, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if a.Width != 25 || a.Height != 5 {
		t.Fatalf("resize on load: got %dx%d", a.Width, a.Height)
	}
	if a.SourceURL != path {
		t.Fatalf("source %q, want %q", a.SourceURL, path)
	}

	small := &Loader{MaxBytes: int64(len(data) - 1)}
	if _, err := small.Load(context.Background(), path); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if _, err := (&Loader{}).FromBytes("junk", []byte("not an image")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestBoundedSize(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{4000, 2000, 2000, 2000, 1000},
		{2000, 4000, 2000, 1000, 2000},
		{3000, 3000, 2000, 2000, 2000},
		{2001, 1001, 2000, 2000, 1000},
		{1999, 10, 2000, 1999, 10},
		{10000, 1, 2000, 2000, 1},
		{640, 480, 0, 640, 480},
	}
	for _, tt := range tests {
		w, h := BoundedSize(tt.w, tt.h, tt.max)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("BoundedSize(%d,%d,%d) = %d,%d want %d,%d", tt.w, tt.h, tt.max, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestResizeToMaxPassesSmallImagesThrough(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))
	if got := ResizeToMax(img, 2000); got != image.Image(img) {
		t.Fatal("small image should be returned unchanged")
	}
}

func TestReadUpload(t *testing.T) {
	pngData := encodePNG(t, 4, 4)
	if _, format, err := ReadUpload(bytes.NewReader(pngData), DefaultMaxBytes); err != nil || format != "png" {
		t.Fatalf("png upload: %q %v", format, err)
	}
	if _, _, err := ReadUpload(bytes.NewReader(pngData), 8); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}

	var bmpData bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	if err := bmp.Encode(&bmpData, img); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ReadUpload(&bmpData, DefaultMaxBytes); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("bmp upload should be rejected, got %v", err)
	}
	if _, _, err := ReadUpload(strings.NewReader("hello"), DefaultMaxBytes); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("text upload should be rejected, got %v", err)
	}
	if _, _, err := ReadUpload(bytes.NewReader(pngHeader(16000, 16000)), DefaultMaxBytes); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge for a 256 MP header, got %v", err)
	}
	if _, _, err := ReadUpload(bytes.NewReader(pngHeader(5000, 10000)), DefaultMaxBytes); err != nil {
		t.Fatalf("50 MP is within the limit: %v", err)
	}
}

func TestResolve(t *testing.T) {
	abs, err := filepath.Abs("photo.png")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct{ in, want string }{
		{"photo.png", abs},
		{"./x/../photo.png", abs},
		{"https://example.com/a.png", "https://example.com/a.png"},
		{"embed:frame.png", "embed:frame.png"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Resolve(tt.in); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseDataURI(t *testing.T) {
	got, err := parseDataURI("text/plain,hello%20world")
	if err != nil || string(got) != "hello world" {
		t.Fatalf("plain: %q %v", got, err)
	}
	got, err = parseDataURI("image/png;base64,aGVs\nbG8")
	if err != nil || string(got) != "hello" {
		t.Fatalf("base64: %q %v", got, err)
	}
	if _, err := parseDataURI("no-comma"); err == nil {
		t.Fatal("expected error")
	}
}
