// Package export renders the final high resolution composite and encodes it.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/example/twibbon/internal/asset"
	"github.com/example/twibbon/internal/filter"
	"github.com/example/twibbon/internal/render"
	"github.com/example/twibbon/internal/transform"
)

// ErrEncoding reports that the rendered image could not be serialised.
var ErrEncoding = errors.New("export encoding failed")

// JPEGQuality is the fixed quality factor (0.9) used for JPEG output.
const JPEGQuality = 90

// DefaultSlug is used in filenames when none is configured.
const DefaultSlug = "milad-16"

// Format is an output image format.
type Format string

const (
	JPEG Format = "jpeg"
	PNG  Format = "png"
)

// ParseFormat accepts jpeg, jpg and png. The empty string is JPEG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "jpeg", "jpg":
		return JPEG, nil
	case "png":
		return PNG, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Ext is the filename extension without the dot.
func (f Format) Ext() string { return string(f) }

// MediaType is the MIME type of the format.
func (f Format) MediaType() string { return "image/" + string(f) }

// Encode writes img to w in format f. Failures wrap ErrEncoding.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case JPEG:
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality))
	case PNG:
		err = imaging.Encode(w, img, imaging.PNG)
	default:
		err = fmt.Errorf("unknown format %q", f)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return nil
}

// Filename returns twibbon-<slug>-<unix millis>.<ext>.
func Filename(slug string, f Format, at time.Time) string {
	if slug == "" {
		slug = DefaultSlug
	}
	return fmt.Sprintf("twibbon-%s-%d.%s", slug, at.UnixMilli(), f.Ext())
}

// Loader loads one layer for an export. Both *asset.Slot and *asset.Loader
// satisfy it.
type Loader interface {
	Load(ctx context.Context, src string) (*asset.RasterAsset, error)
}

// Request describes one export.
type Request struct {
	PhotoSource string
	FrameSource string
	Transform   transform.PhotoTransform
	Filter      filter.Selection
}

// Result is an encoded export.
type Result struct {
	Image    *image.RGBA
	Data     []byte
	Filename string
	Format   Format
}

// Exporter serialises export requests. Every export renders on its own
// surface, so the preview surface is never touched.
type Exporter struct {
	Multiple int
	Format   Format
	Slug     string
	Now      func() time.Time

	mu sync.Mutex
}

// Profile is the render profile used for exports.
func (e *Exporter) Profile() render.Profile { return render.Export(e.Multiple) }

// Export loads the photo and then the frame, renders them once at export
// resolution and encodes the result. A load failure aborts the export and
// is returned as an *asset.LoadError.
func (e *Exporter) Export(ctx context.Context, photos, frames Loader, req Request) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	photo, err := photos.Load(ctx, req.PhotoSource)
	if err != nil {
		return nil, layerError(asset.LayerPhoto, req.PhotoSource, err)
	}
	var frame *asset.RasterAsset
	if req.FrameSource != "" {
		frame, err = frames.Load(ctx, req.FrameSource)
		if err != nil {
			return nil, layerError(asset.LayerFrame, req.FrameSource, err)
		}
	}
	return e.render(render.Scene{
		Photo:     filter.Apply(photo.Img(), req.Filter),
		Frame:     frame.Img(),
		Transform: req.Transform,
		Mode:      render.ModeIdle,
	})
}

// ExportScene renders an already assembled scene.
func (e *Exporter) ExportScene(sc render.Scene) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	sc.Mode = render.ModeIdle
	return e.render(sc)
}

func (e *Exporter) render(sc render.Scene) (*Result, error) {
	surface := render.NewRaster()
	if err := render.Render(surface, e.Profile(), sc); err != nil {
		return nil, err
	}
	format := e.Format
	if format == "" {
		format = JPEG
	}
	var buf bytes.Buffer
	if err := Encode(&buf, surface.Image(), format); err != nil {
		return nil, err
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	return &Result{
		Image:    surface.Image(),
		Data:     buf.Bytes(),
		Filename: Filename(e.Slug, format, now()),
		Format:   format,
	}, nil
}

func layerError(layer asset.Layer, src string, err error) error {
	var le *asset.LoadError
	if errors.As(err, &le) {
		return err
	}
	return &asset.LoadError{Source: src, Layer: layer, Err: err}
}

// Save writes r into dir under its filename and returns the full path. An
// empty dir means the current directory.
func Save(dir string, r *Result) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, r.Filename)
	if err := os.WriteFile(path, r.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
