package main

import (
	"flag"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/twibbon/assets"
	"github.com/example/twibbon/internal/asset"
	"github.com/example/twibbon/internal/clipboard"
	"github.com/example/twibbon/internal/export"
	"github.com/example/twibbon/internal/filter"
	"github.com/example/twibbon/internal/transform"
)

// loader builds the asset loader shared by every command.
func (r *root) loader() *asset.Loader {
	return &asset.Loader{
		Client:       &http.Client{Timeout: asset.DefaultHTTPTimeout},
		Embedded:     assets.FS(),
		Clipboard:    clipboard.ReadImage,
		MaxDimension: r.config.MaxDimension,
	}
}

func (r *root) exporter(format export.Format) *export.Exporter {
	return &export.Exporter{
		Multiple: r.config.ExportMultiple,
		Format:   format,
		Slug:     r.slug,
	}
}

// placementFlags registers the photo placement and styling flags shared by
// render and preview.
type placementFlags struct {
	x, y     float64
	scale    float64
	rotation float64
	filter   string
	format   string
}

func (p *placementFlags) register(fs *flag.FlagSet, r *root) {
	fs.Float64Var(&p.x, "x", 0, "horizontal offset in canvas pixels")
	fs.Float64Var(&p.y, "y", 0, "vertical offset in canvas pixels")
	fs.Float64Var(&p.scale, "scale", 1, fmt.Sprintf("photo scale (%g to %g)", transform.MinScale, transform.MaxScale))
	fs.Float64Var(&p.rotation, "rotation", 0, fmt.Sprintf("photo rotation in degrees (%g to %g)", transform.MinRotation, transform.MaxRotation))
	defFilter, defFormat := "", string(export.JPEG)
	if r != nil && r.config != nil {
		defFilter, defFormat = r.config.Filter, r.config.Format
	}
	fs.StringVar(&p.filter, "filter", defFilter, "photo filter: none, grayscale, sepia, saturate, contrast, brightness or invert")
	fs.StringVar(&p.format, "format", defFormat, "output format: jpeg or png")
}

// resolve validates the flag values. Scale and rotation are clamped into
// their ranges the same way the editor controls clamp them.
func (p *placementFlags) resolve() (transform.PhotoTransform, filter.Selection, export.Format, error) {
	t := transform.Identity()
	t.TranslateX, t.TranslateY = p.x, p.y
	t = t.Set(transform.FieldScale, p.scale).Set(transform.FieldRotation, p.rotation)
	sel, err := filter.Parse(p.filter)
	if err != nil {
		return t, sel, "", err
	}
	format, err := export.ParseFormat(p.format)
	if err != nil {
		return t, sel, "", err
	}
	return t, sel, format, nil
}

// parseSize parses WxH.
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q: want WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("invalid width in %q", s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("invalid height in %q", s)
	}
	return w, h, nil
}

// isSet reports whether the named flag was given on the command line.
func isSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
