package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/example/twibbon/internal/asset"
	"github.com/example/twibbon/internal/export"
	"github.com/example/twibbon/internal/filter"
	"github.com/example/twibbon/internal/render"
)

type previewCmd struct {
	*root
	fs        *flag.FlagSet
	photo     string
	output    string
	dragging  bool
	placement placementFlags
}

func (c *previewCmd) Program() string {
	return subProgram(c.root, c.fs.Name())
}

func (c *previewCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parsePreviewCmd(args []string, r *root) (*previewCmd, error) {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	c := &previewCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.photo, "photo", "", "photo source (file path, URL, data: URI or clipboard:)")
	fs.StringVar(&c.output, "output", "", "PNG file to write")
	fs.BoolVar(&c.dragging, "dragging", false, "render the manipulating state: frame underneath, photo translucent on top")
	c.placement.register(fs, r)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, &UsageError{of: c}
		}
		return nil, err
	}
	if strings.TrimSpace(c.output) == "" {
		return nil, errors.New("-output is required")
	}
	if _, _, _, err := c.placement.resolve(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *previewCmd) Run() error {
	t, sel, _, err := c.placement.resolve()
	if err != nil {
		return err
	}
	ctx := context.Background()
	loader := c.loader()
	sc := render.Scene{Transform: t, Mode: render.ModeIdle}
	if c.dragging {
		sc.Mode = render.ModeManipulating
	}
	if c.photo != "" {
		photo, err := loader.Load(ctx, c.photo)
		if err != nil {
			c.notifier.LoadFailed(string(asset.LayerPhoto), err)
			return fmt.Errorf("load photo %s: %w", c.photo, err)
		}
		sc.Photo = filter.Apply(photo.Img(), sel)
	}
	if c.frame != "" {
		frame, err := loader.Load(ctx, c.frame)
		if err != nil {
			c.notifier.LoadFailed(string(asset.LayerFrame), err)
			return fmt.Errorf("load frame %s: %w", c.frame, err)
		}
		sc.Frame = frame.Img()
	}

	surface := render.NewRaster()
	if err := render.Render(surface, render.Preview(), sc); err != nil {
		return err
	}
	f, err := os.Create(c.output)
	if err != nil {
		return fmt.Errorf("create %s: %w", c.output, err)
	}
	if err := export.Encode(f, surface.Image(), export.PNG); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(c.out(), "saved %s (%s)\n", c.output, sc.Mode)
	return nil
}
