package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/example/twibbon/internal/filter"
)

type thumbnailsCmd struct {
	*root
	fs        *flag.FlagSet
	photo     string
	outputDir string
	width     int
	height    int
}

func (c *thumbnailsCmd) Program() string {
	return subProgram(c.root, c.fs.Name())
}

func (c *thumbnailsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseThumbnailsCmd(args []string, r *root) (*thumbnailsCmd, error) {
	fs := flag.NewFlagSet("thumbnails", flag.ContinueOnError)
	c := &thumbnailsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	var size string
	fs.StringVar(&c.photo, "photo", "", "photo source (file path, URL, data: URI or clipboard:)")
	fs.StringVar(&c.outputDir, "output-dir", ".", "directory for the thumbnail PNGs")
	fs.StringVar(&size, "size", fmt.Sprintf("%dx%d", filter.ThumbWidth, filter.ThumbHeight), "thumbnail size as WIDTHxHEIGHT")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, &UsageError{of: c}
		}
		return nil, err
	}
	if strings.TrimSpace(c.photo) == "" {
		return nil, errors.New("-photo is required")
	}
	w, h, err := parseSize(size)
	if err != nil {
		return nil, err
	}
	c.width, c.height = w, h
	return c, nil
}

// Run writes one thumb-<filter>.png per filter.
func (c *thumbnailsCmd) Run() error {
	photo, err := c.loader().Load(context.Background(), c.photo)
	if err != nil {
		c.notifier.LoadFailed("photo", err)
		return fmt.Errorf("load photo %s: %w", c.photo, err)
	}
	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", c.outputDir, err)
	}
	for _, th := range filter.Thumbnails(photo.Img(), c.width, c.height) {
		path := filepath.Join(c.outputDir, "thumb-"+th.Filter.String()+".png")
		if err := imaging.Save(th.Image, path); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(c.out(), "%s\t%s\n", th.Filter.Label(), path)
	}
	return nil
}
