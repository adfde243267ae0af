package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/twibbon/internal/clipboard"
	"github.com/example/twibbon/internal/export"
)

type renderCmd struct {
	*root
	fs          *flag.FlagSet
	photo       string
	output      string
	outputDir   string
	toClipboard bool
	placement   placementFlags

	// writeImage is replaced in tests.
	writeImage func(*export.Result) error
}

func (c *renderCmd) Program() string {
	return subProgram(c.root, c.fs.Name())
}

func (c *renderCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	c := &renderCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.photo, "photo", "", "photo source (file path, URL, data: URI or clipboard:)")
	fs.StringVar(&c.output, "output", "", "write the export to this file")
	fs.StringVar(&c.outputDir, "output-dir", r.config.OutputDir, "write the export into this directory under its generated name")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the export to the clipboard")
	c.placement.register(fs, r)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, &UsageError{of: c}
		}
		return nil, err
	}
	if strings.TrimSpace(c.photo) == "" {
		return nil, errors.New("-photo is required")
	}
	if c.output != "" && isSet(fs, "output-dir") {
		return nil, errors.New("-output and -output-dir are mutually exclusive")
	}
	if _, _, _, err := c.placement.resolve(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *renderCmd) Run() error {
	t, sel, format, err := c.placement.resolve()
	if err != nil {
		return err
	}
	if c.output != "" && !isSet(c.fs, "format") {
		if f, err := export.ParseFormat(strings.TrimPrefix(filepath.Ext(c.output), ".")); err == nil {
			format = f
		}
	}
	loader := c.loader()
	res, err := c.exporter(format).Export(context.Background(), loader, loader, export.Request{
		PhotoSource: c.photo,
		FrameSource: c.frame,
		Transform:   t,
		Filter:      sel,
	})
	if err != nil {
		c.notifier.ExportFailed(err)
		return fmt.Errorf("render %s: %w", c.photo, err)
	}

	if c.toClipboard {
		write := c.writeImage
		if write == nil {
			write = func(r *export.Result) error { return clipboard.WriteImage(r.Image) }
		}
		if err := write(res); err != nil {
			c.notifier.ExportFailed(err)
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		c.notifier.Copied("export")
		fmt.Fprintln(c.out(), "copied export to clipboard")
		if c.output == "" && !isSet(c.fs, "output-dir") {
			return nil
		}
	}

	var path string
	if c.output != "" {
		if err := os.WriteFile(c.output, res.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", c.output, err)
		}
		path = c.output
	} else {
		path, err = export.Save(c.outputDir, res)
		if err != nil {
			return err
		}
	}
	c.notifier.Exported(path, res.Image)
	fmt.Fprintf(c.out(), "saved %s\n", path)
	return nil
}
