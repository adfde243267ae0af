package main

import (
	"errors"
	"flag"

	"github.com/example/twibbon/assets"
	"github.com/example/twibbon/internal/appstate"
	"github.com/example/twibbon/internal/clipboard"
	"github.com/example/twibbon/internal/editor"
	"github.com/example/twibbon/internal/export"
	"github.com/example/twibbon/internal/filter"
)

type editCmd struct {
	*root
	fs        *flag.FlagSet
	photo     string
	outputDir string
	format    string
	filter    filter.Selection
}

func (c *editCmd) Program() string {
	return subProgram(c.root, c.fs.Name())
}

func (c *editCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	c := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	var filterName string
	fs.StringVar(&c.photo, "photo", "", "photo to open (file path, URL, data: URI or clipboard:)")
	fs.StringVar(&c.outputDir, "output-dir", r.config.OutputDir, "directory for saved exports")
	fs.StringVar(&c.format, "format", r.config.Format, "export format: jpeg or png")
	fs.StringVar(&filterName, "filter", r.config.Filter, "initial photo filter")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, &UsageError{of: c}
		}
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: c}
	}
	sel, err := filter.Parse(filterName)
	if err != nil {
		return nil, err
	}
	c.filter = sel
	if _, err := export.ParseFormat(c.format); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *editCmd) Run() error {
	format, _ := export.ParseFormat(c.format)
	loader := c.loader()
	st := appstate.New(
		appstate.WithSession(editor.Options{
			FrameSource: c.frame,
			Load:        loader.Load,
			Notifier:    c.notifier,
			Exporter:    c.exporter(format),
			Clipboard:   clipboard.System{},
			Caption:     assets.Caption(),
			Filter:      c.filter,
		}),
		appstate.WithPhoto(c.photo),
		appstate.WithOutputDir(c.outputDir),
		appstate.WithTheme(c.activeTheme),
	)
	st.Run()
	return nil
}
