package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/example/twibbon/assets"
	"github.com/example/twibbon/internal/clipboard"
)

type captionCmd struct {
	*root
	fs *flag.FlagSet

	// writeText is replaced in tests.
	writeText func(string) error
}

func (c *captionCmd) Program() string {
	return subProgram(c.root, c.fs.Name())
}

func (c *captionCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseCaptionCmd(args []string, r *root) (*captionCmd, error) {
	fs := flag.NewFlagSet("caption", flag.ContinueOnError)
	c := &captionCmd{root: r, fs: fs, writeText: clipboard.WriteText}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, &UsageError{of: c}
		}
		return nil, err
	}
	return c, nil
}

func (c *captionCmd) Run() error {
	action := "print"
	if c.fs.NArg() > 0 {
		action = c.fs.Arg(0)
	}
	switch action {
	case "print":
		fmt.Fprintln(c.out(), assets.Caption())
		return nil
	case "copy":
		if err := c.writeText(assets.Caption()); err != nil {
			return fmt.Errorf("copy caption: %w", err)
		}
		c.notifier.Copied("caption")
		fmt.Fprintln(c.out(), "copied caption to clipboard")
		return nil
	default:
		return fmt.Errorf("unknown caption command: %s", action)
	}
}
