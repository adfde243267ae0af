package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/twibbon/internal/export"
	"github.com/example/twibbon/internal/filter"
	"github.com/example/twibbon/internal/server"
)

type serveCmd struct {
	*root
	fs     *flag.FlagSet
	addr   string
	maxMB  int
	format export.Format
	filter filter.Selection
}

func (c *serveCmd) Program() string {
	return subProgram(c.root, c.fs.Name())
}

func (c *serveCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseServeCmd(args []string, r *root) (*serveCmd, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	c := &serveCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.addr, "addr", r.config.Server.Addr, "listen address")
	fs.IntVar(&c.maxMB, "max-upload-mb", r.config.Server.MaxUploadMB, "largest accepted photo upload in MiB")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, &UsageError{of: c}
		}
		return nil, err
	}
	if c.maxMB <= 0 {
		return nil, errors.New("-max-upload-mb must be positive")
	}
	format, err := export.ParseFormat(r.config.Format)
	if err != nil {
		return nil, err
	}
	sel, err := filter.Parse(r.config.Filter)
	if err != nil {
		return nil, err
	}
	c.format, c.filter = format, sel
	return c, nil
}

func (c *serveCmd) Run() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Options{
		Logger:         logger,
		Loader:         c.loader(),
		FrameSource:    c.frame,
		Slug:           c.slug,
		ExportMultiple: c.config.ExportMultiple,
		MaxUploadBytes: int64(c.maxMB) << 20,
		Format:         c.format,
		Filter:         c.filter,
	})
	return srv.ListenAndServe(ctx, c.addr)
}
