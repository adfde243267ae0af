// Package server exposes the compositor over HTTP: upload a photo with its
// placement and receive the framed export.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/example/twibbon/internal/asset"
	"github.com/example/twibbon/internal/export"
	"github.com/example/twibbon/internal/filter"
	"github.com/example/twibbon/internal/render"
	"github.com/example/twibbon/internal/transform"
)

// multipartOverhead is allowed on top of the photo size for the form fields
// and part headers.
const multipartOverhead = 1 << 20

// Options configures a Server.
type Options struct {
	Logger *slog.Logger
	// Loader loads the frame and decodes uploads.
	Loader         *asset.Loader
	FrameSource    string
	Slug           string
	ExportMultiple int
	MaxUploadBytes int64
	Format         export.Format
	Filter         filter.Selection
	// Now stamps export filenames; nil means time.Now.
	Now func() time.Time
}

// Server renders uploads against the configured frame.
type Server struct {
	opts   Options
	logger *slog.Logger
	router *chi.Mux

	frameMu sync.Mutex
	frame   *asset.RasterAsset
}

// New returns a server with its routes registered.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Loader == nil {
		opts.Loader = &asset.Loader{}
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = asset.DefaultMaxBytes
	}
	if opts.Format == "" {
		opts.Format = export.JPEG
	}
	s := &Server{opts: opts, logger: opts.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	s.RegisterHTTP(r)
	s.router = r
	return s
}

// RegisterHTTP registers the endpoints on r.
func (s *Server) RegisterHTTP(r chi.Router) {
	r.Get("/healthz", s.handleHealth)
	r.Get("/frame", s.handleFrame)
	r.Post("/render", s.handleRender)
}

// Handler is the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server started", "addr", addr, "frame", s.opts.FrameSource)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		s.logger.Info("Stopping server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// frameAsset loads the frame on first use. A failed load is retried on the
// next request.
func (s *Server) frameAsset(ctx context.Context) (*asset.RasterAsset, error) {
	if s.opts.FrameSource == "" {
		return nil, nil
	}
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	if s.frame != nil {
		return s.frame, nil
	}
	a, err := s.opts.Loader.Load(ctx, s.opts.FrameSource)
	if err != nil {
		return nil, &asset.LoadError{Source: s.opts.FrameSource, Layer: asset.LayerFrame, Err: err}
	}
	s.frame = a
	return a, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	frame, err := s.frameAsset(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	if frame == nil {
		http.Error(w, "no frame configured", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", export.PNG.MediaType())
	if err := export.Encode(w, frame.Image, export.PNG); err != nil {
		s.logger.Error("Failed to encode frame", "error", err)
	}
}

// renderParams are the form fields of POST /render.
type renderParams struct {
	transform transform.PhotoTransform
	filter    filter.Selection
	format    export.Format
	preview   bool
}

func (s *Server) parseParams(r *http.Request) (renderParams, error) {
	p := renderParams{transform: transform.Identity(), filter: s.opts.Filter, format: s.opts.Format}
	for _, f := range []struct {
		name  string
		field transform.Field
	}{
		{"x", transform.FieldTranslateX},
		{"y", transform.FieldTranslateY},
		{"scale", transform.FieldScale},
		{"rotation", transform.FieldRotation},
	} {
		raw := strings.TrimSpace(r.FormValue(f.name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, validationError{fmt.Sprintf("invalid %s %q", f.name, raw)}
		}
		switch f.field {
		case transform.FieldTranslateX:
			p.transform.TranslateX = v
		case transform.FieldTranslateY:
			p.transform.TranslateY = v
		default:
			p.transform = p.transform.Set(f.field, v)
		}
	}
	if raw := r.FormValue("filter"); raw != "" {
		sel, err := filter.Parse(raw)
		if err != nil {
			return p, validationError{err.Error()}
		}
		p.filter = sel
	}
	if raw := r.FormValue("format"); raw != "" {
		f, err := export.ParseFormat(raw)
		if err != nil {
			return p, validationError{err.Error()}
		}
		p.format = f
	}
	switch mode := strings.ToLower(strings.TrimSpace(r.FormValue("mode"))); mode {
	case "", "export":
	case "preview":
		p.preview = true
	default:
		return p, validationError{fmt.Sprintf("invalid mode %q", mode)}
	}
	return p, nil
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		s.fail(w, uploadError(err))
		return
	}
	params, err := s.parseParams(r)
	if err != nil {
		s.fail(w, err)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		s.fail(w, validationError{"photo file is required"})
		return
	}
	defer file.Close()
	data, _, err := asset.ReadUpload(file, s.opts.MaxUploadBytes)
	if err != nil {
		s.fail(w, &asset.LoadError{Source: header.Filename, Layer: asset.LayerPhoto, Err: err})
		return
	}
	photo, err := s.opts.Loader.FromBytes("upload:"+header.Filename, data)
	if err != nil {
		s.fail(w, &asset.LoadError{Source: header.Filename, Layer: asset.LayerPhoto, Err: err})
		return
	}
	frame, err := s.frameAsset(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}

	exp := &export.Exporter{
		Multiple: s.opts.ExportMultiple,
		Format:   params.format,
		Slug:     s.opts.Slug,
		Now:      s.opts.Now,
	}
	if params.preview {
		exp.Multiple = 1
	}
	res, err := exp.ExportScene(render.Scene{
		Photo:     filter.Apply(photo.Image, params.filter),
		Frame:     frame.Img(),
		Transform: params.transform,
	})
	if err != nil {
		s.fail(w, err)
		return
	}

	s.logger.Info("Rendered twibbon",
		"request_id", middleware.GetReqID(r.Context()),
		"filename", res.Filename,
		"filter", params.filter.String(),
		"bytes", len(res.Data))
	w.Header().Set("Content-Type", res.Format.MediaType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	_, _ = w.Write(res.Data)
}

type validationError struct{ msg string }

func (e validationError) Error() string { return e.msg }

func uploadError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return asset.ErrTooLarge
	}
	return validationError{fmt.Sprintf("invalid multipart form: %v", err)}
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var ve validationError
	var le *asset.LoadError
	switch {
	case errors.Is(err, asset.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &le) && le.Layer == asset.LayerPhoto:
		return http.StatusBadRequest
	case errors.As(err, &le):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Render failed", "error", err, "status", status)
	} else {
		s.logger.Warn("Rejected request", "error", err, "status", status)
	}
	http.Error(w, err.Error(), status)
}
