// Package editor ties one editing session together: the photo transform,
// the photo and frame slots, the pointer controller, the slider controls and
// the preview surface.
package editor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/example/twibbon/internal/asset"
	"github.com/example/twibbon/internal/export"
	"github.com/example/twibbon/internal/filter"
	"github.com/example/twibbon/internal/interaction"
	"github.com/example/twibbon/internal/render"
	"github.com/example/twibbon/internal/transform"
)

var (
	// ErrAssetLoad matches every photo or frame load failure.
	ErrAssetLoad = asset.ErrLoad
	// ErrSurfaceUnavailable matches render failures caused by the surface.
	ErrSurfaceUnavailable = render.ErrSurfaceUnavailable
	// ErrEncoding matches export serialisation failures.
	ErrEncoding = export.ErrEncoding
	// ErrNoPhoto is returned when exporting before a photo was chosen.
	ErrNoPhoto = errors.New("no photo loaded")
)

// Notifier reports outcomes to the user. Every method must be safe to call
// from the event loop.
type Notifier interface {
	LoadFailed(layer string, err error)
	RenderFailed(err error)
	Exported(path string, img image.Image)
	ExportFailed(err error)
	Copied(detail string)
}

// Clipboard is the subset of clipboard operations the session uses.
type Clipboard interface {
	WriteImage(img image.Image) error
	WriteText(text string) error
}

// Options configures a Session.
type Options struct {
	// FrameSource is loaded by Start.
	FrameSource string
	// Load fetches photo and frame sources.
	Load asset.LoadFunc
	// Post runs completions on the event loop. Nil runs them inline.
	Post func(func())
	// Changed is called after the preview was re-rendered.
	Changed  func()
	Notifier Notifier
	Exporter *export.Exporter
	// Clipboard is optional; copy operations fail without it.
	Clipboard Clipboard
	// Caption is the text offered by CopyCaption.
	Caption string
	Filter  filter.Selection
}

// Session is one editing session. Apart from the background loads owned by
// the slots, all methods are expected to run on a single event loop.
type Session struct {
	opts Options

	transform  transform.PhotoTransform
	photo      *asset.Slot
	frame      *asset.Slot
	controller *interaction.Controller
	controls   *transform.Controls
	surface    *render.Raster
	mode       render.DrawMode
	filter     filter.Selection

	filtered      image.Image
	filteredFrom  *asset.RasterAsset
	filteredUsing filter.Selection
}

// New returns a session with an empty photo slot and the identity transform.
func New(opts Options) *Session {
	if opts.Exporter == nil {
		opts.Exporter = &export.Exporter{}
	}
	if opts.Notifier == nil {
		opts.Notifier = logNotifier{}
	}
	if opts.Changed == nil {
		opts.Changed = func() {}
	}
	s := &Session{
		opts:      opts,
		transform: transform.Identity(),
		surface:   render.NewRaster(),
		filter:    opts.Filter,
	}
	s.photo = asset.NewSlot(asset.LayerPhoto, opts.Load, opts.Post)
	s.frame = asset.NewSlot(asset.LayerFrame, opts.Load, opts.Post)
	s.controller = interaction.New(&s.transform, s.PhotoLoaded, s.redraw)
	s.controls = transform.NewControls(s.transform, s.commit)
	return s
}

// Start requests the frame and draws the placeholder preview.
func (s *Session) Start() {
	if s.opts.FrameSource != "" {
		s.LoadFrame(s.opts.FrameSource)
	}
	s.redraw(render.ModeIdle)
}

// LoadPhoto requests a new photo. The transform is reset to identity as soon
// as a different photo is requested. It returns false if src is already the
// current photo.
func (s *Session) LoadPhoto(src string) bool {
	started := s.photo.Request(src, s.done(asset.LayerPhoto))
	if started {
		s.resetForPhoto()
		s.redraw(render.ModeIdle)
	}
	return started
}

// SetPhoto installs an already decoded photo.
func (s *Session) SetPhoto(a *asset.RasterAsset) {
	s.photo.Set(a)
	s.resetForPhoto()
	s.redraw(render.ModeIdle)
}

// LoadFrame requests a frame. A failed frame leaves the photo untouched.
func (s *Session) LoadFrame(src string) bool {
	return s.frame.Request(src, s.done(asset.LayerFrame))
}

func (s *Session) resetForPhoto() {
	s.controller.Reset()
	s.transform = transform.Identity()
	s.controls.Sync(s.transform)
}

func (s *Session) done(layer asset.Layer) asset.DoneFunc {
	return func(_ *asset.RasterAsset, err error) {
		if err != nil {
			log.Printf("load %s: %v", layer, err)
			s.opts.Notifier.LoadFailed(string(layer), err)
		}
		s.redraw(s.controller.Mode())
	}
}

// PhotoLoaded reports whether a decoded photo is available.
func (s *Session) PhotoLoaded() bool { return s.photo.Current() != nil }

// PhotoPending reports whether a photo load is in flight.
func (s *Session) PhotoPending() bool { return s.photo.Pending() }

// Photo returns the loaded photo or nil.
func (s *Session) Photo() *asset.RasterAsset { return s.photo.Current() }

// Frame returns the loaded frame or nil.
func (s *Session) Frame() *asset.RasterAsset { return s.frame.Current() }

// Transform returns the committed transform.
func (s *Session) Transform() transform.PhotoTransform { return s.transform }

// Controller exposes the pointer state machine.
func (s *Session) Controller() *interaction.Controller { return s.controller }

// Controls exposes the slider controls.
func (s *Session) Controls() *transform.Controls { return s.controls }

// Mode is the draw mode of the last preview render.
func (s *Session) Mode() render.DrawMode { return s.mode }

// Preview returns the preview image, or nil before the first render.
func (s *Session) Preview() *image.RGBA { return s.surface.Image() }

// commit is the slider commit hook.
func (s *Session) commit(f transform.Field, v float64) {
	s.transform = s.transform.Set(f, v)
	s.controls.Sync(s.transform)
	s.redraw(render.ModeIdle)
}

// SetControl commits a control value, clamped to its range.
func (s *Session) SetControl(f transform.Field, v float64) {
	s.controls.Drag(f, v)
	s.controls.Commit(f)
}

// Nudge adds delta to a control and commits it.
func (s *Session) Nudge(f transform.Field, delta float64) {
	s.SetControl(f, s.transform.Get(f)+delta)
}

// Reset restores the identity transform.
func (s *Session) Reset() {
	s.transform = s.transform.Reset()
	s.controls.Sync(s.transform)
	s.redraw(render.ModeIdle)
}

// Filter returns the selected filter.
func (s *Session) Filter() filter.Selection { return s.filter }

// SetFilter selects a filter for the preview and exports.
func (s *Session) SetFilter(f filter.Selection) {
	s.filter = f
	s.redraw(s.mode)
}

// CycleFilter advances to the next filter and returns it.
func (s *Session) CycleFilter() filter.Selection {
	s.SetFilter(s.filter.Next())
	return s.filter
}

// Scene assembles the compositor input for mode.
func (s *Session) Scene(mode render.DrawMode) render.Scene {
	return render.Scene{
		Photo:     s.filteredPhoto(),
		Frame:     s.frame.Current().Img(),
		Transform: s.transform,
		Mode:      mode,
	}
}

func (s *Session) filteredPhoto() image.Image {
	a := s.photo.Current()
	if a == nil || s.filter == filter.None {
		return a.Img()
	}
	if s.filteredFrom != a || s.filteredUsing != s.filter {
		s.filtered = filter.Apply(a.Image, s.filter)
		s.filteredFrom, s.filteredUsing = a, s.filter
	}
	return s.filtered
}

// Render draws the preview in mode. A surface failure is reported and
// returned; the session stays usable and the next change retries.
func (s *Session) Render(mode render.DrawMode) error {
	s.mode = mode
	if err := render.Render(s.surface, render.Preview(), s.Scene(mode)); err != nil {
		log.Printf("render preview: %v", err)
		s.opts.Notifier.RenderFailed(err)
		return err
	}
	s.opts.Changed()
	return nil
}

func (s *Session) redraw(mode render.DrawMode) { _ = s.Render(mode) }

// Export loads the photo and then the frame, renders them at export
// resolution and encodes the result. A load still in flight is taken over by
// the export, so its outcome is reported and the preview redrawn here.
func (s *Session) Export(ctx context.Context) (*export.Result, error) {
	src := s.photo.Requested()
	if src == "" {
		s.opts.Notifier.ExportFailed(ErrNoPhoto)
		return nil, ErrNoPhoto
	}
	photoPending, framePending := s.photo.Pending(), s.frame.Pending()
	res, err := s.opts.Exporter.Export(ctx, s.photo, s.frame, export.Request{
		PhotoSource: src,
		FrameSource: s.frame.Requested(),
		Transform:   s.transform,
		Filter:      s.filter,
	})
	if photoPending || framePending {
		var le *asset.LoadError
		if errors.As(err, &le) && ((le.Layer == asset.LayerPhoto && photoPending) || (le.Layer == asset.LayerFrame && framePending)) {
			s.opts.Notifier.LoadFailed(string(le.Layer), err)
		}
		s.redraw(s.controller.Mode())
	}
	if err != nil {
		log.Printf("export: %v", err)
		s.opts.Notifier.ExportFailed(err)
		return nil, err
	}
	return res, nil
}

// ExportTo exports and saves into dir, returning the written path.
func (s *Session) ExportTo(ctx context.Context, dir string) (string, error) {
	res, err := s.Export(ctx)
	if err != nil {
		return "", err
	}
	path, err := export.Save(dir, res)
	if err != nil {
		s.opts.Notifier.ExportFailed(err)
		return "", err
	}
	s.opts.Notifier.Exported(path, res.Image)
	return path, nil
}

// CopyExport exports and places the image on the clipboard.
func (s *Session) CopyExport(ctx context.Context) error {
	if s.opts.Clipboard == nil {
		return fmt.Errorf("clipboard unavailable")
	}
	res, err := s.Export(ctx)
	if err != nil {
		return err
	}
	if err := s.opts.Clipboard.WriteImage(res.Image); err != nil {
		return fmt.Errorf("copy image: %w", err)
	}
	s.opts.Notifier.Copied("image")
	return nil
}

// CopyCaption places the caption text on the clipboard.
func (s *Session) CopyCaption() error {
	if s.opts.Clipboard == nil {
		return fmt.Errorf("clipboard unavailable")
	}
	if err := s.opts.Clipboard.WriteText(s.opts.Caption); err != nil {
		return fmt.Errorf("copy caption: %w", err)
	}
	s.opts.Notifier.Copied("caption")
	return nil
}

type logNotifier struct{}

func (logNotifier) LoadFailed(layer string, err error)  { log.Printf("%s failed to load: %v", layer, err) }
func (logNotifier) RenderFailed(err error)              { log.Printf("render failed: %v", err) }
func (logNotifier) Exported(path string, _ image.Image) { log.Printf("saved %s", path) }
func (logNotifier) ExportFailed(err error)              { log.Printf("export failed: %v", err) }
func (logNotifier) Copied(detail string)                { log.Printf("copied %s", detail) }
