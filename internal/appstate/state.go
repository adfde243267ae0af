// Package appstate is the desktop editor window. It feeds pointer, touch and
// keyboard input into an editing session and paints the live preview next to
// a panel of sliders, actions and filter cards.
package appstate

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"log"
	"sync"
	"time"
	"unicode"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"

	"github.com/example/twibbon/internal/asset"
	"github.com/example/twibbon/internal/editor"
	"github.com/example/twibbon/internal/filter"
	"github.com/example/twibbon/internal/interaction"
	"github.com/example/twibbon/internal/render"
	"github.com/example/twibbon/internal/theme"
	"github.com/example/twibbon/internal/transform"
)

// ClipboardSource is the photo source read on paste.
const ClipboardSource = "clipboard:"

const messageDuration = 2 * time.Second

// AppState holds the configuration of the editor window.
type AppState struct {
	Session   editor.Options
	Photo     string
	OutputDir string
	Theme     *theme.Theme
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithSession sets the options used to build the editing session. Post and
// Changed are replaced by the window.
func WithSession(opts editor.Options) Option { return func(a *AppState) { a.Session = opts } }

// WithPhoto sets a photo source to load on start.
func WithPhoto(src string) Option { return func(a *AppState) { a.Photo = src } }

// WithOutputDir sets where Ctrl+S writes exports.
func WithOutputDir(dir string) Option { return func(a *AppState) { a.OutputDir = dir } }

// WithTheme sets the window palette.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{}
	for _, o := range opts {
		o(a)
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

// postEvent carries a function onto the window event loop.
type postEvent struct{ fn func() }

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

func (a *AppState) Main(s screen.Screen) {
	width, height := defaultWidth, defaultHeight
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "Twibbon"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()

	th := a.Theme
	sliders := defaultSliders()
	activeSlider := -1
	hoverButton, hoverThumb := -1, -1
	var buttons, thumbs []*CacheButton
	var lay layout
	var snapshot *image.RGBA
	var thumbsFor *asset.RasterAsset
	var message string
	var messageError bool
	var messageUntil time.Time

	say := func(isErr bool, format string, args ...any) {
		message = fmt.Sprintf(format, args...)
		messageError = isErr
		messageUntil = time.Now().Add(messageDuration)
		log.Print(message)
		w.Send(paint.Event{})
	}

	var sess *editor.Session
	opts := a.Session
	opts.Post = func(fn func()) { w.Send(postEvent{fn}) }

	var rebuildThumbs func()
	opts.Changed = func() {
		if p := sess.Preview(); p != nil {
			cp := image.NewRGBA(p.Bounds())
			draw.Draw(cp, cp.Bounds(), p, p.Bounds().Min, draw.Src)
			snapshot = cp
		}
		if photo := sess.Photo(); photo != thumbsFor {
			thumbsFor = photo
			rebuildThumbs()
		}
		w.Send(paint.Event{})
	}
	sess = editor.New(opts)

	relayout := func() {
		lay = computeLayout(width, height, len(sliders), len(buttons), len(thumbs))
		for i := range sliders {
			sliders[i].rect = lay.sliders[i]
		}
		for i, b := range buttons {
			b.SetRect(lay.buttons[i])
		}
		for i, b := range thumbs {
			b.SetRect(lay.thumbs[i])
		}
		sess.Controller().SetViewport(interaction.Viewport{
			CanvasW:  render.CanonicalWidth,
			CanvasH:  render.CanonicalHeight,
			DisplayW: float64(lay.preview.Dx()),
			DisplayH: float64(lay.preview.Dy()),
		})
	}

	selectFilter := func(f filter.Selection) {
		sess.SetFilter(f)
		for _, cb := range thumbs {
			fb := cb.Button.(*FilterButton)
			fb.selected = fb.thumb.Filter == f
			cb.Invalidate()
		}
	}

	rebuildThumbs = func() {
		thumbs = nil
		if thumbsFor != nil {
			for _, t := range filter.Thumbnails(thumbsFor.Image, thumbWidth, thumbHeight) {
				thumbs = append(thumbs, &CacheButton{Button: &FilterButton{
					thumb:    t,
					theme:    th,
					selected: t.Filter == sess.Filter(),
					onSelect: selectFilter,
				}})
			}
		}
		hoverThumb = -1
		relayout()
	}

	// Actions shared by the panel buttons and the keyboard.
	export := func() {
		path, err := sess.ExportTo(context.Background(), a.OutputDir)
		if err != nil {
			say(true, "export failed: %v", err)
			return
		}
		say(false, "saved %s", path)
	}
	copyExport := func() {
		if err := sess.CopyExport(context.Background()); err != nil {
			say(true, "copy failed: %v", err)
			return
		}
		say(false, "image copied to clipboard")
	}
	copyCaption := func() {
		if err := sess.CopyCaption(); err != nil {
			say(true, "copy failed: %v", err)
			return
		}
		say(false, "caption copied to clipboard")
	}
	paste := func() {
		load := opts.Load
		if load == nil {
			say(true, "paste unavailable")
			return
		}
		go func() {
			img, err := load(context.Background(), ClipboardSource)
			w.Send(postEvent{func() {
				if err != nil {
					if opts.Notifier != nil {
						opts.Notifier.LoadFailed(string(asset.LayerPhoto), err)
					}
					say(true, "paste failed: %v", err)
					return
				}
				sess.SetPhoto(img)
				say(false, "pasted photo")
			}})
		}()
	}
	reset := func() {
		sess.Reset()
		say(false, "transform reset")
	}
	cycleFilter := func() {
		f := sess.CycleFilter()
		selectFilter(f)
		say(false, "filter: %s", f.Label())
	}

	buttons = []*CacheButton{
		{Button: &ActionButton{label: "Ctrl+V Paste photo", theme: th, onActivate: paste}},
		{Button: &ActionButton{label: "R Reset", theme: th, onActivate: reset}},
		{Button: &ActionButton{label: "Ctrl+S Export", theme: th, onActivate: export}},
		{Button: &ActionButton{label: "Ctrl+C Copy image", theme: th, onActivate: copyExport}},
		{Button: &ActionButton{label: "C Copy caption", theme: th, onActivate: copyCaption}},
	}

	keyboardAction := map[KeyShortcut]string{}
	actions := map[string]func(){}
	register := func(name string, keys KeyboardShortcuts, fn func()) {
		actions[name] = fn
		for _, sc := range keys.KeyboardShortcuts() {
			keyboardAction[sc] = name
		}
	}
	nudge := func(f transform.Field, delta float64) func() {
		return func() { sess.Nudge(f, delta) }
	}
	register("export", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, export)
	register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, copyExport)
	register("paste", shortcutList{{Rune: 'v', Modifiers: key.ModControl}}, paste)
	register("caption", shortcutList{{Rune: 'c'}}, copyCaption)
	register("reset", shortcutList{{Rune: 'r'}}, reset)
	register("filter", shortcutList{{Rune: 'f'}}, cycleFilter)
	register("zoomin", shortcutList{{Rune: '+'}, {Rune: '='}}, nudge(transform.FieldScale, transform.ScaleStep))
	register("zoomout", shortcutList{{Rune: '-'}}, nudge(transform.FieldScale, -transform.ScaleStep))
	register("rotleft", shortcutList{{Rune: '['}}, nudge(transform.FieldRotation, -transform.RotationStep))
	register("rotright", shortcutList{{Rune: ']'}}, nudge(transform.FieldRotation, transform.RotationStep))
	register("left", shortcutList{{Rune: -1, Code: key.CodeLeftArrow}}, nudge(transform.FieldTranslateX, -nudgeStep))
	register("right", shortcutList{{Rune: -1, Code: key.CodeRightArrow}}, nudge(transform.FieldTranslateX, nudgeStep))
	register("up", shortcutList{{Rune: -1, Code: key.CodeUpArrow}}, nudge(transform.FieldTranslateY, -nudgeStep))
	register("down", shortcutList{{Rune: -1, Code: key.CodeDownArrow}}, nudge(transform.FieldTranslateY, nudgeStep))

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	defer close(paintCh)
	stopPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	relayout()
	sess.Start()
	if a.Photo != "" {
		sess.LoadPhoto(a.Photo)
	}

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case postEvent:
			e.fn()
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stopPaint()
				return
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			relayout()
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil {
				if dropCount < frameDropThreshold {
					paintCancel()
					dropCount++
				}
			}
			paintMu.Unlock()
			values := make([]float64, len(sliders))
			for i, sl := range sliders {
				if i == activeSlider {
					values[i] = sess.Controls().Local().Get(sl.Field)
				} else {
					values[i] = sess.Transform().Get(sl.Field)
				}
			}
			st := paintState{
				width:        width,
				height:       height,
				theme:        th,
				layout:       lay,
				preview:      snapshot,
				photoLoaded:  sess.PhotoLoaded(),
				photoPending: sess.PhotoPending(),
				sliders:      append([]Slider(nil), sliders...),
				values:       values,
				activeSlider: activeSlider,
				buttons:      buttons,
				thumbs:       thumbs,
				hoverButton:  hoverButton,
				hoverThumb:   hoverThumb,
				status:       statusLine(sess),
				message:      message,
				messageError: messageError,
				messageUntil: messageUntil,
			}
			select {
			case paintCh <- st:
			default:
				<-paintCh
				paintCh <- st
			}
		case mouse.Event:
			p := image.Pt(int(e.X), int(e.Y))
			if activeSlider >= 0 {
				sl := sliders[activeSlider]
				switch e.Direction {
				case mouse.DirNone:
					sess.Controls().Drag(sl.Field, sl.valueAt(p.X))
				case mouse.DirRelease:
					sess.Controls().Drag(sl.Field, sl.valueAt(p.X))
					sess.Controls().Commit(sl.Field)
					activeSlider = -1
				}
				w.Send(paint.Event{})
				continue
			}
			if p.In(lay.panel) {
				if sess.Controller().State() == interaction.StateDragging {
					sess.Controller().PointerLeave()
				}
				press := e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress
				if i := hit(lay.sliders, p); i >= 0 && press {
					sess.Controls().Sync(sess.Transform())
					activeSlider = i
					sess.Controls().Drag(sliders[i].Field, sliders[i].valueAt(p.X))
					w.Send(paint.Event{})
					continue
				}
				hb, ht := hit(lay.buttons, p), hit(lay.thumbs, p)
				if press {
					switch {
					case hb >= 0:
						buttons[hb].Activate()
					case ht >= 0:
						thumbs[ht].Activate()
					}
				}
				if hb != hoverButton || ht != hoverThumb || press {
					hoverButton, hoverThumb = hb, ht
					w.Send(paint.Event{})
				}
				continue
			}
			if hoverButton >= 0 || hoverThumb >= 0 {
				hoverButton, hoverThumb = -1, -1
				w.Send(paint.Event{})
			}
			if message != "" && time.Now().Before(messageUntil) && e.Direction == mouse.DirPress {
				messageUntil = time.Time{}
				w.Send(paint.Event{})
			}
			sess.Controller().HandleMouse(e, lay.preview)
		case touch.Event:
			sess.Controller().HandleTouch(e, lay.preview)
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			mods := e.Modifiers &^ key.ModShift
			if unicode.ToLower(e.Rune) == 'q' && mods == 0 {
				stopPaint()
				return
			}
			if e.Code == key.CodeEscape && sess.Controller().PointerCancel() {
				continue
			}
			ks := KeyShortcut{Rune: unicode.ToLower(e.Rune), Modifiers: mods}
			if e.Rune < 0 {
				ks.Code = e.Code
			}
			if action, ok := keyboardAction[ks]; ok {
				actions[action]()
				w.Send(paint.Event{})
			}
		}
	}
}

// nudgeStep is the arrow key translation in canvas pixels.
const nudgeStep = 10

func statusLine(s *editor.Session) string {
	t := s.Transform()
	state := s.Controller().State()
	return fmt.Sprintf("%s | x %.0f y %.0f | scale %.2f | rot %.0f | filter %s",
		state, t.TranslateX, t.TranslateY, t.Scale, t.RotationDegrees, s.Filter().Label())
}
