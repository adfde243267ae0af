package notify

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/twibbon/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventLoadFailure fires when the photo or frame cannot be loaded.
	EventLoadFailure Event = "load_failure"
	// EventExport fires when an export is written to disk.
	EventExport Event = "export"
	// EventCopy fires when an export or the caption is copied.
	EventCopy Event = "copy"
	// EventError fires when a render or an export fails.
	EventError Event = "error"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "Twibbon",
		Events: map[Event]EventPreference{
			EventLoadFailure: {Template: "Could not load %s"},
			EventExport:      {Template: "Saved %s"},
			EventCopy:        {Template: "Copied %s to clipboard"},
			EventError:       {Template: "%s"},
		},
	}
}

// LoadPreferences reads template overrides from environment variables.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("TWIBBON_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			prefs.Events[event] = EventPreference{Template: v}
		}
	}
	apply("TWIBBON_NOTIFY_LOAD_FAILURE_TEXT", EventLoadFailure)
	apply("TWIBBON_NOTIFY_EXPORT_TEXT", EventExport)
	apply("TWIBBON_NOTIFY_COPY_TEXT", EventCopy)
	apply("TWIBBON_NOTIFY_ERROR_TEXT", EventError)
	return prefs
}

// deliver is replaced in tests.
var deliver = platform.Notify

// Notifier sends desktop notifications for the enabled events. A nil
// *Notifier is valid and sends nothing.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
}

// New creates a new Notifier using the provided preferences.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool)}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// LoadFailed reports a layer that could not be loaded.
func (n *Notifier) LoadFailed(layer string, err error) {
	detail := layer
	if err != nil {
		detail = fmt.Sprintf("%s: %v", layer, rootCause(err))
	}
	n.dispatch(EventLoadFailure, detail, platform.Options{Urgency: platform.UrgencyCritical})
}

// RenderFailed reports a preview that could not be drawn.
func (n *Notifier) RenderFailed(err error) {
	n.dispatch(EventError, fmt.Sprintf("Preview failed: %v", err), platform.Options{})
}

// ExportFailed reports an aborted export.
func (n *Notifier) ExportFailed(err error) {
	n.dispatch(EventError, fmt.Sprintf("Export failed: %v", err), platform.Options{Urgency: platform.UrgencyCritical})
}

// Exported reports a saved export, attaching a small preview when possible.
func (n *Notifier) Exported(path string, img image.Image) {
	if !n.enabledFor(EventExport) {
		return
	}
	detail := strings.TrimSpace(path)
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
	}
	opts := platform.Options{}
	if img != nil {
		if icon, cleanup, err := createPreview(img); err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = icon
		}
	}
	n.dispatch(EventExport, detail, opts)
}

// Copied reports a clipboard copy.
func (n *Notifier) Copied(detail string) {
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	n.dispatch(EventCopy, detail, platform.Options{})
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil || n.enabled == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	template := strings.TrimSpace(n.prefs.Events[event].Template)
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := deliver(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

// rootCause drops wrapping context so messages stay short.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// createPreview writes a thumbnail of img for the notification icon.
func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "twibbon-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, thumbnail(img, 256)); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
