package asset

import (
	"context"
	"sync"
)

// LoadFunc loads a resolved source.
type LoadFunc func(ctx context.Context, src string) (*RasterAsset, error)

// DoneFunc receives the outcome of a request. err is a *LoadError on failure.
type DoneFunc func(a *RasterAsset, err error)

// Slot holds the current asset for one layer. Requests load in the
// background and complete through post, which should run the function on the
// caller's event loop. Each request takes a new token; a completion whose
// token is no longer current is dropped so a slow stale load can never
// replace a newer one.
type Slot struct {
	layer Layer
	load  LoadFunc
	post  func(func())

	mu        sync.Mutex
	token     uint64
	requested string
	pending   bool
	current   *RasterAsset
	cancel    context.CancelFunc
}

// NewSlot returns an empty slot. A nil post runs completions on the loading
// goroutine.
func NewSlot(layer Layer, load LoadFunc, post func(func())) *Slot {
	if post == nil {
		post = func(f func()) { f() }
	}
	return &Slot{layer: layer, load: load, post: post}
}

// Layer reports which layer the slot feeds.
func (s *Slot) Layer() Layer { return s.layer }

// Request starts loading src. It does nothing and returns false when src
// resolves to the source that is already loaded or loading. Otherwise the
// previous asset is discarded, any pending load is cancelled and done is
// called (through post) once this request completes and is still current.
func (s *Slot) Request(src string, done DoneFunc) bool {
	resolved := Resolve(src)
	s.mu.Lock()
	if resolved == s.requested && (s.pending || s.current != nil) {
		s.mu.Unlock()
		return false
	}
	tok, ctx := s.begin(resolved)
	s.mu.Unlock()

	go func() {
		a, err := s.load(ctx, resolved)
		s.post(func() {
			a, err := s.finish(tok, resolved, a, err)
			if err == errStale {
				return
			}
			if done != nil {
				done(a, err)
			}
		})
	}()
	return true
}

// Load loads src synchronously, superseding any pending request. A source
// that is already loaded is returned without reloading.
func (s *Slot) Load(ctx context.Context, src string) (*RasterAsset, error) {
	resolved := Resolve(src)
	s.mu.Lock()
	if resolved == s.requested && !s.pending && s.current != nil {
		a := s.current
		s.mu.Unlock()
		return a, nil
	}
	tok, lctx := s.begin(resolved)
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, s.cancelToken(tok))
	defer stop()
	a, err := s.load(lctx, resolved)
	a, err = s.finish(tok, resolved, a, err)
	if err == errStale {
		return nil, &LoadError{Source: resolved, Layer: s.layer, Err: context.Canceled}
	}
	return a, err
}

// Set installs an already decoded asset, superseding any pending request.
func (s *Slot) Set(a *RasterAsset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersede()
	s.current = a
	s.requested = ""
	if a != nil {
		s.requested = a.SourceURL
	}
}

// Clear drops the current asset and cancels any pending load.
func (s *Slot) Clear() { s.Set(nil) }

// Current returns the loaded asset, or nil while nothing is loaded.
func (s *Slot) Current() *RasterAsset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Pending reports whether a load is in flight.
func (s *Slot) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Requested returns the resolved source of the latest request.
func (s *Slot) Requested() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requested
}

// begin must be called with mu held.
func (s *Slot) begin(resolved string) (uint64, context.Context) {
	s.supersede()
	s.requested = resolved
	s.pending = true
	s.current = nil
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	return s.token, ctx
}

// supersede invalidates the outstanding request. mu must be held.
func (s *Slot) supersede() {
	s.token++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.pending = false
}

func (s *Slot) cancelToken(tok uint64) func() {
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.token == tok && s.cancel != nil {
			s.cancel()
		}
	}
}

type staleError struct{}

func (staleError) Error() string { return "superseded" }

var errStale error = staleError{}

func (s *Slot) finish(tok uint64, resolved string, a *RasterAsset, err error) (*RasterAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok != s.token {
		return nil, errStale
	}
	s.pending = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if err != nil {
		s.current = nil
		s.requested = ""
		return nil, &LoadError{Source: resolved, Layer: s.layer, Err: err}
	}
	s.current = a
	return a, nil
}
