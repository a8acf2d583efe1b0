// Package viewsync re-renders registered views whenever one of their
// source repositories changes and pushes the result to a Sink.
package viewsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	ErrDuplicateView = errors.New("view already registered")
	ErrRunning       = errors.New("synchronizer already running")
	ErrUnknownView   = errors.New("unknown view")
)

// Source is anything that announces changes. Every repository is one.
type Source interface {
	Subscribe(fn func()) (unsubscribe func())
}

// SourceFunc adapts a plain subscribe function.
type SourceFunc func(fn func()) func()

func (f SourceFunc) Subscribe(fn func()) func() { return f(fn) }

// View is a named payload derived from one or more sources. Render always
// builds the full payload from the sources' latest snapshots.
type View struct {
	Name    string
	Sources []Source
	Render  func() (any, error)
}

// Sink receives every rendered frame.
type Sink interface {
	Publish(view string, frame []byte)
}

// Frame is the JSON envelope pushed for each render.
type Frame struct {
	View string `json:"view"`
	Data any    `json:"data"`
}

// Synchronizer coalesces change events per view and renders serially from
// a single goroutine. A burst of notifications for the same view between
// two renders produces one render.
type Synchronizer struct {
	sink   Sink
	logger *slog.Logger

	mu      sync.Mutex
	views   []View
	index   map[string]int
	pending map[string]bool
	latest  map[string][]byte
	running bool

	wake chan struct{}
}

// New returns a synchronizer that publishes to sink, which may be nil.
func New(sink Sink, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Synchronizer{
		sink:    sink,
		logger:  logger,
		index:   make(map[string]int),
		pending: make(map[string]bool),
		latest:  make(map[string][]byte),
		wake:    make(chan struct{}, 1),
	}
}

func (s *Synchronizer) Register(v View) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrRunning
	}
	if _, ok := s.index[v.Name]; ok {
		return fmt.Errorf("%s: %w", v.Name, ErrDuplicateView)
	}
	s.index[v.Name] = len(s.views)
	s.views = append(s.views, v)
	return nil
}

// Views lists registered view names in registration order.
func (s *Synchronizer) Views() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, len(s.views))
	for i, v := range s.views {
		names[i] = v.Name
	}
	return names
}

// Run subscribes to every source, renders each view once, and then
// re-renders on change until ctx is done.
func (s *Synchronizer) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrRunning
	}
	s.running = true
	views := append([]View(nil), s.views...)
	for _, v := range views {
		s.pending[v.Name] = true
	}
	s.mu.Unlock()

	var stops []func()
	for _, v := range views {
		name := v.Name
		for _, src := range v.Sources {
			stops = append(stops, src.Subscribe(func() { s.mark(name) }))
		}
	}
	defer func() {
		for _, stop := range stops {
			stop()
		}
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	s.signal()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
			s.flush(views)
		}
	}
}

// Refresh schedules a re-render of name.
func (s *Synchronizer) Refresh(name string) error {
	s.mu.Lock()
	_, ok := s.index[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownView)
	}
	s.mark(name)
	return nil
}

// Latest returns the last frame rendered for name.
func (s *Synchronizer) Latest(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	frame, ok := s.latest[name]
	return frame, ok
}

func (s *Synchronizer) mark(name string) {
	s.mu.Lock()
	s.pending[name] = true
	s.mu.Unlock()
	s.signal()
}

func (s *Synchronizer) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Synchronizer) flush(views []View) {
	s.mu.Lock()
	var due []View
	for _, v := range views {
		if s.pending[v.Name] {
			due = append(due, v)
			delete(s.pending, v.Name)
		}
	}
	s.mu.Unlock()

	for _, v := range due {
		payload, err := v.Render()
		if err != nil {
			s.logger.Warn("render failed", "view", v.Name, "error", err)
			continue
		}
		frame, err := json.Marshal(Frame{View: v.Name, Data: payload})
		if err != nil {
			s.logger.Warn("encode frame failed", "view", v.Name, "error", err)
			continue
		}
		s.mu.Lock()
		s.latest[v.Name] = frame
		s.mu.Unlock()
		if s.sink != nil {
			s.sink.Publish(v.Name, frame)
		}
	}
}
